package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/ordinalfs/ordinalfs/app/jobs"
	"github.com/ordinalfs/ordinalfs/app/services"
	"github.com/ordinalfs/ordinalfs/config"
	"github.com/ordinalfs/ordinalfs/internal/docservice"
	"github.com/ordinalfs/ordinalfs/internal/vfs"
	"github.com/ordinalfs/ordinalfs/pkg/bind"
	"github.com/ordinalfs/ordinalfs/pkg/middleware"
	"github.com/ordinalfs/ordinalfs/pkg/queue"
	"github.com/ordinalfs/ordinalfs/pkg/response"
)

// VFSController implements the §6.3 wire contract: one handler per
// document-service or engine operation, each decoding its own request
// shape and dispatching to the authenticated caller's doc root.
type VFSController struct {
	service *services.VFSService
}

func NewVFSController() *VFSController {
	return &VFSController{service: services.NewVFSService()}
}

func callerID(r *http.Request) uint {
	id, ok := middleware.UserIDFromCtx(r)
	if !ok {
		return vfs.AdminOwnerID
	}
	return id
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	errs, err := bind.JSON(r, v)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return false
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return false
	}
	return true
}

func (c *VFSController) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FolderName      string `json:"folderName"`
		TreeFolder      string `json:"treeFolder"`
		InsertAfterNode string `json:"insertAfterNode"`
		DocRootKey      string `json:"docRootKey"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	root, err := c.service.ResolveRoot(body.DocRootKey)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	svc := c.service.ForKey(root)
	result, err := svc.CreateFolder(r.Context(), callerID(r), body.TreeFolder, body.FolderName, body.InsertAfterNode)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Success(w, result)
}

func (c *VFSController) SaveFile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Filename   string `json:"filename"`
		Content    string `json:"content"`
		TreeFolder string `json:"treeFolder"`
		DocRootKey string `json:"docRootKey"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	root, err := c.service.ResolveRoot(body.DocRootKey)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	svc := c.service.ForKey(root)
	isBinary, _ := vfs.ClassifyContentType(body.Filename)
	var binary []byte
	if isBinary {
		binary = []byte(body.Content)
	}
	if _, err := svc.SaveFile(r.Context(), callerID(r), body.TreeFolder, body.Filename, body.Content, binary); err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "file saved"})
}

func (c *VFSController) PasteItems(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DestFolder string   `json:"destFolder"`
		AnchorUUID string   `json:"anchorUuid"`
		ItemUUIDs  []string `json:"itemUuids"`
		Mode       string   `json:"mode"`
		DocRootKey string   `json:"docRootKey"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	mode := docservice.PasteMove
	if body.Mode == "copy" {
		mode = docservice.PasteCopy
	}

	root, err := c.service.ResolveRoot(body.DocRootKey)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	svc := c.service.ForKey(root)
	result, err := svc.PasteItems(r.Context(), callerID(r), body.DestFolder, body.AnchorUUID, body.ItemUUIDs, mode)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Success(w, result)
}

func (c *VFSController) MoveUpOrDown(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Filename   string `json:"filename"`
		TreeFolder string `json:"treeFolder"`
		Direction  string `json:"direction"`
		DocRootKey string `json:"docRootKey"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	dir := docservice.MoveUp
	if body.Direction == "down" {
		dir = docservice.MoveDown
	}

	root, err := c.service.ResolveRoot(body.DocRootKey)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	svc := c.service.ForKey(root)
	if err := svc.MoveUpOrDown(r.Context(), callerID(r), body.TreeFolder, body.Filename, dir); err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "Files moved successfully"})
}

func (c *VFSController) Rename(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OldPath    string `json:"oldPath"`
		NewPath    string `json:"newPath"`
		DocRootKey string `json:"docRootKey"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	oldParent, oldName := vfs.Split(body.OldPath)
	newParent, newName := vfs.Split(body.NewPath)

	root, err := c.service.ResolveRoot(body.DocRootKey)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	engine := c.service.Engine()
	result, err := engine.Rename(r.Context(), callerID(r), oldParent, oldName, newParent, newName, root)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Success(w, result)
}

func (c *VFSController) SetPublic(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path       string `json:"path"`
		IsPublic   bool   `json:"isPublic"`
		Recursive  bool   `json:"recursive"`
		DocRootKey string `json:"docRootKey"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	parent, name := vfs.Split(body.Path)
	root, err := c.service.ResolveRoot(body.DocRootKey)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	engine := c.service.Engine()
	result, err := engine.SetPublic(r.Context(), callerID(r), parent, name, root, body.IsPublic, body.Recursive)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Success(w, result)
}

func (c *VFSController) SearchText(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query       string `json:"query"`
		TreeFolder  string `json:"treeFolder"`
		DocRootKey  string `json:"docRootKey"`
		SearchMode  string `json:"searchMode"`
		SearchOrder string `json:"searchOrder"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	mode := vfs.MatchAny
	switch body.SearchMode {
	case "MATCH_ALL":
		mode = vfs.MatchAll
	case "REGEX":
		mode = vfs.MatchRegex
	}
	order := vfs.OrderModTime
	if body.SearchOrder == "FILENAME" {
		order = vfs.OrderFilename
	}

	root, err := c.service.ResolveRoot(body.DocRootKey)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	engine := c.service.Engine()
	results, err := engine.SearchText(r.Context(), callerID(r), body.Query, body.TreeFolder, root, mode, order)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"query":       body.Query,
		"searchPath":  body.TreeFolder,
		"searchMode":  body.SearchMode,
		"resultCount": len(results),
		"results":     results,
	})
}

func (c *VFSController) ExtractTags(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DocRootKey string `json:"docRootKey"`
	}
	json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck // {} is a valid, fully-empty body

	root, err := c.service.ResolveRoot(body.DocRootKey)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	svc := c.service.ForKey(root)
	result, err := svc.ExtractTags(r.Context(), callerID(r))
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Success(w, result)
}

// ListDocRoots is an admin-only maintenance route (§4.10's authorization
// bullet) exposing the configured document roots across the whole install,
// not just the caller's own doc_root_key.
func (c *VFSController) ListDocRoots(w http.ResponseWriter, r *http.Request) {
	response.Success(w, config.DocRoots())
}

// ScanAndUpdateTagsAsync dispatches the rebuild through pkg/queue instead of
// running it inline, returning immediately with a 202 (§4.10, §6.3).
func (c *VFSController) ScanAndUpdateTagsAsync(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DocRootKey string `json:"docRootKey"`
	}
	json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck // {} is a valid, fully-empty body

	root, err := c.service.ResolveRoot(body.DocRootKey)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}

	job := &jobs.ScanAndUpdateTagsJob{DocRootKey: root, CallerID: callerID(r)}
	if err := queue.Dispatch(job); err != nil {
		response.Error(w, http.StatusServiceUnavailable, "failed to queue tag rebuild: "+err.Error())
		return
	}
	response.Accepted(w, map[string]string{"docRootKey": root, "message": "tag rebuild queued"})
}

func (c *VFSController) ScanAndUpdateTags(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DocRootKey string `json:"docRootKey"`
	}
	json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck // {} is a valid, fully-empty body

	root, err := c.service.ResolveRoot(body.DocRootKey)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	svc := c.service.ForKey(root)
	result, err := svc.ScanAndUpdateTags(r.Context(), callerID(r))
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Success(w, result)
}
