package controllers

import (
	"net/http"
	"strconv"

	"github.com/ordinalfs/ordinalfs/internal/vfs"
	"github.com/ordinalfs/ordinalfs/pkg/crypt"
	"github.com/ordinalfs/ordinalfs/pkg/response"
)

// These handlers expose the raw engine primitives (§4.2) directly, distinct
// from the document-editor-shaped /createFolder, /saveFile, /pasteItems
// surface: a plain API client wants stat/readdir/readFile/rm without the
// ordinal-insertion ceremony the editor endpoints add.

func (c *VFSController) Stat(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	root, err := c.service.ResolveRoot(r.URL.Query().Get("docRootKey"))
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	parent, name := vfs.Split(path)

	stats, err := c.service.Engine().Stat(r.Context(), parent, name, root)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Success(w, stats)
}

func (c *VFSController) ReaddirRaw(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	root, err := c.service.ResolveRoot(r.URL.Query().Get("docRootKey"))
	if err != nil {
		response.FromVFSError(w, err)
		return
	}

	nodes, err := c.service.Engine().Readdir(r.Context(), callerID(r), path, root)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Success(w, nodes)
}

func (c *VFSController) ReadFileRaw(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	root, err := c.service.ResolveRoot(r.URL.Query().Get("docRootKey"))
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	parent, name := vfs.Split(path)

	text, binary, err := c.service.Engine().ReadFile(r.Context(), callerID(r), parent, name, root)
	if err != nil {
		response.FromVFSError(w, err)
		return
	}

	var content string
	if text != nil {
		content = *text
	} else {
		content = string(binary)
	}
	w.Header().Set("ETag", `"`+crypt.Hash(content)+`"`)
	response.Success(w, map[string]string{"content": content})
}

func (c *VFSController) WriteFileRaw(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Path       string `json:"path"`
		Content    string `json:"content"`
		Ordinal    int32  `json:"ordinal"`
		IsPublic   bool   `json:"isPublic"`
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
	isBinary, _ := vfs.ClassifyContentType(name)

	engine := c.service.Engine()
	var uuid string
	if isBinary {
		uuid, err = engine.WriteBinary(r.Context(), callerID(r), parent, name, root, []byte(body.Content), body.Ordinal, body.IsPublic)
	} else {
		uuid, err = engine.WriteText(r.Context(), callerID(r), parent, name, root, body.Content, body.Ordinal, body.IsPublic)
	}
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Created(w, map[string]string{"uuid": uuid})
}

func (c *VFSController) RmRaw(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	root, err := c.service.ResolveRoot(r.URL.Query().Get("docRootKey"))
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	recursive, _ := strconv.ParseBool(r.URL.Query().Get("recursive"))
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	deleted, err := c.service.Engine().Rm(r.Context(), callerID(r), path, root, vfs.RmOptions{Recursive: recursive, Force: force})
	if err != nil {
		response.FromVFSError(w, err)
		return
	}
	response.Success(w, map[string]int64{"deleted": deleted})
}
