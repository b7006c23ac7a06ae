package vfs

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ordinalfs/ordinalfs/pkg/collection"
	"github.com/ordinalfs/ordinalfs/pkg/metrics"
)

// Engine is the storage engine: every call is one atomic unit of work
// against the nodes table of a single database connection.
type Engine struct {
	db *gorm.DB
}

// New wraps a *gorm.DB as an Engine. The caller owns connection lifecycle.
func New(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// ctxDB binds ctx to the engine's connection so a caller deadline aborts
// the in-flight statement instead of running unbounded.
func (e *Engine) ctxDB(ctx context.Context) *gorm.DB {
	return e.db.WithContext(ctx)
}

// Transaction runs fn against an Engine bound to one database transaction,
// so a composed, multi-primitive operation (pasteItems, createFolder,
// moveUpOrDown, rename) never lets a reader observe a midpoint (§5). fn's
// returned error rolls back the transaction and is returned unmodified.
func (e *Engine) Transaction(ctx context.Context, fn func(tx *Engine) error) error {
	return e.ctxDB(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Engine{db: tx})
	})
}

// classifyDBErr maps a gorm/driver failure to a Timeout or
// BackendUnavailable *Error, or passes through ErrRecordNotFound.
func classifyDBErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return gorm.ErrRecordNotFound
	}
	if ctx.Err() != nil {
		return wrapErr(KindTimeout, err, "deadline exceeded")
	}
	return wrapErr(KindBackendUnavailable, err, "store error")
}

// visibilityClause appends the I6 predicate for caller to db: admin and
// owners see everything, everyone else only public rows.
func visibilityClause(db *gorm.DB, caller uint) *gorm.DB {
	if caller == AdminOwnerID {
		return db
	}
	return db.Where("owner_id = ? OR is_public = ?", caller, true)
}

// Exists is a cheap presence check; it does not enforce ownership and is
// intended as a cache/idempotency gate. Root always exists.
func (e *Engine) Exists(ctx context.Context, parent, name, root string) bool {
	parent = Normalize(parent)
	if parent == "" && name == "" {
		return true
	}
	var count int64
	e.ctxDB(ctx).Model(&Node{}).
		Where("doc_root_key = ? AND parent_path = ? AND filename = ?", root, parent, name).
		Count(&count)
	return count > 0
}

// GetNodeByName returns the full row, or NotFound when absent.
func (e *Engine) GetNodeByName(ctx context.Context, parent, name, root string) (*Node, error) {
	parent = Normalize(parent)
	var n Node
	err := e.ctxDB(ctx).
		Where("doc_root_key = ? AND parent_path = ? AND filename = ?", root, parent, name).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound
	}
	if err != nil {
		return nil, classifyDBErr(ctx, err)
	}
	return &n, nil
}

// GetNodeByUUID is the stable lookup used by move/paste, immune to renames.
func (e *Engine) GetNodeByUUID(ctx context.Context, id, root string) (*Node, error) {
	var n Node
	err := e.ctxDB(ctx).
		Where("doc_root_key = ? AND uuid = ?", root, id).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound
	}
	if err != nil {
		return nil, classifyDBErr(ctx, err)
	}
	return &n, nil
}

// Stat returns synthesized root stats for the empty path, or the row's
// stats otherwise.
func (e *Engine) Stat(ctx context.Context, parent, name, root string) (Stats, error) {
	if Normalize(parent) == "" && name == "" {
		return rootStats(), nil
	}
	n, err := e.GetNodeByName(ctx, parent, name, root)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		IsDirectory: n.IsDirectory,
		IsPublic:    n.IsPublic,
		Birthtime:   n.CreatedTime,
		Mtime:       n.ModifiedTime,
		Size:        n.SizeBytes,
	}, nil
}

// CheckAuth reports whether caller may act on (parent, name): admin, owner,
// or — for read-only intent — a public row. When wantDirectory is non-nil
// it must match the row's is_directory, an asymmetry callers use to assert
// type and authorization together (§4.2); a mismatch is BadArgument per the
// resolved Open Question in §9.
func (e *Engine) CheckAuth(ctx context.Context, caller uint, parent, name, root string, wantDirectory *bool, readOnly bool) (bool, error) {
	n, err := e.GetNodeByName(ctx, parent, name, root)
	if err != nil {
		if errors.Is(err, NotFound) {
			return false, nil
		}
		return false, err
	}

	if wantDirectory != nil && n.IsDirectory != *wantDirectory {
		return false, BadArgument
	}

	if caller == AdminOwnerID || n.OwnerID == caller {
		return true, nil
	}
	return readOnly && n.IsPublic, nil
}

// ChildrenExist reports whether any child of parent_path is visible to caller.
func (e *Engine) ChildrenExist(ctx context.Context, caller uint, parentPath, root string) (bool, error) {
	parentPath = Normalize(parentPath)
	var count int64
	q := e.ctxDB(ctx).Model(&Node{}).
		Where("doc_root_key = ? AND parent_path = ?", root, parentPath)
	q = visibilityClause(q, caller)
	if err := q.Count(&count).Error; err != nil {
		return false, classifyDBErr(ctx, err)
	}
	return count > 0, nil
}

// Readdir lists the visible children of parentPath, ordered (ordinal ASC,
// filename ASC) per §4.2 and the boundary behavior in §8.
func (e *Engine) Readdir(ctx context.Context, caller uint, parentPath, root string) ([]Node, error) {
	parentPath = Normalize(parentPath)
	var nodes []Node
	q := e.ctxDB(ctx).
		Where("doc_root_key = ? AND parent_path = ?", root, parentPath)
	q = visibilityClause(q, caller)
	err := q.Order("ordinal ASC, filename ASC").Find(&nodes).Error
	if err != nil {
		return nil, classifyDBErr(ctx, err)
	}
	return sortSiblings(nodes), nil
}

// ReaddirByOwner lists only rows owned by owner, still subject to caller's I6.
func (e *Engine) ReaddirByOwner(ctx context.Context, caller, owner uint, parentPath, root string) ([]Node, error) {
	parentPath = Normalize(parentPath)
	var nodes []Node
	q := e.ctxDB(ctx).
		Where("doc_root_key = ? AND parent_path = ? AND owner_id = ?", root, parentPath, owner)
	q = visibilityClause(q, caller)
	err := q.Order("ordinal ASC, filename ASC").Find(&nodes).Error
	if err != nil {
		return nil, classifyDBErr(ctx, err)
	}
	return sortSiblings(nodes), nil
}

// sortSiblings re-applies the (ordinal, filename) tie-break in Go after the
// SQL ORDER BY. sqlite/mysql/postgres/sqlserver don't all collate strings
// the same way, so two rows tied on ordinal could come back in a different
// filename order depending on the configured driver; this pins the result
// to a byte-wise comparison regardless of backend.
func sortSiblings(nodes []Node) []Node {
	return collection.SortBy(nodes, func(a, b Node) bool {
		if a.Ordinal != b.Ordinal {
			return a.Ordinal < b.Ordinal
		}
		return a.Filename < b.Filename
	})
}

// GetMaxOrdinal returns the maximum ordinal among siblings, 0 when empty.
func (e *Engine) GetMaxOrdinal(ctx context.Context, parentPath, root string) (int32, error) {
	parentPath = Normalize(parentPath)
	var max *int32
	err := e.ctxDB(ctx).Model(&Node{}).
		Where("doc_root_key = ? AND parent_path = ?", root, parentPath).
		Select("MAX(ordinal)").Scan(&max).Error
	if err != nil {
		return 0, classifyDBErr(ctx, err)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// Mkdir inserts a directory row. Fails AlreadyExists on an I1 violation.
func (e *Engine) Mkdir(ctx context.Context, owner uint, parentPath, name, root string, ordinal int32, isPublic bool) (uuid string, err error) {
	defer metrics.RecordVFSOperation("mkdir", &err, time.Now())
	parentPath = Normalize(parentPath)
	if !ValidName(name) {
		return "", InvalidName
	}

	if e.Exists(ctx, parentPath, name, root) {
		return "", AlreadyExists
	}

	n := Node{
		UUID:        newUUID(),
		OwnerID:     owner,
		DocRootKey:  root,
		ParentPath:  parentPath,
		Filename:    name,
		Ordinal:     ordinal,
		IsDirectory: true,
		IsPublic:    isPublic,
		ContentType: "directory",
		SizeBytes:   0,
	}

	err = e.ctxDB(ctx).Create(&n).Error
	if err != nil {
		if isUniqueViolation(err) {
			return "", AlreadyExists
		}
		return "", classifyDBErr(ctx, err)
	}
	return n.UUID, nil
}

// EnsurePath inserts every missing directory ancestor of normalized path,
// owned by owner, private, each appended at the end of its parent. Idempotent.
func (e *Engine) EnsurePath(ctx context.Context, owner uint, path, root string) error {
	path = Normalize(path)
	if path == "" {
		return nil
	}
	if !ValidPath(path) {
		return InvalidPath
	}

	segments := splitAll(path)
	parent := ""
	for _, seg := range segments {
		if e.Exists(ctx, parent, seg, root) {
			parent = Join(parent, seg)
			continue
		}
		max, err := e.GetMaxOrdinal(ctx, parent, root)
		if err != nil {
			return err
		}
		if _, err := e.Mkdir(ctx, owner, parent, seg, root, max+1, false); err != nil && !errors.Is(err, AlreadyExists) {
			return err
		}
		parent = Join(parent, seg)
	}
	return nil
}

func splitAll(path string) []string {
	if path == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			out = append(out, path[start:i])
			start = i + 1
		}
	}
	return out
}

// WriteText upserts a text node on (root, parent, name). On insert the
// supplied ordinal is used; on conflict, content/size/content_type/
// modified_time/is_public are updated — ownership never changes.
func (e *Engine) WriteText(ctx context.Context, owner uint, parentPath, name, root, content string, ordinal int32, isPublic bool) (string, error) {
	return e.writeContent(ctx, owner, parentPath, name, root, &content, nil, false, ordinal, isPublic)
}

// WriteBinary upserts a binary node on (root, parent, name).
func (e *Engine) WriteBinary(ctx context.Context, owner uint, parentPath, name, root string, content []byte, ordinal int32, isPublic bool) (string, error) {
	return e.writeContent(ctx, owner, parentPath, name, root, nil, content, true, ordinal, isPublic)
}

func (e *Engine) writeContent(ctx context.Context, owner uint, parentPath, name, root string, text *string, binary []byte, isBinary bool, ordinal int32, isPublic bool) (uuid string, err error) {
	defer metrics.RecordVFSOperation("write", &err, time.Now())
	parentPath = Normalize(parentPath)
	if !ValidName(name) {
		return "", InvalidName
	}

	_, contentType := ClassifyContentType(name)
	size := int64(len(binary))
	if text != nil {
		size = int64(len(*text))
	}

	existing, err := e.GetNodeByName(ctx, parentPath, name, root)
	if err != nil && !errors.Is(err, NotFound) {
		return "", err
	}

	if existing == nil {
		n := Node{
			UUID:          newUUID(),
			OwnerID:       owner,
			DocRootKey:    root,
			ParentPath:    parentPath,
			Filename:      name,
			Ordinal:       ordinal,
			IsDirectory:   false,
			IsPublic:      isPublic,
			ContentText:   text,
			ContentBinary: binary,
			IsBinary:      isBinary,
			ContentType:   contentType,
			SizeBytes:     size,
		}
		if err := e.ctxDB(ctx).Create(&n).Error; err != nil {
			if isUniqueViolation(err) {
				return "", AlreadyExists
			}
			return "", classifyDBErr(ctx, err)
		}
		return n.UUID, nil
	}

	if existing.IsDirectory {
		return "", BadArgument
	}

	updates := map[string]interface{}{
		"content_text":   text,
		"content_binary": binary,
		"is_binary":      isBinary,
		"content_type":   contentType,
		"size_bytes":     size,
		"is_public":      isPublic,
	}
	if err := e.ctxDB(ctx).Model(existing).Updates(updates).Error; err != nil {
		return "", classifyDBErr(ctx, err)
	}
	return existing.UUID, nil
}

// ReadFile returns the active content column, or Unauthorized when caller
// cannot see the row (I6).
func (e *Engine) ReadFile(ctx context.Context, caller uint, parent, name, root string) (text *string, binary []byte, err error) {
	n, err := e.GetNodeByName(ctx, parent, name, root)
	if err != nil {
		return nil, nil, err
	}
	if caller != AdminOwnerID && n.OwnerID != caller && !n.IsPublic {
		return nil, nil, Unauthorized
	}
	if n.IsDirectory {
		return nil, nil, BadArgument
	}
	return n.ContentText, n.ContentBinary, nil
}

// Unlink deletes exactly one non-directory row. NotFound covers missing,
// directory, or unauthorized — callers cannot distinguish (§4.2).
func (e *Engine) Unlink(ctx context.Context, caller uint, parent, name, root string) error {
	n, err := e.GetNodeByName(ctx, parent, name, root)
	if err != nil {
		return err
	}
	if n.IsDirectory {
		return NotFound
	}
	if caller != AdminOwnerID && n.OwnerID != caller {
		return NotFound
	}
	if err := e.ctxDB(ctx).Delete(n).Error; err != nil {
		return classifyDBErr(ctx, err)
	}
	return nil
}

// Rmdir deletes the directory row and every descendant row within root,
// returning the total deleted count.
func (e *Engine) Rmdir(ctx context.Context, caller uint, parent, name, root string) (int64, error) {
	n, err := e.GetNodeByName(ctx, parent, name, root)
	if err != nil {
		return 0, err
	}
	if !n.IsDirectory {
		return 0, NotFound
	}
	if caller != AdminOwnerID && n.OwnerID != caller {
		return 0, NotFound
	}

	subtreePrefix := Join(parent, name)
	var deleted int64
	txErr := e.ctxDB(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where(
			`doc_root_key = ? AND (parent_path = ? OR parent_path LIKE ? ESCAPE '\')`,
			root, subtreePrefix, escapeLikePrefix(subtreePrefix)+"/%",
		).Delete(&Node{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected

		if err := tx.Delete(n).Error; err != nil {
			return err
		}
		deleted++
		return nil
	})
	if txErr != nil {
		return 0, classifyDBErr(ctx, txErr)
	}
	return deleted, nil
}

// RmOptions controls Rm's dispatch between Unlink and Rmdir.
type RmOptions struct {
	Recursive bool
	Force     bool
}

// Rm dispatches to Unlink (files) or Rmdir (directories) for path, which
// must not be the root. With Force, a missing target is a no-op.
func (e *Engine) Rm(ctx context.Context, caller uint, path, root string, opts RmOptions) (deleted int64, err error) {
	defer metrics.RecordVFSOperation("rm", &err, time.Now())
	path = Normalize(path)
	if path == "" {
		return 0, BadArgument
	}
	parent, name := Split(path)

	n, err := e.GetNodeByName(ctx, parent, name, root)
	if err != nil {
		if errors.Is(err, NotFound) {
			if opts.Force {
				return 0, nil
			}
			return 0, NotFound
		}
		return 0, err
	}

	if n.IsDirectory {
		if !opts.Recursive {
			return 0, BadArgument
		}
		return e.Rmdir(ctx, caller, parent, name, root)
	}
	if err := e.Unlink(ctx, caller, parent, name, root); err != nil {
		return 0, err
	}
	return 1, nil
}
