package vfs

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ordinalfs/ordinalfs/pkg/metrics"
)

// rewritePrefixSQL returns the dialect-appropriate bulk UPDATE that
// replaces the oldPrefix portion of parent_path with a new prefix. String
// concatenation and substring extraction both vary across sqlite/postgres
// (||, substr), mysql (CONCAT, SUBSTR) and sqlserver (+, SUBSTRING).
func rewritePrefixSQL(dialect string) string {
	switch dialect {
	case "sqlserver":
		return `UPDATE nodes SET parent_path = ? + SUBSTRING(parent_path, ?, LEN(parent_path))
			 WHERE doc_root_key = ? AND (parent_path = ? OR parent_path LIKE ? ESCAPE '\')`
	case "mysql":
		return `UPDATE nodes SET parent_path = CONCAT(?, SUBSTR(parent_path, ?))
			 WHERE doc_root_key = ? AND (parent_path = ? OR parent_path LIKE ? ESCAPE '\')`
	default: // sqlite, postgres
		return `UPDATE nodes SET parent_path = ? || substr(parent_path, ?)
			 WHERE doc_root_key = ? AND (parent_path = ? OR parent_path LIKE ? ESCAPE '\')`
	}
}

// RenameResult mirrors the stored-procedure-style {success, diagnostic}
// return shape of §4.4, kept at this boundary for HTTP-surface parity
// (§6.3's `/rename` response). Engine wrappers otherwise surface *Error.
type RenameResult struct {
	Success    bool   `json:"success"`
	Diagnostic string `json:"diagnostic"`
}

// Rename moves (old_parent, old_name) to (new_parent, new_name) within
// root, rewriting every descendant's parent_path in the same transaction
// when the node is a directory (§4.4). Cross-parent rename implements move
// semantics without content copy.
func (e *Engine) Rename(ctx context.Context, caller uint, oldParent, oldName, newParent, newName, root string) (result RenameResult, err error) {
	defer metrics.RecordVFSOperation("rename", &err, time.Now())
	oldParent = Normalize(oldParent)
	newParent = Normalize(newParent)

	if !ValidName(newName) {
		return RenameResult{Success: false, Diagnostic: "invalid name"}, InvalidName
	}

	n, err := e.GetNodeByName(ctx, oldParent, oldName, root)
	if err != nil {
		return RenameResult{Success: false, Diagnostic: "source not found"}, err
	}
	if caller != AdminOwnerID && n.OwnerID != caller {
		return RenameResult{Success: false, Diagnostic: "unauthorized"}, Unauthorized
	}

	if e.Exists(ctx, newParent, newName, root) {
		return RenameResult{Success: false, Diagnostic: "target already exists"}, AlreadyExists
	}

	oldPrefix := Join(oldParent, oldName)
	newPrefix := Join(newParent, newName)

	newOrdinal := n.Ordinal
	if newParent != oldParent {
		max, err := e.GetMaxOrdinal(ctx, newParent, root)
		if err != nil {
			return RenameResult{Success: false, Diagnostic: "store error"}, err
		}
		newOrdinal = max + 1
	}

	txErr := e.ctxDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(n).Updates(map[string]interface{}{
			"parent_path": newParent,
			"filename":    newName,
			"ordinal":     newOrdinal,
		}).Error; err != nil {
			return err
		}

		if !n.IsDirectory {
			return nil
		}

		return tx.Exec(
			rewritePrefixSQL(tx.Dialector.Name()),
			newPrefix, len(oldPrefix)+1,
			root, oldPrefix, escapeLikePrefix(oldPrefix)+"/%",
		).Error
	})
	if txErr != nil {
		if isUniqueViolation(txErr) {
			return RenameResult{Success: false, Diagnostic: "target already exists"}, AlreadyExists
		}
		return RenameResult{Success: false, Diagnostic: "store error"}, classifyDBErr(ctx, txErr)
	}

	return RenameResult{Success: true}, nil
}

// SetPublic sets is_public on (parent, name), and — when the node is a
// directory and recursive is true — on every descendant in the same
// statement (§4.5). Requires caller be owner or admin.
func (e *Engine) SetPublic(ctx context.Context, caller uint, parent, name, root string, isPublic, recursive bool) (result RenameResult, err error) {
	defer metrics.RecordVFSOperation("set_public", &err, time.Now())
	parent = Normalize(parent)

	n, err := e.GetNodeByName(ctx, parent, name, root)
	if err != nil {
		return RenameResult{Success: false, Diagnostic: "not found"}, err
	}
	if caller != AdminOwnerID && n.OwnerID != caller {
		return RenameResult{Success: false, Diagnostic: "unauthorized"}, Unauthorized
	}

	prefix := Join(parent, name)

	txErr := e.ctxDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(n).Update("is_public", isPublic).Error; err != nil {
			return err
		}
		if !n.IsDirectory || !recursive {
			return nil
		}
		return tx.Exec(
			`UPDATE nodes SET is_public = ?
			 WHERE doc_root_key = ? AND (parent_path = ? OR parent_path LIKE ? ESCAPE '\')`,
			isPublic, root, prefix, escapeLikePrefix(prefix)+"/%",
		).Error
	})
	if txErr != nil {
		return RenameResult{Success: false, Diagnostic: "store error"}, classifyDBErr(ctx, txErr)
	}
	return RenameResult{Success: true}, nil
}
