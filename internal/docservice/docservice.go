// Package docservice composes vfs engine primitives into the user-facing
// operations a document-editing front end calls: folder creation at an
// insertion point, file save, paste (reorder or cross-folder move/copy),
// move-up/move-down, and tag extraction/rebuild over the tree.
package docservice

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ordinalfs/ordinalfs/internal/vfs"
	"github.com/ordinalfs/ordinalfs/pkg/metrics"
)

// Service composes vfs.Engine primitives into multi-step, single-logical
// operations. Every method here runs its sub-operations under one
// transaction boundary at the engine level, per §5's composed-operation
// atomicity requirement.
type Service struct {
	engine *vfs.Engine
	root   string
}

// New builds a Service bound to one doc_root_key.
func New(engine *vfs.Engine, root string) *Service {
	return &Service{engine: engine, root: root}
}

// CreateFolderResult mirrors the `/createFolder` response shape (§6.3).
type CreateFolderResult struct {
	Message    string `json:"message"`
	FolderName string `json:"folder_name"`
	Ordinal    int32  `json:"ordinal"`
}

// CreateFolder inserts a directory at insertAfter's position (or appends
// when insertAfter is ""): resolve insertAfter to a sibling ordinal k,
// shift every sibling at or past k+1 down by one slot, then mkdir at k+1.
// With no insertAfter, the new folder is appended at max_ordinal+1 (§4.7).
func (s *Service) CreateFolder(ctx context.Context, caller uint, parentPath, name string, insertAfter string) (result CreateFolderResult, err error) {
	defer metrics.RecordVFSOperation("doc_create_folder", &err, time.Now())
	err = s.engine.Transaction(ctx, func(tx *vfs.Engine) error {
		if insertAfter == "" {
			max, err := tx.GetMaxOrdinal(ctx, parentPath, s.root)
			if err != nil {
				return err
			}
			ordinal := max + 1
			if _, err := tx.Mkdir(ctx, caller, parentPath, name, s.root, ordinal, false); err != nil {
				return err
			}
			result = CreateFolderResult{Message: "folder created", FolderName: name, Ordinal: ordinal}
			return nil
		}

		anchor, err := tx.GetNodeByUUID(ctx, insertAfter, s.root)
		if err != nil {
			return err
		}

		insertOrdinal := anchor.Ordinal + 1
		if _, err := tx.ShiftOrdinalsDown(ctx, parentPath, s.root, insertOrdinal, 1); err != nil {
			return err
		}
		if _, err := tx.Mkdir(ctx, caller, parentPath, name, s.root, insertOrdinal, false); err != nil {
			return err
		}
		result = CreateFolderResult{Message: "folder created", FolderName: name, Ordinal: insertOrdinal}
		return nil
	})
	if err != nil {
		return CreateFolderResult{}, err
	}
	s.invalidateTagCache()
	return result, nil
}

// SaveFile dispatches to write_text or write_binary based on the
// extension→binary predicate (§6.2). First-time inserts get
// max_ordinal(parent)+1; updates leave ordinal unchanged by the engine's
// upsert semantics.
func (s *Service) SaveFile(ctx context.Context, caller uint, parentPath, filename string, textContent string, binaryContent []byte) (uuid string, err error) {
	defer metrics.RecordVFSOperation("doc_save_file", &err, time.Now())
	isBinary, _ := vfs.ClassifyContentType(filename)

	err = s.engine.Transaction(ctx, func(tx *vfs.Engine) error {
		max, err := tx.GetMaxOrdinal(ctx, parentPath, s.root)
		if err != nil {
			return err
		}
		ordinal := max + 1

		if isBinary {
			uuid, err = tx.WriteBinary(ctx, caller, parentPath, filename, s.root, binaryContent, ordinal, false)
		} else {
			uuid, err = tx.WriteText(ctx, caller, parentPath, filename, s.root, textContent, ordinal, false)
		}
		return err
	})
	if err != nil {
		return "", err
	}
	s.invalidateTagCache()
	return uuid, nil
}

// PasteMode selects move or copy semantics for PasteItems.
type PasteMode int

const (
	PasteMove PasteMode = iota
	PasteCopy
)

// PasteResult mirrors the `/pasteItems` response shape (§6.3).
type PasteResult struct {
	Message string   `json:"message"`
	Moved   []string `json:"moved,omitempty"`
	Copied  []string `json:"copied,omitempty"`
}

// PasteItems resolves each item UUID to a source row, computes the target
// ordinal band starting just after anchor (or at the top when anchor is
// ""), shifts the destination siblings down to free that band, then either
// reassigns the pasted items' ordinals in place (same-folder reorder, via
// the two-phase protocol) or renames each item into dest_parent (cross-
// folder move/copy) (§4.7).
func (s *Service) PasteItems(ctx context.Context, caller uint, destParent string, anchor string, itemUUIDs []string, mode PasteMode) (result PasteResult, err error) {
	defer metrics.RecordVFSOperation("doc_paste_items", &err, time.Now())
	if len(itemUUIDs) == 0 {
		return PasteResult{}, vfs.BadArgument
	}

	err = s.engine.Transaction(ctx, func(tx *vfs.Engine) error {
		items, err := fetchItemsConcurrently(ctx, tx, s.root, caller, itemUUIDs)
		if err != nil {
			return err
		}

		insertOrdinal := int32(0)
		if anchor != "" {
			anchorNode, err := tx.GetNodeByUUID(ctx, anchor, s.root)
			if err != nil {
				return err
			}
			insertOrdinal = anchorNode.Ordinal + 1
		}
		slotsToAdd := int32(len(items))

		if _, err := tx.ShiftOrdinalsDown(ctx, destParent, s.root, insertOrdinal, slotsToAdd); err != nil {
			return err
		}

		sameFolder := allSameParent(items, destParent)

		if sameFolder {
			assignments := make([]vfs.ReorderAssignment, len(items))
			for i, n := range items {
				assignments[i] = vfs.ReorderAssignment{UUID: n.UUID, Ordinal: insertOrdinal + int32(i)}
			}
			if err := tx.TwoPhaseReorder(ctx, s.root, assignments); err != nil {
				return err
			}
			result = PasteResult{Message: "items reordered", Moved: itemUUIDs}
			return nil
		}

		names := make([]string, 0, len(items))
		for i, n := range items {
			ordinal := insertOrdinal + int32(i)
			if mode == PasteCopy {
				if err := s.copyNode(ctx, tx, caller, n, destParent, ordinal); err != nil {
					return err
				}
			} else {
				if _, err := tx.Rename(ctx, caller, n.ParentPath, n.Filename, destParent, n.Filename, s.root); err != nil {
					return err
				}
				if err := tx.SetOrdinal(ctx, n.UUID, s.root, ordinal); err != nil {
					return err
				}
			}
			names = append(names, n.Filename)
		}

		if mode == PasteCopy {
			result = PasteResult{Message: "items copied", Copied: names}
		} else {
			result = PasteResult{Message: "items moved", Moved: names}
		}
		return nil
	})
	if err != nil {
		return PasteResult{}, err
	}
	s.invalidateTagCache()
	return result, nil
}

// fetchItemsConcurrently resolves each UUID to its node, concurrently —
// the reads are independent until every item is known, so there is no
// reason to serialize them one round-trip at a time. Order of the returned
// slice matches itemUUIDs so ordinal assignment stays index-stable.
func fetchItemsConcurrently(ctx context.Context, e *vfs.Engine, root string, caller uint, itemUUIDs []string) ([]*vfs.Node, error) {
	items := make([]*vfs.Node, len(itemUUIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range itemUUIDs {
		i, id := i, id
		g.Go(func() error {
			n, err := e.GetNodeByUUID(gctx, id, root)
			if err != nil {
				return err
			}
			if caller != vfs.AdminOwnerID && n.OwnerID != caller {
				return vfs.Unauthorized
			}
			items[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func allSameParent(items []*vfs.Node, destParent string) bool {
	destParent = vfs.Normalize(destParent)
	for _, n := range items {
		if n.ParentPath != destParent {
			return false
		}
	}
	return true
}

// copyNode clones a single node's content into destParent under a new
// ordinal, without disturbing the source row. Directories are not
// supported by copy mode — cross-folder directory copy is out of scope.
func (s *Service) copyNode(ctx context.Context, tx *vfs.Engine, caller uint, n *vfs.Node, destParent string, ordinal int32) error {
	if n.IsDirectory {
		return vfs.BadArgument
	}
	if n.IsBinary {
		_, err := tx.WriteBinary(ctx, caller, destParent, n.Filename, s.root, n.ContentBinary, ordinal, n.IsPublic)
		return err
	}
	text := ""
	if n.ContentText != nil {
		text = *n.ContentText
	}
	_, err := tx.WriteText(ctx, caller, destParent, n.Filename, s.root, text, ordinal, n.IsPublic)
	return err
}

// Direction selects which neighbor MoveUpOrDown swaps with.
type Direction int

const (
	MoveUp Direction = iota
	MoveDown
)

// MoveUpOrDown reads siblings (already ordinal ASC), finds filename's
// index, and swaps it with its immediate up/down neighbor (§4.7). Out-of-
// range moves (first item moving up, last item moving down) are a no-op
// BadArgument.
func (s *Service) MoveUpOrDown(ctx context.Context, caller uint, parentPath, filename string, dir Direction) (err error) {
	defer metrics.RecordVFSOperation("doc_move_up_or_down", &err, time.Now())
	err = s.engine.Transaction(ctx, func(tx *vfs.Engine) error {
		siblings, err := tx.Readdir(ctx, caller, parentPath, s.root)
		if err != nil {
			return err
		}

		idx := -1
		for i, n := range siblings {
			if n.Filename == filename {
				idx = i
				break
			}
		}
		if idx < 0 {
			return vfs.NotFound
		}

		var neighbor int
		if dir == MoveUp {
			neighbor = idx - 1
		} else {
			neighbor = idx + 1
		}
		if neighbor < 0 || neighbor >= len(siblings) {
			return vfs.BadArgument
		}

		return tx.SwapOrdinals(ctx, siblings[idx].UUID, siblings[neighbor].UUID, s.root)
	})
	if err != nil {
		return err
	}
	s.invalidateTagCache()
	return nil
}
