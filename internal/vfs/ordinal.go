package vfs

import (
	"context"
	"math"

	"gorm.io/gorm"
)

// minTempOrdinal is the start of the negative temporary-ordinal range used
// by the two-phase reorder protocol (§4.3) and by SwapOrdinals. No legal ordinal is negative,
// so temporaries here can never collide with an untouched sibling.
const minTempOrdinal = math.MinInt32

// SetOrdinal unconditionally updates one row's ordinal. It can violate I2
// on its own — callers MUST only use it inside the two-phase protocol or
// when the target ordinal is already known to be free.
func (e *Engine) SetOrdinal(ctx context.Context, nodeUUID, root string, ordinal int32) error {
	res := e.ctxDB(ctx).Model(&Node{}).
		Where("doc_root_key = ? AND uuid = ?", root, nodeUUID).
		Update("ordinal", ordinal)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return Conflict
		}
		return classifyDBErr(ctx, res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound
	}
	return nil
}

// SwapOrdinals atomically exchanges the ordinals of two rows inside one
// transaction, in three steps: a is parked at minTempOrdinal, b takes a's
// old ordinal, then a takes b's. A single in-place exchange is not used
// because the unique sibling-ordinal index is checked row by row, so the
// first row written would collide with the second. This is the primitive
// behind moveUpOrDown.
func (e *Engine) SwapOrdinals(ctx context.Context, uuidA, uuidB, root string) error {
	a, err := e.GetNodeByUUID(ctx, uuidA, root)
	if err != nil {
		return err
	}
	b, err := e.GetNodeByUUID(ctx, uuidB, root)
	if err != nil {
		return err
	}

	err = e.ctxDB(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			uuid    string
			ordinal int32
		}{{a.UUID, minTempOrdinal}, {b.UUID, a.Ordinal}, {a.UUID, b.Ordinal}}
		for _, s := range steps {
			if err := tx.Exec(`UPDATE nodes SET ordinal = ? WHERE doc_root_key = ? AND uuid = ?`,
				s.ordinal, root, s.uuid).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classifyDBErr(ctx, err)
	}
	return nil
}

// ShiftOrdinalsDown atomically adds slotsToAdd to the ordinal of every
// sibling of parentPath whose ordinal is >= insertOrdinal, freeing a
// contiguous band of slotsToAdd ordinals starting at insertOrdinal. Acting
// on a non-existent directory is a success with an empty mapping. The
// returned map is always empty for this DB-backed engine — populated only
// in the legacy filesystem implementation this spec supersedes (§9).
// The shift is two UPDATEs in one transaction: the affected rows first move
// to distinct negative ordinals, then to their shifted values, because an
// in-place +slotsToAdd is checked row by row against the unique index and
// would collide with a sibling that has not moved yet.
func (e *Engine) ShiftOrdinalsDown(ctx context.Context, parentPath, root string, insertOrdinal, slotsToAdd int32) (map[string]string, error) {
	parentPath = Normalize(parentPath)
	err := e.ctxDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`UPDATE nodes SET ordinal = -(ordinal + ?) - 1
			 WHERE doc_root_key = ? AND parent_path = ? AND ordinal >= ?`,
			slotsToAdd, root, parentPath, insertOrdinal,
		).Error; err != nil {
			return err
		}
		return tx.Exec(
			`UPDATE nodes SET ordinal = -ordinal - 1
			 WHERE doc_root_key = ? AND parent_path = ? AND ordinal <= ?`,
			root, parentPath, -(insertOrdinal+slotsToAdd)-1,
		).Error
	})
	if err != nil {
		return nil, classifyDBErr(ctx, err)
	}
	return map[string]string{}, nil
}

// ReorderAssignment pairs a node's uuid with the ordinal it must end up at.
type ReorderAssignment struct {
	UUID    string
	Ordinal int32
}

// TwoPhaseReorder rewrites the ordinals of multiple siblings inside one
// transaction without ever passing through an I2-violating intermediate
// state (§4.3): phase 1 assigns each row a unique negative temporary
// ordinal, phase 2 assigns the intended final ordinal.
func (e *Engine) TwoPhaseReorder(ctx context.Context, root string, assignments []ReorderAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	return e.ctxDB(ctx).Transaction(func(tx *gorm.DB) error {
		temp := int64(minTempOrdinal)
		for _, a := range assignments {
			res := tx.Model(&Node{}).
				Where("doc_root_key = ? AND uuid = ?", root, a.UUID).
				Update("ordinal", temp)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return NotFound
			}
			temp++
		}

		for _, a := range assignments {
			res := tx.Model(&Node{}).
				Where("doc_root_key = ? AND uuid = ?", root, a.UUID).
				Update("ordinal", a.Ordinal)
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
}
