package vfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ordinalfs/ordinalfs/internal/vfs"
)

func TestSwapOrdinals_ExchangesBothValues(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	idA, err := e.Mkdir(ctx, 1, "", "a", testRoot, 1, false)
	if err != nil {
		t.Fatalf("mkdir a: %v", err)
	}
	idB, err := e.Mkdir(ctx, 1, "", "b", testRoot, 2, false)
	if err != nil {
		t.Fatalf("mkdir b: %v", err)
	}

	if err := e.SwapOrdinals(ctx, idA, idB, testRoot); err != nil {
		t.Fatalf("swap: %v", err)
	}

	a, err := e.GetNodeByUUID(ctx, idA, testRoot)
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	b, err := e.GetNodeByUUID(ctx, idB, testRoot)
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if a.Ordinal != 2 || b.Ordinal != 1 {
		t.Errorf("expected swapped ordinals (2,1), got (%d,%d)", a.Ordinal, b.Ordinal)
	}
}

func TestSwapOrdinals_AdjacentSlots(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	// The boundary case: ordinals 0 and 1, the smallest possible gap.
	idA, err := e.Mkdir(ctx, 1, "", "first", testRoot, 0, false)
	if err != nil {
		t.Fatalf("mkdir first: %v", err)
	}
	idB, err := e.Mkdir(ctx, 1, "", "second", testRoot, 1, false)
	if err != nil {
		t.Fatalf("mkdir second: %v", err)
	}

	if err := e.SwapOrdinals(ctx, idA, idB, testRoot); err != nil {
		t.Fatalf("swap: %v", err)
	}

	siblings, err := e.Readdir(ctx, 1, "", testRoot)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(siblings) != 2 || siblings[0].Filename != "second" || siblings[1].Filename != "first" {
		t.Fatalf("expected [second first] after swap, got %v", names(siblings))
	}
}

func TestShiftOrdinalsDown_OpensABand(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	for i, name := range []string{"a", "b", "c"} {
		if _, err := e.Mkdir(ctx, 1, "", name, testRoot, int32(i), false); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
	}

	mapping, err := e.ShiftOrdinalsDown(ctx, "", testRoot, 1, 2)
	if err != nil {
		t.Fatalf("shift: %v", err)
	}
	if len(mapping) != 0 {
		t.Errorf("expected empty rename mapping for the DB-backed engine, got %v", mapping)
	}

	siblings, err := e.Readdir(ctx, 1, "", testRoot)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	byName := map[string]int32{}
	for _, n := range siblings {
		byName[n.Filename] = n.Ordinal
	}
	if byName["a"] != 0 {
		t.Errorf("expected a (ordinal 0) untouched, got %d", byName["a"])
	}
	if byName["b"] != 3 {
		t.Errorf("expected b (ordinal 1 >= insertOrdinal 1) shifted to 3, got %d", byName["b"])
	}
	if byName["c"] != 4 {
		t.Errorf("expected c (ordinal 2 >= insertOrdinal 1) shifted to 4, got %d", byName["c"])
	}
}

func TestShiftOrdinalsDown_MissingParentIsNoop(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	mapping, err := e.ShiftOrdinalsDown(ctx, "no-such-parent", testRoot, 0, 5)
	if err != nil {
		t.Errorf("expected shifting an empty/missing directory to succeed, got %v", err)
	}
	if len(mapping) != 0 {
		t.Errorf("expected empty mapping, got %v", mapping)
	}
}

func TestTwoPhaseReorder_NeverCollidesOnIntermediateState(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	ids := make([]string, 4)
	var err error
	for i := range ids {
		ids[i], err = e.Mkdir(ctx, 1, "", string(rune('a'+i)), testRoot, int32(i), false)
		if err != nil {
			t.Fatalf("mkdir %d: %v", i, err)
		}
	}

	// Reverse the order — every assignment collides with another row's
	// current ordinal, which is exactly what the two-phase protocol exists
	// to make safe.
	assignments := []vfs.ReorderAssignment{
		{UUID: ids[0], Ordinal: 3},
		{UUID: ids[1], Ordinal: 2},
		{UUID: ids[2], Ordinal: 1},
		{UUID: ids[3], Ordinal: 0},
	}
	if err := e.TwoPhaseReorder(ctx, testRoot, assignments); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	siblings, err := e.Readdir(ctx, 1, "", testRoot)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	want := []string{"d", "c", "b", "a"}
	if got := names(siblings); !equalSlices(got, want) {
		t.Errorf("expected reversed order %v, got %v", want, got)
	}
}

func TestTwoPhaseReorder_EmptyAssignmentsIsNoop(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if err := e.TwoPhaseReorder(ctx, testRoot, nil); err != nil {
		t.Errorf("expected nil assignments to be a no-op, got %v", err)
	}
}

func TestTwoPhaseReorder_UnknownUUIDIsNotFound(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	err := e.TwoPhaseReorder(ctx, testRoot, []vfs.ReorderAssignment{{UUID: "does-not-exist", Ordinal: 0}})
	if !errors.Is(err, vfs.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
