package vfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ordinalfs/ordinalfs/internal/vfs"
)

func TestRename_SameParentRenamesFilenameOnly(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.WriteText(ctx, 1, "", "old.txt", testRoot, "x", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := e.Rename(ctx, 1, "", "old.txt", "", "new.txt", testRoot)
	if err != nil || !res.Success {
		t.Fatalf("rename: res=%+v err=%v", res, err)
	}

	if !e.Exists(ctx, "", "new.txt", testRoot) {
		t.Error("expected new.txt to exist after rename")
	}
	if e.Exists(ctx, "", "old.txt", testRoot) {
		t.Error("expected old.txt to no longer exist after rename")
	}
}

func TestRename_DirectoryRewritesDescendantPaths(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.Mkdir(ctx, 1, "", "proj", testRoot, 1, false); err != nil {
		t.Fatalf("mkdir proj: %v", err)
	}
	if _, err := e.Mkdir(ctx, 1, "proj", "src", testRoot, 1, false); err != nil {
		t.Fatalf("mkdir proj/src: %v", err)
	}
	if _, err := e.WriteText(ctx, 1, "proj/src", "main.go", testRoot, "package main", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := e.Rename(ctx, 1, "", "proj", "", "project", testRoot); err != nil {
		t.Fatalf("rename: %v", err)
	}

	if !e.Exists(ctx, "project/src", "main.go", testRoot) {
		t.Error("expected descendant parent_path to be rewritten to project/src")
	}
	if e.Exists(ctx, "proj/src", "main.go", testRoot) {
		t.Error("expected old proj/src descendant path to no longer exist")
	}
}

func TestRename_TargetAlreadyExists(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.WriteText(ctx, 1, "", "a.txt", testRoot, "a", 1, false); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if _, err := e.WriteText(ctx, 1, "", "b.txt", testRoot, "b", 2, false); err != nil {
		t.Fatalf("write b: %v", err)
	}

	res, err := e.Rename(ctx, 1, "", "a.txt", "", "b.txt", testRoot)
	if !errors.Is(err, vfs.AlreadyExists) || res.Success {
		t.Errorf("expected AlreadyExists, got res=%+v err=%v", res, err)
	}
}

func TestRename_UnauthorizedCallerRejected(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.WriteText(ctx, 1, "", "a.txt", testRoot, "a", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := e.Rename(ctx, 2, "", "a.txt", "", "b.txt", testRoot)
	if !errors.Is(err, vfs.Unauthorized) || res.Success {
		t.Errorf("expected Unauthorized, got res=%+v err=%v", res, err)
	}
}

func TestSetPublic_RecursiveAppliesToDescendants(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.Mkdir(ctx, 1, "", "docs", testRoot, 1, false); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := e.WriteText(ctx, 1, "docs", "a.txt", testRoot, "a", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := e.SetPublic(ctx, 1, "", "docs", testRoot, true, true); err != nil {
		t.Fatalf("setpublic: %v", err)
	}

	n, err := e.GetNodeByName(ctx, "docs", "a.txt", testRoot)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !n.IsPublic {
		t.Error("expected descendant to become public via recursive set_public")
	}
}

func TestSetPublic_NonRecursiveLeavesDescendantsUntouched(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.Mkdir(ctx, 1, "", "docs", testRoot, 1, false); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := e.WriteText(ctx, 1, "docs", "a.txt", testRoot, "a", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := e.SetPublic(ctx, 1, "", "docs", testRoot, true, false); err != nil {
		t.Fatalf("setpublic: %v", err)
	}

	n, err := e.GetNodeByName(ctx, "docs", "a.txt", testRoot)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if n.IsPublic {
		t.Error("expected descendant to remain private without recursive flag")
	}
}
