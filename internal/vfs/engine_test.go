package vfs_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ordinalfs/ordinalfs/internal/vfs"
)

const testRoot = "test-root"

// newEngine opens a fresh in-memory sqlite database with the nodes table
// and its two composite uniques, mirroring what
// database/migrations.CreateNodesTable does against a real database. Each
// test gets its own named in-memory database so that sqlite's shared cache
// doesn't leak state between test functions running in the same binary.
func newEngine(t *testing.T) *vfs.Engine {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&vfs.Node{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_nodes_name
		ON nodes (doc_root_key, parent_path, filename)`).Error; err != nil {
		t.Fatalf("create name index: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_nodes_ordinal
		ON nodes (doc_root_key, parent_path, ordinal)`).Error; err != nil {
		t.Fatalf("create ordinal index: %v", err)
	}
	return vfs.New(db)
}

func TestMkdir_DuplicateNameIsAlreadyExists(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.Mkdir(ctx, 1, "", "docs", testRoot, 1, false); err != nil {
		t.Fatalf("first mkdir: %v", err)
	}
	_, err := e.Mkdir(ctx, 1, "", "docs", testRoot, 2, false)
	if !errors.Is(err, vfs.AlreadyExists) {
		t.Errorf("expected AlreadyExists, got %v", err)
	}
}

func TestMkdir_InvalidNameRejected(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	_, err := e.Mkdir(ctx, 1, "", "bad/name", testRoot, 1, false)
	if !errors.Is(err, vfs.InvalidName) {
		t.Errorf("expected InvalidName, got %v", err)
	}
}

func TestWriteText_UpsertUpdatesInPlace(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	id1, err := e.WriteText(ctx, 1, "", "a.txt", testRoot, "hello", 1, false)
	if err != nil {
		t.Fatalf("first write: %v", err)
	}

	id2, err := e.WriteText(ctx, 1, "", "a.txt", testRoot, "world", 9, false)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if id1 != id2 {
		t.Errorf("expected upsert to preserve uuid, got %s then %s", id1, id2)
	}

	text, _, err := e.ReadFile(ctx, 1, "", "a.txt", testRoot)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if text == nil || *text != "world" {
		t.Errorf("expected content %q, got %v", "world", text)
	}

	n, err := e.GetNodeByUUID(ctx, id1, testRoot)
	if err != nil {
		t.Fatalf("get by uuid: %v", err)
	}
	if n.Ordinal != 1 {
		t.Errorf("expected ordinal to stay at initial insert value 1, got %d", n.Ordinal)
	}
}

func TestWriteText_OnDirectoryIsBadArgument(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.Mkdir(ctx, 1, "", "docs", testRoot, 1, false); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := e.WriteText(ctx, 1, "", "docs", testRoot, "oops", 2, false)
	if !errors.Is(err, vfs.BadArgument) {
		t.Errorf("expected BadArgument writing over a directory, got %v", err)
	}
}

func TestReadFile_PrivateDeniedToOtherOwner(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.WriteText(ctx, 1, "", "secret.txt", testRoot, "shh", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, _, err := e.ReadFile(ctx, 2, "", "secret.txt", testRoot)
	if !errors.Is(err, vfs.Unauthorized) {
		t.Errorf("expected Unauthorized, got %v", err)
	}

	// Public files are visible to any caller.
	if _, err := e.SetPublic(ctx, 1, "", "secret.txt", testRoot, true, false); err != nil {
		t.Fatalf("setpublic: %v", err)
	}
	if _, _, err := e.ReadFile(ctx, 2, "", "secret.txt", testRoot); err != nil {
		t.Errorf("expected public file to be readable, got %v", err)
	}
}

func TestReaddir_OrderedByOrdinalThenFilename(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	// Two distinct ordinals, then a tie broken by filename.
	if _, err := e.Mkdir(ctx, 1, "", "b", testRoot, 2, false); err != nil {
		t.Fatalf("mkdir b: %v", err)
	}
	if _, err := e.Mkdir(ctx, 1, "", "a", testRoot, 1, false); err != nil {
		t.Fatalf("mkdir a: %v", err)
	}

	children, err := e.Readdir(ctx, 1, "", testRoot)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(children) != 2 || children[0].Filename != "a" || children[1].Filename != "b" {
		t.Fatalf("expected [a b] ordinal-ordered, got %v", names(children))
	}
}

func TestReaddir_VisibilityHidesOthersPrivateNodes(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.WriteText(ctx, 1, "", "mine.txt", testRoot, "x", 1, false); err != nil {
		t.Fatalf("write owner1: %v", err)
	}
	if _, err := e.WriteText(ctx, 2, "", "theirs.txt", testRoot, "y", 2, false); err != nil {
		t.Fatalf("write owner2: %v", err)
	}

	visible, err := e.Readdir(ctx, 1, "", testRoot)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(visible) != 1 || visible[0].Filename != "mine.txt" {
		t.Fatalf("expected only mine.txt visible to owner 1, got %v", names(visible))
	}

	asAdmin, err := e.Readdir(ctx, vfs.AdminOwnerID, "", testRoot)
	if err != nil {
		t.Fatalf("readdir as admin: %v", err)
	}
	if len(asAdmin) != 2 {
		t.Fatalf("expected admin to see both rows, got %d", len(asAdmin))
	}
}

func TestRm_FileVsDirectoryDispatch(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.WriteText(ctx, 1, "", "f.txt", testRoot, "x", 1, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := e.Mkdir(ctx, 1, "", "d", testRoot, 2, false); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := e.WriteText(ctx, 1, "d", "child.txt", testRoot, "x", 1, false); err != nil {
		t.Fatalf("write child: %v", err)
	}

	n, err := e.Rm(ctx, 1, "f.txt", testRoot, vfs.RmOptions{})
	if err != nil || n != 1 {
		t.Errorf("expected file rm to delete 1 row, got %d err=%v", n, err)
	}

	if _, err := e.Rm(ctx, 1, "d", testRoot, vfs.RmOptions{}); !errors.Is(err, vfs.BadArgument) {
		t.Errorf("expected BadArgument removing directory without Recursive, got %v", err)
	}

	n, err = e.Rm(ctx, 1, "d", testRoot, vfs.RmOptions{Recursive: true})
	if err != nil || n != 2 {
		t.Errorf("expected recursive rm to delete directory + 1 child = 2 rows, got %d err=%v", n, err)
	}
}

func TestRm_ForceOnMissingIsNoop(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	n, err := e.Rm(ctx, 1, "missing.txt", testRoot, vfs.RmOptions{Force: true})
	if err != nil || n != 0 {
		t.Errorf("expected force-rm of missing path to be a no-op, got %d err=%v", n, err)
	}

	_, err = e.Rm(ctx, 1, "missing.txt", testRoot, vfs.RmOptions{})
	if !errors.Is(err, vfs.NotFound) {
		t.Errorf("expected NotFound without Force, got %v", err)
	}
}

func TestCheckAuth_DirectoryMismatchIsBadArgument(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	if _, err := e.Mkdir(ctx, 1, "", "d", testRoot, 1, false); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	wantFile := false
	_, err := e.CheckAuth(ctx, 1, "", "d", testRoot, &wantFile, true)
	if !errors.Is(err, vfs.BadArgument) {
		t.Errorf("expected BadArgument for directory/file mismatch, got %v", err)
	}
}

func TestStat_RootIsSynthesized(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	s, err := e.Stat(ctx, "", "", testRoot)
	if err != nil {
		t.Fatalf("stat root: %v", err)
	}
	if !s.IsDirectory || s.IsPublic {
		t.Errorf("expected synthesized root to be a private directory, got %+v", s)
	}
}

func names(nodes []vfs.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Filename
	}
	return out
}
