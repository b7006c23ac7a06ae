package docservice_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ordinalfs/ordinalfs/internal/docservice"
	"github.com/ordinalfs/ordinalfs/internal/vfs"
)

const testRoot = "test-root"

// newService returns a Service plus a bare Engine sharing the same
// database, so tests can assert on raw node state without adding a
// test-only accessor to Service itself. Each test opens its own named
// in-memory database so sqlite's shared cache can't leak state across
// test functions in this binary.
func newService(t *testing.T) (*docservice.Service, *vfs.Engine) {
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
	engine := vfs.New(db)
	return docservice.New(engine, testRoot), engine
}

func TestCreateFolder_AppendsAtEndWithoutAnchor(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	res, err := s.CreateFolder(ctx, 1, "", "docs", "")
	if err != nil {
		t.Fatalf("createFolder: %v", err)
	}
	if res.FolderName != "docs" || res.Ordinal != 1 {
		t.Errorf("expected ordinal 1 for first folder, got %+v", res)
	}
}

func TestCreateFolder_InsertsAfterAnchorAndShiftsSiblings(t *testing.T) {
	s, engine := newService(t)
	ctx := context.Background()

	first, err := s.CreateFolder(ctx, 1, "", "a", "")
	if err != nil {
		t.Fatalf("createFolder a: %v", err)
	}
	if _, err := s.CreateFolder(ctx, 1, "", "b", ""); err != nil {
		t.Fatalf("createFolder b: %v", err)
	}

	anchorNode, err := engine.GetNodeByName(ctx, "", "a", testRoot)
	if err != nil {
		t.Fatalf("get anchor: %v", err)
	}

	res, err := s.CreateFolder(ctx, 1, "", "inserted", anchorNode.UUID)
	if err != nil {
		t.Fatalf("createFolder inserted: %v", err)
	}
	if res.Ordinal != first.Ordinal+1 {
		t.Errorf("expected inserted folder right after anchor, got ordinal %d", res.Ordinal)
	}

	b, err := engine.GetNodeByName(ctx, "", "b", testRoot)
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if b.Ordinal != res.Ordinal+1 {
		t.Errorf("expected b shifted past inserted folder, got ordinal %d", b.Ordinal)
	}
}

func TestSaveFile_DispatchesOnExtension(t *testing.T) {
	s, engine := newService(t)
	ctx := context.Background()

	if _, err := s.SaveFile(ctx, 1, "", "notes.md", "# hello", nil); err != nil {
		t.Fatalf("save text: %v", err)
	}
	if _, err := s.SaveFile(ctx, 1, "", "photo.png", "", []byte{0x89, 'P', 'N', 'G'}); err != nil {
		t.Fatalf("save binary: %v", err)
	}

	n, err := engine.GetNodeByName(ctx, "", "photo.png", testRoot)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !n.IsBinary {
		t.Error("expected photo.png to be stored as binary")
	}
}

func TestPasteItems_SameFolderReorder(t *testing.T) {
	s, engine := newService(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		id, err := s.SaveFile(ctx, 1, "", name, "x", nil)
		if err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
		ids = append(ids, id)
	}

	// Move c.txt (ids[2]) to the very top.
	res, err := s.PasteItems(ctx, 1, "", "", []string{ids[2]}, docservice.PasteMove)
	if err != nil {
		t.Fatalf("paste: %v", err)
	}
	if res.Message != "items reordered" {
		t.Errorf("expected same-folder paste to reorder, got %+v", res)
	}

	siblings, err := engine.Readdir(ctx, 1, "", testRoot)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if siblings[0].Filename != "c.txt" {
		t.Errorf("expected c.txt first after paste-to-top, got %v", siblings[0].Filename)
	}
}

func TestPasteItems_CrossFolderMove(t *testing.T) {
	s, engine := newService(t)
	ctx := context.Background()

	if _, err := s.CreateFolder(ctx, 1, "", "dest", ""); err != nil {
		t.Fatalf("mkdir dest: %v", err)
	}
	id, err := s.SaveFile(ctx, 1, "", "a.txt", "x", nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := s.PasteItems(ctx, 1, "dest", "", []string{id}, docservice.PasteMove)
	if err != nil {
		t.Fatalf("paste: %v", err)
	}
	if res.Message != "items moved" {
		t.Errorf("expected cross-folder paste to move, got %+v", res)
	}

	if !engine.Exists(ctx, "dest", "a.txt", testRoot) {
		t.Error("expected a.txt to exist under dest after move")
	}
	if engine.Exists(ctx, "", "a.txt", testRoot) {
		t.Error("expected a.txt to no longer exist at the old location")
	}
}

func TestPasteItems_CrossFolderCopyLeavesSourceIntact(t *testing.T) {
	s, engine := newService(t)
	ctx := context.Background()

	if _, err := s.CreateFolder(ctx, 1, "", "dest", ""); err != nil {
		t.Fatalf("mkdir dest: %v", err)
	}
	id, err := s.SaveFile(ctx, 1, "", "a.txt", "x", nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := s.PasteItems(ctx, 1, "dest", "", []string{id}, docservice.PasteCopy)
	if err != nil {
		t.Fatalf("paste: %v", err)
	}
	if res.Message != "items copied" {
		t.Errorf("expected copy message, got %+v", res)
	}

	if !engine.Exists(ctx, "", "a.txt", testRoot) {
		t.Error("expected source a.txt to still exist after copy")
	}
	if !engine.Exists(ctx, "dest", "a.txt", testRoot) {
		t.Error("expected copy to exist under dest")
	}
}

func TestPasteItems_EmptyListIsBadArgument(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	_, err := s.PasteItems(ctx, 1, "", "", nil, docservice.PasteMove)
	if !errors.Is(err, vfs.BadArgument) {
		t.Errorf("expected BadArgument for empty item list, got %v", err)
	}
}

func TestMoveUpOrDown_SwapsWithNeighbor(t *testing.T) {
	s, engine := newService(t)
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := s.SaveFile(ctx, 1, "", name, "x", nil); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	if err := s.MoveUpOrDown(ctx, 1, "", "b.txt", docservice.MoveUp); err != nil {
		t.Fatalf("move up: %v", err)
	}

	siblings, err := engine.Readdir(ctx, 1, "", testRoot)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if siblings[0].Filename != "b.txt" || siblings[1].Filename != "a.txt" {
		t.Fatalf("expected b ahead of a after move up, got %v", namesOf(siblings))
	}
}

func TestMoveUpOrDown_OutOfRangeIsBadArgument(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	if _, err := s.SaveFile(ctx, 1, "", "only.txt", "x", nil); err != nil {
		t.Fatalf("save: %v", err)
	}

	err := s.MoveUpOrDown(ctx, 1, "", "only.txt", docservice.MoveUp)
	if !errors.Is(err, vfs.BadArgument) {
		t.Errorf("expected BadArgument moving the only item up, got %v", err)
	}
}

func namesOf(nodes []vfs.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Filename
	}
	return out
}
