// Package main is a minimal, self-contained example of driving the vfs
// engine directly, without the full HTTP application.
//
//	cd example && go run .
package main

import (
	"context"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ordinalfs/ordinalfs/internal/docservice"
	"github.com/ordinalfs/ordinalfs/internal/vfs"
)

const root = "example"

func main() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrate(&vfs.Node{}); err != nil {
		log.Fatal(err)
	}

	engine := vfs.New(db)
	docs := docservice.New(engine, root)
	ctx := context.Background()

	if _, err := docs.CreateFolder(ctx, vfs.AdminOwnerID, "", "notes", ""); err != nil {
		log.Fatal(err)
	}
	if _, err := docs.SaveFile(ctx, vfs.AdminOwnerID, "notes", "todo.md", "# Todo\n\n#urgent buy milk\n", nil); err != nil {
		log.Fatal(err)
	}

	children, err := engine.Readdir(ctx, vfs.AdminOwnerID, "notes", root)
	if err != nil {
		log.Fatal(err)
	}
	for _, n := range children {
		fmt.Printf("%s\tordinal=%d\tsize=%d\n", n.Filename, n.Ordinal, n.SizeBytes)
	}

	scan, err := docs.ScanAndUpdateTags(ctx, vfs.AdminOwnerID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("discovered tags: %v\n", scan.NewTags)
}
