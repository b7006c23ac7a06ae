package seeders

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ordinalfs/ordinalfs/app/models"
	"github.com/ordinalfs/ordinalfs/config"
	"github.com/ordinalfs/ordinalfs/internal/vfs"
)

func init() {
	Register("demo_account", SeedDemoAccount)
	Register("document_root", SeedDocumentRoot)
}

// SeedDemoAccount inserts a single demo login so a fresh environment has
// something to authenticate with.
func SeedDemoAccount(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Account{}).Where("email = ?", "demo@ordinalfs.dev").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Create(&models.Account{
		Username: "demo",
		Email:    "demo@ordinalfs.dev",
		Password: string(hash),
		Role:     "admin",
	}).Error
}

// SeedDocumentRoot creates the default doc root's .TAGS.md so extractTags
// has something to parse on a fresh environment.
func SeedDocumentRoot(db *gorm.DB) error {
	engine := vfs.New(db)
	ctx := context.Background()
	root := config.DefaultDocRoot()

	if engine.Exists(ctx, vfs.RootParentPath, ".TAGS.md", root) {
		return nil
	}

	content := "## Getting Started\n\n#welcome #ordinalfs\n"
	_, err := engine.WriteText(ctx, vfs.AdminOwnerID, vfs.RootParentPath, ".TAGS.md", root, content, 0, false)
	return err
}
