package migrations

import (
	"github.com/ordinalfs/ordinalfs/app/models"
	"github.com/ordinalfs/ordinalfs/internal/vfs"
	"github.com/ordinalfs/ordinalfs/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_accounts_table", &CreateAccountsTable{})
	migration.Register("20260101000001_create_nodes_table", &CreateNodesTable{})
}

// -------- 0001: accounts --------

type CreateAccountsTable struct{}

func (m *CreateAccountsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Account{})
}

func (m *CreateAccountsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("accounts")
}

// -------- 0002: nodes --------

// CreateNodesTable lays out the single-table tree (§6.1): AutoMigrate gets
// column types and the plain doc_root_key+parent_path index right; the two
// composite uniques that encode I1 (name uniqueness per parent) and I2
// (ordinal uniqueness per parent) are asserted with raw DDL because they
// span three columns each, past what a single gorm index
// tag expresses cleanly.
type CreateNodesTable struct{}

func (m *CreateNodesTable) Up(db *gorm.DB) error {
	if err := db.AutoMigrate(&vfs.Node{}); err != nil {
		return err
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_nodes_name
		ON nodes (doc_root_key, parent_path, filename)`).Error; err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_nodes_ordinal
		ON nodes (doc_root_key, parent_path, ordinal)`).Error
}

func (m *CreateNodesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("nodes")
}
