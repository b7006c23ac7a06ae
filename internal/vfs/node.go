// Package vfs implements the storage engine: a single relational table
// holding a hierarchical tree of files and directories, with owner
// identity, public/private visibility, explicit sibling ordering and
// either text or binary content per node.
package vfs

import (
	"time"

	"github.com/google/uuid"
)

// Node is one row of the nodes table — either a file or a directory.
// The root of a tree has no row: it is synthesized by Stat/Root calls.
type Node struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UUID          string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	OwnerID       uint      `gorm:"not null;index" json:"owner_id"`
	DocRootKey    string    `gorm:"size:64;not null;index:idx_nodes_parent" json:"doc_root_key"`
	ParentPath    string    `gorm:"size:1024;not null;index:idx_nodes_parent" json:"parent_path"`
	Filename      string    `gorm:"size:255;not null" json:"filename"`
	Ordinal       int32     `gorm:"not null" json:"ordinal"`
	IsDirectory   bool      `gorm:"not null" json:"is_directory"`
	IsPublic      bool      `gorm:"not null;default:false" json:"is_public"`
	ContentText   *string   `gorm:"type:text" json:"content_text,omitempty"`
	ContentBinary []byte    `gorm:"type:blob" json:"-"`
	IsBinary      bool      `gorm:"not null;default:false" json:"is_binary"`
	ContentType   string    `gorm:"size:128;not null" json:"content_type"`
	SizeBytes     int64     `gorm:"not null;default:0" json:"size_bytes"`
	CreatedTime   time.Time `gorm:"autoCreateTime" json:"created_time"`
	ModifiedTime  time.Time `gorm:"autoUpdateTime" json:"modified_time"`
}

// TableName pins the table name regardless of GORM's pluralization rules —
// doc_root_key + parent_path + filename + ordinal uniqueness is asserted
// in the migration, not by struct tags alone (composite uniques need raw DDL).
func (Node) TableName() string { return "nodes" }

// AdminOwnerID is the sentinel owner_id denoting the admin principal.
const AdminOwnerID uint = 0

// RootParentPath is the parent_path of every node directly under the tree root.
const RootParentPath = ""

// newUUID generates a fresh node identity. Exists as a seam so tests can
// substitute deterministic UUIDs via package-level override if ever needed.
var newUUID = func() string { return uuid.NewString() }

// Stats is the synthesized or row-derived metadata returned by Stat.
type Stats struct {
	IsDirectory bool      `json:"is_directory"`
	IsPublic    bool      `json:"is_public"`
	Birthtime   time.Time `json:"birthtime"`
	Mtime       time.Time `json:"mtime"`
	Size        int64     `json:"size"`
}

// rootStats is what Stat("", "") reports — an implicit, admin-owned,
// private directory with no physical row (§3.3).
func rootStats() Stats {
	return Stats{IsDirectory: true, IsPublic: false}
}
