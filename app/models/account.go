package models

import "gorm.io/gorm"

// Account is a login identity. Its numeric ID is the owner_id stamped
// onto every vfs.Node an account creates — the VFS tree itself has no
// foreign key to this table, only a plain owner_id column, so nodes
// remain readable even if an account is later removed.
type Account struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role     string `gorm:"size:50;default:user" json:"role"`
}
