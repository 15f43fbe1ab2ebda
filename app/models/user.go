package models

import (
	"slices"

	"gorm.io/gorm"
)

// Role is a user's authorization level.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleUser       Role = "user"
)

// Roles lists every role, highest first.
var Roles = []Role{RoleSuperadmin, RoleAdmin, RoleManager, RoleUser}

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return slices.Contains(Roles, r) }

// User is an account that can sell products and place orders.
// Users are soft-deleted only.
type User struct {
	gorm.Model
	Handle       string  `gorm:"size:50;uniqueIndex;not null"`
	Email        *string `gorm:"size:100;uniqueIndex"`
	PasswordHash string  `gorm:"size:255;not null"` // bcrypt
	IsActive     bool    `gorm:"not null"`
	Role         Role    `gorm:"size:20;not null;default:user"`
}
