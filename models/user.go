package models

import (
	"gorm.io/gorm"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleVoter Role = "voter"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleVoter || r == RoleAdmin
}

// User represents a registered identity in the system.
type User struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	NationalID   string `gorm:"uniqueIndex;not null" json:"nationalId"`
	Role         Role   `gorm:"not null;default:voter" json:"role"`
	PasswordHash string `gorm:"not null" json:"-"`
	HasVoted     bool   `gorm:"not null;default:false" json:"hasVoted"`
}
