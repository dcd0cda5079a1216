package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string  `json:"name"`
	Phone        string  `gorm:"uniqueIndex;not null" json:"phone"` // E.164 with leading +
	Email        *string `gorm:"uniqueIndex" json:"email,omitempty"` // nil when unset so the index ignores it
	PasswordHash string  `gorm:"column:password_hash" json:"-"`
	Role         string  `gorm:"default:'user'" json:"role"` // user, admin
	IsVerified   bool    `gorm:"default:false" json:"is_verified"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
