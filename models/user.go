package models

import (
	"time"
)

// Role values stored on users. Kept as a plain string column so the
// enum survives AutoMigrate without a lookup table.
const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RoleEmployee = "EMPLOYEE"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"firstName"`
	LastName  string    `gorm:"size:100;not null" json:"lastName"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialized
	Role      string    `gorm:"size:20;not null;default:EMPLOYEE" json:"role"`
	// No column default: gorm drops zero-value fields that carry one,
	// which would turn an explicit false into true on create.
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) FullName() string {
	return u.LastName + " " + u.FirstName
}
