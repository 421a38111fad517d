package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AuditCreate = "CREATE"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
	AuditLogin  = "LOGIN"
	AuditLogout = "LOGOUT"
)

// AuditLog is an append-only record of a mutating action. Rows are
// never updated or deleted after insert.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	EntityType string         `gorm:"size:100;not null;index" json:"entityType"`
	EntityID   uint           `gorm:"index" json:"entityId"`
	Action     string         `gorm:"size:20;not null;index" json:"action"`
	UserID     *uint          `gorm:"index" json:"userId,omitempty"`
	UserEmail  string         `gorm:"size:255" json:"userEmail"`
	UserRole   string         `gorm:"size:50" json:"userRole"`
	Description string        `gorm:"type:text" json:"description"`
	OldValue   datatypes.JSON `json:"oldValue,omitempty"`
	NewValue   datatypes.JSON `json:"newValue,omitempty"`
	IPAddress  string         `gorm:"size:45" json:"ipAddress,omitempty"`
	Timestamp  time.Time      `gorm:"autoCreateTime;index" json:"timestamp"`
}
