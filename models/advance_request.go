package models

import (
	"time"
)

const (
	AdvancePending  = "PENDING"
	AdvanceApproved = "APPROVED"
	AdvanceRejected = "REJECTED"
)

type AdvanceRequest struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	EmployeeID uint     `gorm:"not null;index" json:"employeeId"`
	Employee   Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`

	Amount          float64    `gorm:"not null" json:"amount"`
	Reason          string     `gorm:"type:text" json:"reason,omitempty"`
	RequestDate     time.Time  `gorm:"autoCreateTime" json:"requestDate"`
	Status          string     `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	ReviewedByID    *uint      `gorm:"column:reviewed_by" json:"reviewedBy,omitempty"`
	ReviewedBy      *User      `gorm:"foreignKey:ReviewedByID" json:"reviewer,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejectionReason,omitempty"`
}
