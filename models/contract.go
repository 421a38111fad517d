package models

import (
	"time"
)

const (
	ContractDraft      = "DRAFT"
	ContractActive     = "ACTIVE"
	ContractTerminated = "TERMINATED"
	ContractExpired    = "EXPIRED"
)

type Contract struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	EmployeeID uint     `gorm:"not null;index" json:"employeeId"`
	Employee   Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`

	ContractNumber      string     `gorm:"size:64;uniqueIndex;not null" json:"contractNumber"`
	StartDate           time.Time  `gorm:"type:date;not null" json:"startDate"`
	EndDate             *time.Time `gorm:"type:date" json:"endDate,omitempty"`
	HourlyRate          float64    `gorm:"not null" json:"hourlyRate"`
	Currency            string     `gorm:"size:3;default:HUF" json:"currency"`
	WorkingHoursPerWeek int        `gorm:"default:40" json:"workingHoursPerWeek"`
	PdfPath             string     `gorm:"size:255" json:"pdfPath,omitempty"`
	Status              string     `gorm:"size:20;default:DRAFT" json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
}
