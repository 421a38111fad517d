package models

import (
	"time"
)

// Allocation lifecycle: created ACTIVE at check-in, moves to
// CHECKED_OUT exactly once and never back.
const (
	AllocationActive     = "ACTIVE"
	AllocationCheckedOut = "CHECKED_OUT"
)

// RoomAllocation is one stay of one employee in one room. The full
// history is kept; the single ACTIVE row per employee is what "current
// room" means everywhere else.
type RoomAllocation struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RoomID       uint       `gorm:"not null;index" json:"roomId"`
	Room         Room       `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	EmployeeID   uint       `gorm:"not null;index" json:"employeeId"`
	Employee     Employee   `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	CheckInDate  time.Time  `gorm:"type:date;not null" json:"checkInDate"`
	CheckOutDate *time.Time `gorm:"type:date" json:"checkOutDate,omitempty"`
	Status       string     `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
}
