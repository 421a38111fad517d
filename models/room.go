package models

import (
	"time"
)

// Room belongs to exactly one accommodation. Room numbers are unique
// within their accommodation; the service layer compares them
// case-insensitively on create/update.
type Room struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	AccommodationID uint          `gorm:"not null;uniqueIndex:idx_accommodation_room_number" json:"accommodationId"`
	Accommodation   Accommodation `gorm:"foreignKey:AccommodationID" json:"accommodation,omitempty"`
	RoomNumber      string        `gorm:"size:20;not null;uniqueIndex:idx_accommodation_room_number" json:"roomNumber"`
	Capacity        int           `gorm:"not null" json:"capacity"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`

	Allocations []RoomAllocation `gorm:"foreignKey:RoomID" json:"allocations,omitempty"`
}
