package models

import (
	"time"
)

type Accommodation struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Address        string    `gorm:"type:text;not null" json:"address"`
	ManagerContact string    `gorm:"size:100" json:"managerContact,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`

	Rooms []Room `gorm:"foreignKey:AccommodationID" json:"rooms,omitempty"`
}

// TotalCapacity sums the capacities of the loaded rooms. The value is
// never stored; callers that did not preload Rooms should use the
// aggregation query in AccommodationService instead.
func (a Accommodation) TotalCapacity() int {
	total := 0
	for _, room := range a.Rooms {
		total += room.Capacity
	}
	return total
}
