package models

import (
	"time"
)

// Employee carries the HR attributes of a user. Every employee owns
// exactly one User row (credentials, role, active flag); deleting an
// employee only deactivates that user, historical allocations and
// audit entries stay intact.
type Employee struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"userId"`
	User   User `gorm:"foreignKey:UserID" json:"user"`

	TaxID          *string    `gorm:"column:tax_id;size:20;uniqueIndex" json:"taxId,omitempty"`
	TajNumber      *string    `gorm:"size:20;uniqueIndex" json:"tajNumber,omitempty"`
	IDCardNumber   *string    `gorm:"column:id_card_number;size:20;uniqueIndex" json:"idCardNumber,omitempty"`
	PrimaryAddress string     `gorm:"type:text" json:"primaryAddress,omitempty"`
	PhoneNumber    string     `gorm:"size:20" json:"phoneNumber,omitempty"`
	Nationality    string     `gorm:"size:50" json:"nationality,omitempty"`
	BirthDate      *time.Time `gorm:"type:date" json:"birthDate,omitempty"`
	CompanyName    string     `gorm:"size:200" json:"companyName,omitempty"`
	StartDate      *time.Time `gorm:"type:date" json:"startDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Contracts       []Contract       `gorm:"foreignKey:EmployeeID" json:"contracts,omitempty"`
	RoomAllocations []RoomAllocation `gorm:"foreignKey:EmployeeID" json:"roomAllocations,omitempty"`
	AdvanceRequests []AdvanceRequest `gorm:"foreignKey:EmployeeID" json:"advanceRequests,omitempty"`
}
