package models

import (
	"camphub/src/types"

	"github.com/google/uuid"
)

// Profile is the public row kept next to the hosted auth provider's user.
type Profile struct {
	ID        uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	FullName  string    `json:"full_name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Role      string    `gorm:"default:'user'" json:"role,omitempty"`

	Bookings  []Booking  `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
	Campsites []Campsite `gorm:"foreignKey:OwnerID" json:"campsites,omitempty"`

	types.Timestamps
}
