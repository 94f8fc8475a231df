package models

import (
	"camphub/src/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Campsite struct {
	ID            uint                 `gorm:"primarykey" json:"id"`
	OwnerID       uuid.UUID            `gorm:"type:uuid;index" json:"owner_id"`
	Name          string               `json:"name"`
	Slug          string               `gorm:"uniqueIndex" json:"slug"`
	Description   string               `json:"description,omitempty"`
	Location      string               `gorm:"index" json:"location,omitempty"`
	PricePerNight decimal.Decimal      `gorm:"type:numeric(12,2)" json:"price_per_night"`
	Images        types.StringArray    `gorm:"type:jsonb" json:"images"`
	Status        types.CampsiteStatus `gorm:"default:'published'" json:"status,omitempty"`

	Owner *Profile `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Zones []Zone   `gorm:"foreignKey:CampsiteID" json:"zones,omitempty"`

	types.Timestamps
}

// Zone is a bookable sub-area of a campsite. Bookings refer to it by name
// only, through the notes line.
type Zone struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	CampsiteID  uint              `gorm:"index" json:"campsite_id"`
	Name        string            `json:"name"`
	Capacity    uint              `json:"capacity"`
	Width       float64           `json:"width,omitempty"`
	Length      float64           `json:"length,omitempty"`
	Description string            `json:"description,omitempty"`
	Images      types.StringArray `gorm:"type:jsonb" json:"images"`

	Campsite *Campsite `gorm:"foreignKey:CampsiteID" json:"campsite,omitempty"`

	types.Timestamps
}

func (Zone) TableName() string {
	return "campsite_zones"
}
