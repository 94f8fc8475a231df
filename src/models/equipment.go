package models

import (
	"camphub/src/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Equipment struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	OwnerID     uuid.UUID         `gorm:"type:uuid;index" json:"owner_id"`
	CampsiteID  *uint             `gorm:"index" json:"campsite_id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	PricePerDay decimal.Decimal   `gorm:"type:numeric(12,2)" json:"price_per_day"`
	Quantity    uint              `json:"quantity"`
	Images      types.StringArray `gorm:"type:jsonb" json:"images"`

	Campsite *Campsite `gorm:"foreignKey:CampsiteID" json:"campsite,omitempty"`

	types.Timestamps
}

func (Equipment) TableName() string {
	return "equipment"
}
