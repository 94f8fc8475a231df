package models

import (
	"camphub/src/types"
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CampsiteID uint      `gorm:"index" json:"campsite_id"`
	UserID     uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Rating     uint8     `json:"rating"`
	Body       string    `json:"body,omitempty"`

	User *Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`

	types.Timestamps
}

type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CampsiteID uint      `gorm:"index" json:"campsite_id"`
	UserID     uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Body       string    `json:"body"`

	User *Profile `gorm:"foreignKey:UserID" json:"user,omitempty"`

	types.Timestamps
}

type Favorite struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_favorite_user_campsite" json:"user_id"`
	CampsiteID uint      `gorm:"uniqueIndex:idx_favorite_user_campsite" json:"campsite_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime:nano" json:"created_at"`

	Campsite *Campsite `gorm:"foreignKey:CampsiteID" json:"campsite,omitempty"`
}
