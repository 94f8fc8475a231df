package models

import (
	"camphub/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID          uuid.UUID              `gorm:"primarykey;type:uuid" json:"id"`
	UserID      uuid.UUID              `gorm:"type:uuid;index" json:"user_id"`
	Type        types.NotificationType `gorm:"index" json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	ReferenceID *uint                  `json:"reference_id,omitempty"`
	Read        bool                   `gorm:"default:false" json:"read"`
	CreatedAt   time.Time              `gorm:"autoCreateTime:nano" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
