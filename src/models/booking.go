package models

import (
	"camphub/src/types"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Booking struct {
	ID            uint                 `gorm:"primarykey" json:"id"`
	CampsiteID    uint                 `gorm:"index" json:"campsite_id"`
	UserID        uuid.UUID            `gorm:"type:uuid;index" json:"user_id"`
	CheckInDate   time.Time            `gorm:"type:date;index" json:"check_in_date"`
	CheckOutDate  time.Time            `gorm:"type:date;index" json:"check_out_date"`
	Guests        uint                 `json:"guests"`
	TotalPrice    decimal.Decimal      `gorm:"type:numeric(12,2)" json:"total_price"`
	Status        types.BookingStatus  `gorm:"default:'pending';index" json:"status"`
	PaymentStatus types.PaymentStatus  `gorm:"default:'unpaid'" json:"payment_status"`
	PaymentMethod *types.PaymentMethod `json:"payment_method"`
	CancelledBy   *types.CancelledBy   `json:"cancelled_by,omitempty"`
	Notes         string               `json:"notes"`

	Campsite *Campsite `gorm:"foreignKey:CampsiteID" json:"campsite,omitempty"`
	User     *Profile  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Payments []Payment `gorm:"foreignKey:BookingID" json:"payments,omitempty"`

	types.Timestamps
}
