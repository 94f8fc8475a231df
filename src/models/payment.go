package models

import (
	"camphub/src/types"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment rows are hard-deleted when the renter picks a new method, so
// there is no soft-delete column.
type Payment struct {
	ID              uint                `gorm:"primarykey" json:"id"`
	BookingID       uint                `gorm:"index" json:"booking_id"`
	Amount          decimal.Decimal     `gorm:"type:numeric(12,2)" json:"amount"`
	Method          types.PaymentMethod `json:"method"`
	Status          types.PaymentStatus `gorm:"default:'pending'" json:"status"`
	SlipURL         *string             `json:"slip_url,omitempty"`
	BankName        *string             `json:"bank_name,omitempty"`
	AccountNumber   *string             `json:"account_number,omitempty"`
	TransactionDate *time.Time          `gorm:"type:date" json:"transaction_date,omitempty"`
	VerifiedBy      *uuid.UUID          `gorm:"type:uuid" json:"verified_by,omitempty"`
	VerifiedAt      *time.Time          `json:"verified_at,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `gorm:"autoCreateTime:nano" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime:nano" json:"updated_at"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"-"`
}
