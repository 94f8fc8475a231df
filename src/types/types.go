package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

// StringArray is stored as a JSON array (image URLs).
type StringArray []string

func scanBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case nil:
		return nil, nil
	}
	return nil, errors.New("type assertion to []byte failed")
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *StringArray) Scan(value any) error {
	b, err := scanBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*a = StringArray{}
		return nil
	}
	return json.Unmarshal(b, a)
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type NotificationRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type CampsiteQueryFilters struct {
	Query    string `form:"q"`
	Location string `form:"location"`
	Owned    bool   `form:"owned"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type AvailabilityQuery struct {
	Zone     string `form:"zone" binding:"required"`
	CheckIn  string `form:"check_in" binding:"required,dateonly"`
	CheckOut string `form:"check_out" binding:"required,dateonly,afterdate=CheckIn"`
}

type CreateCampsiteRequestBody struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description,omitempty"`
	Location      string  `json:"location" binding:"required"`
	PricePerNight float64 `json:"price_per_night" binding:"required,gt=0"`
}

type UpdateCampsiteRequestBody struct {
	Name          *string  `json:"name,omitempty" binding:"omitempty,min=1"`
	Description   *string  `json:"description,omitempty"`
	Location      *string  `json:"location,omitempty" binding:"omitempty,min=1"`
	PricePerNight *float64 `json:"price_per_night,omitempty" binding:"omitempty,gt=0"`
	Status        *string  `json:"status,omitempty" binding:"omitempty,oneof=draft published archived"`
}

type CreateZoneRequestBody struct {
	Name        string  `json:"name" binding:"required"`
	Capacity    uint    `json:"capacity,omitempty"`
	Width       float64 `json:"width,omitempty" binding:"omitempty,gte=0"`
	Length      float64 `json:"length,omitempty" binding:"omitempty,gte=0"`
	Description string  `json:"description,omitempty"`
}

type UpdateZoneRequestBody struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=1"`
	Capacity    *uint    `json:"capacity,omitempty"`
	Width       *float64 `json:"width,omitempty" binding:"omitempty,gte=0"`
	Length      *float64 `json:"length,omitempty" binding:"omitempty,gte=0"`
	Description *string  `json:"description,omitempty"`
}

type ZoneRequestParams struct {
	ID     uint `uri:"id" binding:"required"`
	ZoneID uint `uri:"zoneId" binding:"required"`
}

type DeleteImageRequestBody struct {
	URL string `json:"url" binding:"required,url"`
}

type CreateBookingRequestBody struct {
	CampsiteID uint   `json:"campsite_id" binding:"required"`
	Zone       string `json:"zone" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required,dateonly"`
	CheckOut   string `json:"check_out" binding:"required,dateonly,afterdate=CheckIn"`
	Guests     uint   `json:"guests" binding:"required,min=1"`
	Notes      string `json:"notes,omitempty"`
}

type BookingDecisionRequestBody struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

type CashPaymentRequestBody struct {
	Notes string `json:"notes,omitempty"`
}

type BankTransferRequestBody struct {
	BankName        string `form:"bank_name" binding:"required"`
	AccountNumber   string `form:"account_number" binding:"required"`
	TransactionDate string `form:"transaction_date" binding:"required,dateonly"`
	Notes           string `form:"notes"`
}

type VerifyPaymentRequestBody struct {
	Status string `json:"status" binding:"required,oneof=verified rejected"`
	Notes  string `json:"notes,omitempty"`
}

type CreateEquipmentRequestBody struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description,omitempty"`
	CampsiteID  *uint   `json:"campsite_id,omitempty"`
	PricePerDay float64 `json:"price_per_day" binding:"required,gt=0"`
	Quantity    uint    `json:"quantity" binding:"required,min=1"`
}

type UpdateEquipmentRequestBody struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,min=1"`
	Description *string  `json:"description,omitempty"`
	PricePerDay *float64 `json:"price_per_day,omitempty" binding:"omitempty,gt=0"`
	Quantity    *uint    `json:"quantity,omitempty"`
}

type CreateReviewRequestBody struct {
	Rating uint8  `json:"rating" binding:"required,min=1,max=5"`
	Body   string `json:"body,omitempty"`
}

type CreateCommentRequestBody struct {
	Body string `json:"body" binding:"required"`
}

type UpdateProfileRequestBody struct {
	FullName  *string `json:"full_name,omitempty" binding:"omitempty,min=1"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty" binding:"omitempty,url"`
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELLED BookingStatus = "cancelled"
	BOOKING_COMPLETED BookingStatus = "completed"
)

type PaymentStatus string

const (
	PAYMENT_UNPAID   PaymentStatus = "unpaid"
	PAYMENT_PENDING  PaymentStatus = "pending"
	PAYMENT_VERIFIED PaymentStatus = "verified"
	PAYMENT_REJECTED PaymentStatus = "rejected"
)

type PaymentMethod string

const (
	PAYMENT_CASH          PaymentMethod = "cash"
	PAYMENT_BANK_TRANSFER PaymentMethod = "bank_transfer"
)

type CancelledBy string

const (
	CANCELLED_BY_OWNER  CancelledBy = "owner"
	CANCELLED_BY_RENTER CancelledBy = "renter"
)

type CampsiteStatus string

const (
	CAMPSITE_DRAFT     CampsiteStatus = "draft"
	CAMPSITE_PUBLISHED CampsiteStatus = "published"
	CAMPSITE_ARCHIVED  CampsiteStatus = "archived"
)

type NotificationType string

const (
	NOTIFY_BOOKING_CREATED   NotificationType = "booking_created"
	NOTIFY_NEW_BOOKING       NotificationType = "new_booking"
	NOTIFY_BOOKING_APPROVED  NotificationType = "booking_approved"
	NOTIFY_BOOKING_REJECTED  NotificationType = "booking_rejected"
	NOTIFY_BOOKING_CANCELLED NotificationType = "booking_cancelled"
	NOTIFY_BOOKING_COMPLETED NotificationType = "booking_completed"
	NOTIFY_PAYMENT_SUBMITTED NotificationType = "payment_submitted"
	NOTIFY_PAYMENT_VERIFIED  NotificationType = "payment_verified"
	NOTIFY_PAYMENT_REJECTED  NotificationType = "payment_rejected"
)

// ActionResult is the envelope every handler answers with.
type ActionResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
