package scopes

import (
	"camphub/src/types"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithCampsite(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("campsite_id = ?", id)
	}
}

// WithActiveStatus keeps bookings that still hold their dates.
func WithActiveStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ?", types.BOOKING_CANCELLED)
}

func Newest(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}
