package utils

import (
	"camphub/src/config"
	"camphub/src/db"
	"camphub/src/lib"
	"camphub/src/models"
	"camphub/src/models/scopes"
	"camphub/src/types"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var bookingTransitions = map[types.BookingStatus][]types.BookingStatus{
	types.BOOKING_PENDING:   {types.BOOKING_CONFIRMED, types.BOOKING_CANCELLED},
	types.BOOKING_CONFIRMED: {types.BOOKING_CANCELLED, types.BOOKING_COMPLETED},
}

// CanTransitionBooking reports whether a booking may move from one status to
// another. Cancelled and completed are terminal.
func CanTransitionBooking(from, to types.BookingStatus) bool {
	return slices.Contains(bookingTransitions[from], to)
}

func CreateBooking(ctx context.Context, renterID uuid.UUID, params *types.CreateBookingRequestBody) (*models.Booking, error) {
	checkIn, checkOut, err := ParseDateRange(params.CheckIn, params.CheckOut)
	if err != nil {
		return nil, err
	}
	if params.Guests < 1 {
		return nil, newActionError(ErrValidation, "at least one guest is required")
	}

	db := db.GetDb().WithContext(ctx)
	var campsite models.Campsite
	if err := db.Scopes(scopes.WithID(params.CampsiteID)).First(&campsite).Error; err != nil {
		return nil, notFoundOr(err, "campsite")
	}
	if campsite.OwnerID == renterID {
		return nil, newActionError(ErrValidation, "you cannot book your own campsite")
	}
	if campsite.Status != types.CAMPSITE_PUBLISHED {
		return nil, newActionError(ErrValidation, "campsite is not open for booking")
	}
	zone, err := findZone(db, campsite.ID, params.Zone)
	if err != nil {
		return nil, err
	}
	if zone.Capacity > 0 && params.Guests > zone.Capacity {
		return nil, newActionError(ErrValidation, "zone %q allows at most %d guests", zone.Name, zone.Capacity)
	}

	release, err := lib.AcquireLock(ctx, lib.GetRedisClient(), lib.ZoneLockKey(campsite.ID, zone.Name), uuid.NewString(), config.ZONE_LOCK_TTL)
	if err != nil {
		if errors.Is(err, lib.ErrLockNotAcquired) {
			return nil, newActionError(ErrConflict, "zone %q is being booked by someone else, please try again", zone.Name)
		}
		return nil, fmt.Errorf("error locking zone: %w", err)
	}
	defer release()

	nights := Nights(checkIn, checkOut)
	booking := models.Booking{
		CampsiteID:    campsite.ID,
		UserID:        renterID,
		CheckInDate:   checkIn,
		CheckOutDate:  checkOut,
		Guests:        params.Guests,
		TotalPrice:    campsite.PricePerNight.Mul(decimal.NewFromInt(nights)),
		Status:        types.BOOKING_PENDING,
		PaymentStatus: types.PAYMENT_UNPAID,
		Notes:         BuildBookingNotes(zone.Name, params.Notes),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		availability, err := CheckZoneAvailability(tx, campsite.ID, zone.Name, checkIn, checkOut)
		if err != nil {
			return err
		}
		if !availability.Available {
			return newActionError(ErrConflict, "%s", availability.Message)
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("error creating booking: %w", err)
		}
		stay := fmt.Sprintf("%s, zone %s, %s to %s", campsite.Name, zone.Name, checkIn.Format(config.DATE_PARSE_FORMAT), checkOut.Format(config.DATE_PARSE_FORMAT))
		if err := createNotification(tx, renterID, types.NOTIFY_BOOKING_CREATED, "Booking submitted", "Your booking request for "+stay+" is waiting for the owner's approval", booking.ID); err != nil {
			return err
		}
		return createNotification(tx, campsite.OwnerID, types.NOTIFY_NEW_BOOKING, "New booking request", "You have a new booking request for "+stay, booking.ID)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Booking] created booking %d for campsite %d zone %q\n", booking.ID, campsite.ID, zone.Name)
	return &booking, nil
}

// loadBookingWithCampsite is used inside transactions; the campsite carries the owner id.
func loadBookingWithCampsite(tx *gorm.DB, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.Preload("Campsite").Scopes(scopes.WithID(bookingID)).First(&booking).Error; err != nil {
		return nil, notFoundOr(err, "booking")
	}
	if booking.Campsite == nil {
		return nil, newActionError(ErrNotFound, "campsite not found")
	}
	return &booking, nil
}

// updateBookingStatus only writes when the row is still in the status we read.
func updateBookingStatus(tx *gorm.DB, booking *models.Booking, to types.BookingStatus, fields map[string]any) error {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["status"] = to
	result := tx.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, booking.Status).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("error updating booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return newActionError(ErrConflict, "booking was modified by another request")
	}
	booking.Status = to
	return nil
}

// DecideBooking applies the owner's decision. Approving needs a pending
// booking; rejecting also works on a confirmed one.
func DecideBooking(ctx context.Context, ownerID uuid.UUID, bookingID uint, decision string) (*models.Booking, error) {
	var to types.BookingStatus
	switch decision {
	case "approved":
		to = types.BOOKING_CONFIRMED
	case "rejected":
		to = types.BOOKING_CANCELLED
	default:
		return nil, newActionError(ErrValidation, "status must be approved or rejected")
	}

	var booking *models.Booking
	err := db.GetDb().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = loadBookingWithCampsite(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Campsite.OwnerID != ownerID {
			return newActionError(ErrForbidden, "only the campsite owner can update this booking")
		}
		if to == types.BOOKING_CONFIRMED && booking.Status != types.BOOKING_PENDING {
			return newActionError(ErrValidation, "only pending bookings can be approved, this booking is %s", booking.Status)
		}
		if !CanTransitionBooking(booking.Status, to) {
			return newActionError(ErrValidation, "booking is already %s", booking.Status)
		}

		from := booking.Status
		fields := map[string]any{}
		if to == types.BOOKING_CANCELLED {
			cancelledBy := types.CANCELLED_BY_OWNER
			fields["cancelled_by"] = cancelledBy
			booking.CancelledBy = &cancelledBy
		}
		if err := updateBookingStatus(tx, booking, to, fields); err != nil {
			return err
		}

		switch {
		case to == types.BOOKING_CONFIRMED:
			return createNotification(tx, booking.UserID, types.NOTIFY_BOOKING_APPROVED, "Booking approved",
				fmt.Sprintf("Your booking at %s has been approved", booking.Campsite.Name), booking.ID)
		case from == types.BOOKING_PENDING:
			return createNotification(tx, booking.UserID, types.NOTIFY_BOOKING_REJECTED, "Booking rejected",
				fmt.Sprintf("Your booking at %s has been rejected by the owner", booking.Campsite.Name), booking.ID)
		default:
			return createNotification(tx, booking.UserID, types.NOTIFY_BOOKING_CANCELLED, "Booking cancelled",
				fmt.Sprintf("Your confirmed booking at %s has been cancelled by the owner", booking.Campsite.Name), booking.ID)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Booking] owner %s set booking %d to %s\n", ownerID, booking.ID, booking.Status)
	return booking, nil
}

// CancelBooking lets the renter withdraw a booking that has not been approved yet.
func CancelBooking(ctx context.Context, renterID uuid.UUID, bookingID uint) (*models.Booking, error) {
	var booking *models.Booking
	err := db.GetDb().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = loadBookingWithCampsite(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.UserID != renterID {
			return newActionError(ErrForbidden, "you can only cancel your own bookings")
		}
		switch booking.Status {
		case types.BOOKING_PENDING:
		case types.BOOKING_CANCELLED:
			return newActionError(ErrValidation, "booking is already cancelled")
		case types.BOOKING_CONFIRMED:
			return newActionError(ErrValidation, "confirmed bookings can only be cancelled by the campsite owner")
		default:
			return newActionError(ErrValidation, "%s bookings cannot be cancelled", booking.Status)
		}
		cancelledBy := types.CANCELLED_BY_RENTER
		if err := updateBookingStatus(tx, booking, types.BOOKING_CANCELLED, map[string]any{"cancelled_by": cancelledBy}); err != nil {
			return err
		}
		booking.CancelledBy = &cancelledBy
		return createNotification(tx, booking.Campsite.OwnerID, types.NOTIFY_BOOKING_CANCELLED, "Booking cancelled",
			fmt.Sprintf("A booking at %s has been cancelled by the renter", booking.Campsite.Name), booking.ID)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CompleteBooking marks a confirmed stay as finished once its check-out day has come.
func CompleteBooking(ctx context.Context, ownerID uuid.UUID, bookingID uint, now time.Time) (*models.Booking, error) {
	var booking *models.Booking
	err := db.GetDb().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = loadBookingWithCampsite(tx, bookingID)
		if err != nil {
			return err
		}
		if booking.Campsite.OwnerID != ownerID {
			return newActionError(ErrForbidden, "only the campsite owner can complete this booking")
		}
		if !CanTransitionBooking(booking.Status, types.BOOKING_COMPLETED) {
			return newActionError(ErrValidation, "only confirmed bookings can be completed, this booking is %s", booking.Status)
		}
		if TruncateDate(now).Before(TruncateDate(booking.CheckOutDate)) {
			return newActionError(ErrValidation, "booking cannot be completed before its check-out date")
		}
		if err := updateBookingStatus(tx, booking, types.BOOKING_COMPLETED, nil); err != nil {
			return err
		}
		return createNotification(tx, booking.UserID, types.NOTIFY_BOOKING_COMPLETED, "Stay completed",
			fmt.Sprintf("Your stay at %s is complete, tell others how it went", booking.Campsite.Name), booking.ID)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// CompleteElapsedBookings completes every confirmed booking whose check-out
// date is before today. It runs from the scheduler.
func CompleteElapsedBookings(now time.Time) (int, error) {
	today := TruncateDate(now)
	var due []models.Booking
	err := db.GetDb().
		Preload("Campsite").
		Where("status = ? AND check_out_date < ?", types.BOOKING_CONFIRMED, today).
		Find(&due).
		Error
	if err != nil {
		log.Printf("[Completion] could not load elapsed bookings: %s\n", err.Error())
		return 0, err
	}

	completed := 0
	for i := range due {
		booking := &due[i]
		err := db.GetDb().Transaction(func(tx *gorm.DB) error {
			if err := updateBookingStatus(tx, booking, types.BOOKING_COMPLETED, nil); err != nil {
				return err
			}
			name := "your campsite"
			if booking.Campsite != nil {
				name = booking.Campsite.Name
			}
			return createNotification(tx, booking.UserID, types.NOTIFY_BOOKING_COMPLETED, "Stay completed",
				fmt.Sprintf("Your stay at %s is complete, tell others how it went", name), booking.ID)
		})
		if err != nil {
			log.Printf("[Completion] booking %d: %s\n", booking.ID, err.Error())
			continue
		}
		completed++
	}
	if completed > 0 {
		log.Printf("[Completion] completed %d bookings\n", completed)
	}
	return completed, nil
}

// GetBooking returns the booking to its renter or to the campsite owner.
func GetBooking(userID uuid.UUID, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := db.GetDb().
		Preload("Campsite").
		Preload("Payments", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		Scopes(scopes.WithID(bookingID)).
		First(&booking).
		Error
	if err != nil {
		return nil, notFoundOr(err, "booking")
	}
	if booking.UserID != userID && (booking.Campsite == nil || booking.Campsite.OwnerID != userID) {
		return nil, newActionError(ErrForbidden, "you are not allowed to view this booking")
	}
	return &booking, nil
}

func ListRenterBookings(userID uuid.UUID, status string) ([]models.Booking, error) {
	var bookings []models.Booking
	q := db.GetDb().Preload("Campsite").Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Scopes(scopes.Newest).Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("error retrieving bookings: %w", err)
	}
	return bookings, nil
}

func ListOwnerBookings(ownerID uuid.UUID, status string) ([]models.Booking, error) {
	var bookings []models.Booking
	q := db.GetDb().
		Preload("Campsite").
		Preload("User").
		Joins("JOIN campsites ON campsites.id = bookings.campsite_id").
		Where("campsites.owner_id = ?", ownerID)
	if status != "" {
		q = q.Where("bookings.status = ?", status)
	}
	if err := q.Order("bookings.created_at DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("error retrieving bookings: %w", err)
	}
	return bookings, nil
}

// CancellationSource tells who cancelled a booking. Rows written before
// cancelled_by existed fall back to looking for the rejection notice.
func CancellationSource(booking *models.Booking) (types.CancelledBy, error) {
	if booking.Status != types.BOOKING_CANCELLED {
		return "", nil
	}
	if booking.CancelledBy != nil {
		return *booking.CancelledBy, nil
	}
	var count int64
	err := db.GetDb().
		Model(&models.Notification{}).
		Where("user_id = ? AND type = ? AND reference_id = ?", booking.UserID, types.NOTIFY_BOOKING_REJECTED, booking.ID).
		Count(&count).
		Error
	if err != nil {
		return "", fmt.Errorf("error retrieving notifications: %w", err)
	}
	if count > 0 {
		return types.CANCELLED_BY_OWNER, nil
	}
	return types.CANCELLED_BY_RENTER, nil
}
