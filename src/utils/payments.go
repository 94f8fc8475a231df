package utils

import (
	"camphub/src/db"
	"camphub/src/lib"
	"camphub/src/models"
	"camphub/src/models/scopes"
	"camphub/src/types"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// checkPayable returns the booking if the renter may submit or replace its
// payment. A verified payment is final.
func checkPayable(tx *gorm.DB, renterID uuid.UUID, bookingID uint) (*models.Booking, error) {
	booking, err := loadBookingWithCampsite(tx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != renterID {
		return nil, newActionError(ErrForbidden, "you can only pay for your own bookings")
	}
	if booking.Status == types.BOOKING_CANCELLED || booking.Status == types.BOOKING_COMPLETED {
		return nil, newActionError(ErrValidation, "cannot submit a payment for a %s booking", booking.Status)
	}
	if booking.PaymentStatus == types.PAYMENT_VERIFIED {
		return nil, newActionError(ErrValidation, "payment for this booking has already been verified")
	}
	return booking, nil
}

// lockBooking makes concurrent payment submissions for the same booking
// queue behind each other. SQLite ignores the clause.
func lockBooking(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// replacePayment drops earlier payment rows for the booking, inserts the new
// one and moves the booking to pending payment. Callers run it in a transaction.
func replacePayment(tx *gorm.DB, booking *models.Booking, payment *models.Payment) error {
	if err := tx.Where("booking_id = ?", booking.ID).Delete(&models.Payment{}).Error; err != nil {
		return fmt.Errorf("error removing previous payments: %w", err)
	}
	payment.BookingID = booking.ID
	payment.Amount = booking.TotalPrice
	payment.Status = types.PAYMENT_PENDING
	if err := tx.Create(payment).Error; err != nil {
		return fmt.Errorf("error creating payment: %w", err)
	}
	method := payment.Method
	err := tx.Model(&models.Booking{}).
		Scopes(scopes.WithID(booking.ID)).
		Updates(map[string]any{"payment_method": method, "payment_status": types.PAYMENT_PENDING}).
		Error
	if err != nil {
		return fmt.Errorf("error updating booking payment: %w", err)
	}
	booking.PaymentMethod = &method
	booking.PaymentStatus = types.PAYMENT_PENDING
	return createNotification(tx, booking.Campsite.OwnerID, types.NOTIFY_PAYMENT_SUBMITTED, "Payment submitted",
		fmt.Sprintf("A %s payment was submitted for a booking at %s", method, booking.Campsite.Name), booking.ID)
}

// SelectCashPayment records that the renter will pay on arrival.
func SelectCashPayment(ctx context.Context, renterID uuid.UUID, bookingID uint, notes string) (*models.Payment, error) {
	payment := models.Payment{Method: types.PAYMENT_CASH, Notes: notes}
	err := db.GetDb().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := checkPayable(lockBooking(tx), renterID, bookingID)
		if err != nil {
			return err
		}
		return replacePayment(tx, booking, &payment)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// SubmitBankTransfer uploads the slip and records the transfer. The slip is
// removed again if the database write fails.
func SubmitBankTransfer(ctx context.Context, storage lib.ObjectStorage, renterID uuid.UUID, bookingID uint, slip *FileUpload, params *types.BankTransferRequestBody) (*models.Payment, error) {
	transactionDate, err := ParseDate(params.TransactionDate)
	if err != nil {
		return nil, err
	}
	if _, err := checkPayable(db.GetDb().WithContext(ctx), renterID, bookingID); err != nil {
		return nil, err
	}
	slipURL, err := uploadImage(ctx, storage, ObjectKey("payment-slips", bookingID, slip.Filename), slip)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		Method:          types.PAYMENT_BANK_TRANSFER,
		SlipURL:         &slipURL,
		BankName:        &params.BankName,
		AccountNumber:   &params.AccountNumber,
		TransactionDate: &transactionDate,
		Notes:           params.Notes,
	}
	err = db.GetDb().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := checkPayable(lockBooking(tx), renterID, bookingID)
		if err != nil {
			return err
		}
		return replacePayment(tx, booking, &payment)
	})
	if err != nil {
		discardUpload(storage, slipURL)
		return nil, err
	}
	log.Printf("[Payment] bank transfer %d submitted for booking %d\n", payment.ID, bookingID)
	return &payment, nil
}

// VerifyPayment is the owner's verdict on a pending payment. The booking's
// payment status follows in the same transaction.
func VerifyPayment(ctx context.Context, ownerID uuid.UUID, paymentID uint, params *types.VerifyPaymentRequestBody, now time.Time) (*models.Payment, error) {
	var to types.PaymentStatus
	switch params.Status {
	case string(types.PAYMENT_VERIFIED):
		to = types.PAYMENT_VERIFIED
	case string(types.PAYMENT_REJECTED):
		to = types.PAYMENT_REJECTED
	default:
		return nil, newActionError(ErrValidation, "status must be verified or rejected")
	}

	var payment models.Payment
	err := db.GetDb().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(scopes.WithID(paymentID)).First(&payment).Error; err != nil {
			return notFoundOr(err, "payment")
		}
		booking, err := loadBookingWithCampsite(tx, payment.BookingID)
		if err != nil {
			return err
		}
		if booking.Campsite.OwnerID != ownerID {
			return newActionError(ErrForbidden, "only the campsite owner can verify payments")
		}
		if payment.Status != types.PAYMENT_PENDING {
			return newActionError(ErrValidation, "payment is not awaiting verification, it is %s", payment.Status)
		}

		verifiedAt := now.UTC()
		fields := map[string]any{"status": to, "verified_by": ownerID, "verified_at": verifiedAt}
		if params.Notes != "" {
			fields["notes"] = params.Notes
		}
		result := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, types.PAYMENT_PENDING).
			Updates(fields)
		if result.Error != nil {
			return fmt.Errorf("error updating payment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return newActionError(ErrConflict, "payment was modified by another request")
		}
		err = tx.Model(&models.Booking{}).
			Scopes(scopes.WithID(booking.ID)).
			Update("payment_status", to).
			Error
		if err != nil {
			return fmt.Errorf("error updating booking payment: %w", err)
		}

		payment.Status = to
		payment.VerifiedBy = &ownerID
		payment.VerifiedAt = &verifiedAt
		if params.Notes != "" {
			payment.Notes = params.Notes
		}
		if to == types.PAYMENT_VERIFIED {
			return createNotification(tx, booking.UserID, types.NOTIFY_PAYMENT_VERIFIED, "Payment verified",
				fmt.Sprintf("Your payment for %s has been verified", booking.Campsite.Name), booking.ID)
		}
		return createNotification(tx, booking.UserID, types.NOTIFY_PAYMENT_REJECTED, "Payment rejected",
			fmt.Sprintf("Your payment for %s was rejected, please submit it again", booking.Campsite.Name), booking.ID)
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetCurrentPayment returns the latest payment of a booking, visible to the
// renter and the campsite owner.
func GetCurrentPayment(userID uuid.UUID, bookingID uint) (*models.Payment, error) {
	if _, err := GetBooking(userID, bookingID); err != nil {
		return nil, err
	}
	var payment models.Payment
	err := db.GetDb().
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		First(&payment).
		Error
	if err != nil {
		return nil, notFoundOr(err, "payment")
	}
	return &payment, nil
}
