package utils

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"camphub/src/models"
	"camphub/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func slip(name string) *FileUpload {
	body := "fake-png-bytes"
	return &FileUpload{Filename: name, ContentType: "image/png", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func transferBody() *types.BankTransferRequestBody {
	return &types.BankTransferRequestBody{
		BankName:        "Kasikorn",
		AccountNumber:   "123-4-56789-0",
		TransactionDate: "2025-01-05",
		Notes:           "deposit",
	}
}

func TestCashThenTransferKeepsOnePayment(t *testing.T) {
	f := newFixture(t)
	storage := newMemoryStorage()
	x := f.book(t, "2025-01-10", "2025-01-12")

	cash, err := SelectCashPayment(context.Background(), f.renter, x.ID, "pay on arrival")
	require.NoError(t, err)
	assert.Equal(t, types.PAYMENT_CASH, cash.Method)
	assert.Equal(t, types.PAYMENT_PENDING, cash.Status)
	assert.True(t, x.TotalPrice.Equal(cash.Amount))

	transfer, err := SubmitBankTransfer(context.Background(), storage, f.renter, x.ID, slip("Slip.PNG"), transferBody())
	require.NoError(t, err)
	require.NotNil(t, transfer.SlipURL)
	assert.Contains(t, *transfer.SlipURL, "/payment-slips/")
	assert.True(t, strings.HasSuffix(*transfer.SlipURL, ".png"))
	assert.Contains(t, storage.objects, *transfer.SlipURL)

	var payments []models.Payment
	require.NoError(t, f.db.Where("booking_id = ?", x.ID).Find(&payments).Error)
	require.Len(t, payments, 1)
	assert.Equal(t, transfer.ID, payments[0].ID)
	assert.Equal(t, types.PAYMENT_BANK_TRANSFER, payments[0].Method)

	stored := f.reload(t, x.ID)
	require.NotNil(t, stored.PaymentMethod)
	assert.Equal(t, payments[0].Method, *stored.PaymentMethod)
	assert.Equal(t, payments[0].Status, stored.PaymentStatus)

	current, err := GetCurrentPayment(f.owner, x.ID)
	require.NoError(t, err)
	assert.Equal(t, transfer.ID, current.ID)
}

func TestPaymentRequiresRenter(t *testing.T) {
	f := newFixture(t)
	x := f.book(t, "2025-01-10", "2025-01-12")

	_, err := SelectCashPayment(context.Background(), f.stranger, x.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = SelectCashPayment(context.Background(), f.owner, x.ID, "")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, types.PAYMENT_UNPAID, f.reload(t, x.ID).PaymentStatus)

	_, err = CancelBooking(context.Background(), f.renter, x.ID)
	require.NoError(t, err)
	_, err = SelectCashPayment(context.Background(), f.renter, x.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerifyPayment(t *testing.T) {
	for _, outcome := range []types.PaymentStatus{types.PAYMENT_VERIFIED, types.PAYMENT_REJECTED} {
		t.Run(string(outcome), func(t *testing.T) {
			f := newFixture(t)
			x := f.book(t, "2025-01-10", "2025-01-12")
			payment, err := SelectCashPayment(context.Background(), f.renter, x.ID, "")
			require.NoError(t, err)

			params := &types.VerifyPaymentRequestBody{Status: string(outcome), Notes: "checked"}
			_, err = VerifyPayment(context.Background(), f.renter, payment.ID, params, time.Now())
			assert.ErrorIs(t, err, ErrForbidden)
			_, err = VerifyPayment(context.Background(), f.stranger, payment.ID, params, time.Now())
			assert.ErrorIs(t, err, ErrForbidden)
			assert.Equal(t, types.PAYMENT_PENDING, f.reload(t, x.ID).PaymentStatus)

			verified, err := VerifyPayment(context.Background(), f.owner, payment.ID, params, time.Now())
			require.NoError(t, err)
			assert.Equal(t, outcome, verified.Status)
			require.NotNil(t, verified.VerifiedBy)
			assert.Equal(t, f.owner, *verified.VerifiedBy)

			var row models.Payment
			require.NoError(t, f.db.First(&row, payment.ID).Error)
			assert.Equal(t, outcome, row.Status)
			assert.Equal(t, row.Status, f.reload(t, x.ID).PaymentStatus)

			_, err = VerifyPayment(context.Background(), f.owner, payment.ID, params, time.Now())
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRejectedPaymentCanBeResubmitted(t *testing.T) {
	f := newFixture(t)
	x := f.book(t, "2025-01-10", "2025-01-12")
	payment, err := SelectCashPayment(context.Background(), f.renter, x.ID, "")
	require.NoError(t, err)
	_, err = VerifyPayment(context.Background(), f.owner, payment.ID, &types.VerifyPaymentRequestBody{Status: "rejected"}, time.Now())
	require.NoError(t, err)

	_, err = SubmitBankTransfer(context.Background(), newMemoryStorage(), f.renter, x.ID, slip("slip.jpg"), transferBody())
	require.NoError(t, err)
	assert.Equal(t, types.PAYMENT_PENDING, f.reload(t, x.ID).PaymentStatus)

	var latest models.Payment
	require.NoError(t, f.db.Where("booking_id = ?", x.ID).First(&latest).Error)
	_, err = VerifyPayment(context.Background(), f.owner, latest.ID, &types.VerifyPaymentRequestBody{Status: "verified"}, time.Now())
	require.NoError(t, err)

	_, err = SelectCashPayment(context.Background(), f.renter, x.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBankTransferValidatesSlip(t *testing.T) {
	f := newFixture(t)
	storage := newMemoryStorage()
	x := f.book(t, "2025-01-10", "2025-01-12")

	pdf := &FileUpload{Filename: "slip.exe", ContentType: "application/x-msdownload", Size: 10, Body: strings.NewReader("x")}
	_, err := SubmitBankTransfer(context.Background(), storage, f.renter, x.ID, pdf, transferBody())
	assert.ErrorIs(t, err, ErrValidation)

	huge := slip("slip.png")
	huge.Size = 50 << 20
	_, err = SubmitBankTransfer(context.Background(), storage, f.renter, x.ID, huge, transferBody())
	assert.ErrorIs(t, err, ErrValidation)

	badDate := transferBody()
	badDate.TransactionDate = "yesterday"
	_, err = SubmitBankTransfer(context.Background(), storage, f.renter, x.ID, slip("slip.png"), badDate)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, storage.objects)
}

func TestBankTransferRemovesSlipOnFailure(t *testing.T) {
	f := newFixture(t)
	storage := newMemoryStorage()
	x := f.book(t, "2025-01-10", "2025-01-12")

	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_payments", func(tx *gorm.DB) {
		if tx.Statement.Table == "payments" {
			tx.AddError(errors.New("insert failed"))
		}
	})
	require.NoError(t, err)

	_, err = SubmitBankTransfer(context.Background(), storage, f.renter, x.ID, slip("slip.png"), transferBody())
	require.Error(t, err)
	assert.Empty(t, storage.objects)
	assert.Len(t, storage.deleted, 1)
	assert.Equal(t, types.PAYMENT_UNPAID, f.reload(t, x.ID).PaymentStatus)
}

func TestPaymentLocksBookingRow(t *testing.T) {
	f := newFixture(t)
	x := f.book(t, "2025-01-10", "2025-01-12")

	var locked []bool
	err := f.db.Callback().Query().Before("gorm:query").Register("test:record_locks", func(tx *gorm.DB) {
		if tx.Statement.Table == "bookings" {
			_, ok := tx.Statement.Clauses["FOR"]
			locked = append(locked, ok)
		}
	})
	require.NoError(t, err)

	_, err = SelectCashPayment(context.Background(), f.renter, x.ID, "")
	require.NoError(t, err)
	assert.Equal(t, []bool{true}, locked)

	// the check before the upload reads without a lock
	_, err = SubmitBankTransfer(context.Background(), newMemoryStorage(), f.renter, x.ID, slip("slip.png"), transferBody())
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, locked)

	var payments int64
	require.NoError(t, f.db.Model(&models.Payment{}).Where("booking_id = ?", x.ID).Count(&payments).Error)
	assert.Equal(t, int64(1), payments)
}
