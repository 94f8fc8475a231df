package main

import (
	"camphub/src/types"
	"camphub/src/utils"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			booking, err := utils.CreateBooking(ctx.Request.Context(), userID, &body)
			if err != nil {
				respondError(ctx, "CreateBooking", err)
				return
			}
			respondData(ctx, http.StatusCreated, booking)
		}).
		GET("/bookings", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			bookings, err := utils.ListRenterBookings(userID, ctx.Query("status"))
			if err != nil {
				respondError(ctx, "ListBookings", err)
				return
			}
			respondList(ctx, bookings)
		}).
		GET("/owner/bookings", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			bookings, err := utils.ListOwnerBookings(userID, ctx.Query("status"))
			if err != nil {
				respondError(ctx, "ListOwnerBookings", err)
				return
			}
			respondList(ctx, bookings)
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			booking, err := utils.GetBooking(userID, id)
			if err != nil {
				respondError(ctx, "GetBooking", err)
				return
			}
			if booking.Status == types.BOOKING_CANCELLED && booking.CancelledBy == nil {
				source, err := utils.CancellationSource(booking)
				if err != nil {
					respondError(ctx, "GetBooking", err)
					return
				}
				booking.CancelledBy = &source
			}
			respondData(ctx, http.StatusOK, booking)
		}).
		PUT("/bookings/:id/status", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.BookingDecisionRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			booking, err := utils.DecideBooking(ctx.Request.Context(), userID, id, body.Status)
			if err != nil {
				respondError(ctx, "DecideBooking", err)
				return
			}
			respondData(ctx, http.StatusOK, booking)
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			booking, err := utils.CancelBooking(ctx.Request.Context(), userID, id)
			if err != nil {
				respondError(ctx, "CancelBooking", err)
				return
			}
			respondData(ctx, http.StatusOK, booking)
		}).
		PUT("/bookings/:id/complete", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			booking, err := utils.CompleteBooking(ctx.Request.Context(), userID, id, time.Now())
			if err != nil {
				respondError(ctx, "CompleteBooking", err)
				return
			}
			respondData(ctx, http.StatusOK, booking)
		})
	return g
}

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings/:id/payments/cash", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.CashPaymentRequestBody
			// the body is optional; chunked requests report no length
			if ctx.Request.Body != nil {
				if err := ctx.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
					respondBindError(ctx, err)
					return
				}
			}
			payment, err := utils.SelectCashPayment(ctx.Request.Context(), userID, id, body.Notes)
			if err != nil {
				respondError(ctx, "SelectCashPayment", err)
				return
			}
			respondData(ctx, http.StatusCreated, payment)
		}).
		POST("/bookings/:id/payments/transfer", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.BankTransferRequestBody
			if err := ctx.ShouldBind(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			slip, closeFile, err := readUpload(ctx, "slip")
			if err != nil {
				respondError(ctx, "SubmitBankTransfer", err)
				return
			}
			defer closeFile()
			payment, err := utils.SubmitBankTransfer(ctx.Request.Context(), objectStorage, userID, id, slip, &body)
			if err != nil {
				respondError(ctx, "SubmitBankTransfer", err)
				return
			}
			respondData(ctx, http.StatusCreated, payment)
		}).
		GET("/bookings/:id/payment", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			payment, err := utils.GetCurrentPayment(userID, id)
			if err != nil {
				respondError(ctx, "GetPayment", err)
				return
			}
			respondData(ctx, http.StatusOK, payment)
		}).
		PUT("/payments/:id/verify", func(ctx *gin.Context) {
			userID, ok := currentUser(ctx)
			if !ok {
				return
			}
			id, ok := bindID(ctx)
			if !ok {
				return
			}
			var body types.VerifyPaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				respondBindError(ctx, err)
				return
			}
			payment, err := utils.VerifyPayment(ctx.Request.Context(), userID, id, &body, time.Now())
			if err != nil {
				respondError(ctx, "VerifyPayment", err)
				return
			}
			respondData(ctx, http.StatusOK, payment)
		})
	return g
}
