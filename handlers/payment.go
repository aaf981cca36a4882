package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"roame/models"
	"roame/services/booking"
	"roame/services/invoice"
	"roame/services/payment"
	"roame/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const bookingCookie = "bookingId"

// OrderStarter records that a gateway order was handed to a client.
type OrderStarter interface {
	Start(ctx context.Context, order *models.Order) error
}

// PaymentHandler serves the checkout flow.
type PaymentHandler struct {
	Gateway    payment.Gateway
	Orders     OrderStarter // optional
	Settlement booking.SettlementService
	Invoices   invoice.InvoiceService
	// SecureCookies marks cookies Secure; on in production.
	SecureCookies bool
}

// CreateOrderHandler handles POST /payment/create-order.
func (h *PaymentHandler) CreateOrderHandler(c *gin.Context) {
	logger := getLogger(c)
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "amount must be a positive number", "")
		return
	}

	order, err := h.Gateway.CreateOrder(c.Request.Context(), req.Amount, payment.NewReceipt(time.Now()))
	if err != nil {
		logger.Error("Error creating Razorpay order", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Error creating Razorpay order", "")
		return
	}
	if h.Orders != nil {
		if err := h.Orders.Start(c.Request.Context(), order); err != nil {
			logger.Warn("Order state not recorded", zap.String("orderId", order.ID), zap.Error(err))
		} else {
			order.State = models.OrderInitiated
		}
	}
	c.JSON(http.StatusOK, order)
}

type bookingDetails struct {
	ListingID string  `json:"listingId"`
	CheckIn   string  `json:"checkIn"`
	CheckOut  string  `json:"checkOut"`
	Guests    int     `json:"guests"`
	Amount    float64 `json:"amount"`
}

type verifyPaymentRequest struct {
	OrderID        string         `json:"razorpay_order_id"`
	PaymentID      string         `json:"razorpay_payment_id"`
	Signature      string         `json:"razorpay_signature"`
	BookingDetails bookingDetails `json:"bookingDetails"`
}

// VerifyPaymentHandler handles POST /payment/verify-payment.
func (h *PaymentHandler) VerifyPaymentHandler(c *gin.Context) {
	logger := getLogger(c)
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": "Invalid payment confirmation"})
		return
	}

	result, err := h.Settlement.Settle(c.Request.Context(), booking.SettlementRequest{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		UserID:    currentUserID(c),
		ListingID: req.BookingDetails.ListingID,
		CheckIn:   req.BookingDetails.CheckIn,
		CheckOut:  req.BookingDetails.CheckOut,
		Guests:    req.BookingDetails.Guests,
		Amount:    req.BookingDetails.Amount,
	})
	switch {
	case err == nil:
	case errors.Is(err, booking.ErrSignatureMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure"})
		return
	case errors.Is(err, booking.ErrBookingConflict):
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": booking.ConflictMessage})
		return
	case booking.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"status": "failure", "message": err.Error()})
		return
	default:
		logger.Error("Error verifying payment", zap.String("orderId", req.OrderID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Server error during payment verification", "")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(bookingCookie, result.BookingID, int(time.Hour.Seconds()), "/", "", h.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"status": "success", "bookingId": result.BookingID})
}

// PaymentSuccessHandler handles GET /payment/payment-success. The booking
// comes from ?bookingId= or the cookie set at verification.
func (h *PaymentHandler) PaymentSuccessHandler(c *gin.Context) {
	logger := getLogger(c)
	bookingID := c.Query("bookingId")
	if bookingID == "" {
		bookingID, _ = c.Cookie(bookingCookie)
	}
	if bookingID == "" {
		utils.JSONError(c, http.StatusNotFound, "Booking not found or session expired.", "")
		return
	}

	confirmation, data, err := h.Invoices.Confirmation(c.Request.Context(), bookingID, currentUserID(c))
	if err != nil {
		if errors.Is(err, invoice.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Booking not found or session expired.", "")
			return
		}
		logger.Error("Error on payment success page", zap.String("bookingId", bookingID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Something went wrong while showing your booking confirmation.", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":      data,
		"invoiceFile":  confirmation.Invoice.URL,
		"confirmation": confirmation,
	})
}
