package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"roame/models"
	"roame/services/booking"
	"roame/services/invoice"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSettlement struct{ mock.Mock }

func (m *mockSettlement) Settle(ctx context.Context, req booking.SettlementRequest) (*booking.SettlementResult, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*booking.SettlementResult)
	return res, args.Error(1)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) CreateOrder(ctx context.Context, amount float64, receipt string) (*models.Order, error) {
	args := m.Called(amount, receipt)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *mockGateway) Refund(ctx context.Context, paymentID string, amount float64) (string, error) {
	args := m.Called(paymentID, amount)
	return args.String(0), args.Error(1)
}

type mockInvoices struct{ mock.Mock }

func (m *mockInvoices) EnsureInvoice(ctx context.Context, bookingID string) (*models.InvoiceRef, error) {
	args := m.Called(bookingID)
	r, _ := args.Get(0).(*models.InvoiceRef)
	return r, args.Error(1)
}

func (m *mockInvoices) Confirmation(ctx context.Context, bookingID, userID string) (*models.BookingConfirmation, *models.InvoiceData, error) {
	args := m.Called(bookingID, userID)
	c, _ := args.Get(0).(*models.BookingConfirmation)
	d, _ := args.Get(1).(*models.InvoiceData)
	return c, d, args.Error(2)
}

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser stands in for the auth middleware.
func withUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Next()
	}
}

func paymentRouter(h *PaymentHandler) *gin.Engine {
	r := gin.New()
	r.Use(withUser("guest-1"))
	r.POST("/payment/create-order", h.CreateOrderHandler)
	r.POST("/payment/verify-payment", h.VerifyPaymentHandler)
	r.GET("/payment/payment-success", h.PaymentSuccessHandler)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

var verifyBody = map[string]any{
	"razorpay_order_id":   "order_1",
	"razorpay_payment_id": "pay_1",
	"razorpay_signature":  "sig",
	"bookingDetails": map[string]any{
		"listingId": "listing-1",
		"checkIn":   "2024-03-10",
		"checkOut":  "2024-03-12",
		"guests":    2,
		"amount":    5000,
	},
}

func TestVerifyPayment_Success(t *testing.T) {
	settle := &mockSettlement{}
	settle.On("Settle", booking.SettlementRequest{
		OrderID: "order_1", PaymentID: "pay_1", Signature: "sig", UserID: "guest-1",
		ListingID: "listing-1", CheckIn: "2024-03-10", CheckOut: "2024-03-12", Guests: 2, Amount: 5000,
	}).Return(&booking.SettlementResult{BookingID: "b-1", Outcome: booking.OutcomeConfirmed}, nil)

	w := postJSON(t, paymentRouter(&PaymentHandler{Settlement: settle}), "/payment/verify-payment", verifyBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"status": "success", "bookingId": "b-1"}, decode(t, w))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "bookingId=b-1")
	settle.AssertExpectations(t)
}

func TestVerifyPayment_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   map[string]any
	}{
		{"signature", booking.ErrSignatureMismatch, http.StatusBadRequest,
			map[string]any{"status": "failure"}},
		{"conflict", booking.ErrBookingConflict, http.StatusBadRequest,
			map[string]any{"status": "failure", "message": booking.ConflictMessage}},
		{"validation", booking.NewValidationError("dates", "check-out must be after check-in"), http.StatusBadRequest,
			map[string]any{"status": "failure", "message": "dates: check-out must be after check-in"}},
		{"storage", errors.New("mongo down"), http.StatusInternalServerError,
			map[string]any{"error": "Server error during payment verification"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settle := &mockSettlement{}
			settle.On("Settle", mock.Anything).Return(nil, tc.err)

			w := postJSON(t, paymentRouter(&PaymentHandler{Settlement: settle}), "/payment/verify-payment", verifyBody)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.body, decode(t, w))
			assert.Empty(t, w.Header().Get("Set-Cookie"))
		})
	}
}

func TestVerifyPayment_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/payment/verify-payment", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	paymentRouter(&PaymentHandler{Settlement: &mockSettlement{}}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "failure", decode(t, w)["status"])
}

type recordingOrders struct{ started []string }

func (r *recordingOrders) Start(ctx context.Context, order *models.Order) error {
	r.started = append(r.started, order.ID)
	return nil
}

func TestCreateOrder(t *testing.T) {
	gw := &mockGateway{}
	gw.On("CreateOrder", 2499.5, mock.MatchedBy(func(receipt string) bool {
		return len(receipt) > len("receipt_") && receipt[:8] == "receipt_"
	})).Return(&models.Order{ID: "order_9", Amount: 249950, Currency: "INR", Status: "created"}, nil)
	orders := &recordingOrders{}

	w := postJSON(t, paymentRouter(&PaymentHandler{Gateway: gw, Orders: orders}), "/payment/create-order", map[string]any{"amount": 2499.5})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "order_9", body["id"])
	assert.Equal(t, float64(249950), body["amount"])
	assert.Equal(t, "initiated", body["state"])
	assert.Equal(t, []string{"order_9"}, orders.started)
}

func TestCreateOrder_Errors(t *testing.T) {
	w := postJSON(t, paymentRouter(&PaymentHandler{Gateway: &mockGateway{}}), "/payment/create-order", map[string]any{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	gw := &mockGateway{}
	gw.On("CreateOrder", 100.0, mock.Anything).Return(nil, errors.New("gateway down"))
	w = postJSON(t, paymentRouter(&PaymentHandler{Gateway: gw}), "/payment/create-order", map[string]any{"amount": 100})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error creating Razorpay order", decode(t, w)["error"])
}

func TestPaymentSuccess(t *testing.T) {
	inv := &mockInvoices{}
	ref := &models.InvoiceRef{InvoiceID: "INV-ABC123", URL: "/invoices/INV-ABC123.pdf"}
	inv.On("Confirmation", "b-1", "guest-1").Return(
		&models.BookingConfirmation{Booking: models.Booking{ID: "b-1"}, Invoice: ref},
		&models.InvoiceData{InvoiceID: "INV-ABC123", BaseAmount: 4348, GST: 652, TotalAmount: 5000},
		nil)
	inv.On("Confirmation", "missing", "guest-1").Return(nil, nil, invoice.ErrBookingNotFound)
	r := paymentRouter(&PaymentHandler{Invoices: inv})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payment/payment-success?bookingId=b-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "/invoices/INV-ABC123.pdf", body["invoiceFile"])
	assert.Equal(t, float64(652), body["booking"].(map[string]any)["gst"])

	// falls back to the cookie set at verification
	req := httptest.NewRequest(http.MethodGet, "/payment/payment-success", nil)
	req.AddCookie(&http.Cookie{Name: "bookingId", Value: "b-1"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payment/payment-success?bookingId=missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payment/payment-success", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
