package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderFromResponse(t *testing.T) {
	order := orderFromResponse(map[string]interface{}{
		"id":       "order_Nx1",
		"amount":   float64(250000),
		"currency": "INR",
		"receipt":  "receipt_1717171717000",
		"status":   "created",
	})
	assert.Equal(t, "order_Nx1", order.ID)
	assert.Equal(t, int64(250000), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "created", order.Status)
}

func TestNewReceipt(t *testing.T) {
	now := time.UnixMilli(1717171717000)
	assert.Equal(t, "receipt_1717171717000", NewReceipt(now))
}

func TestNewRazorpayGateway_RequiresCredentials(t *testing.T) {
	_, err := NewRazorpayGateway("", "", "INR")
	assert.Error(t, err)
}
