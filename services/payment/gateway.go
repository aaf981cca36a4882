package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"roame/models"
	"roame/utils"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

// Gateway is the payment provider seen from this service.
type Gateway interface {
	// CreateOrder opens an order for amount in major currency units.
	CreateOrder(ctx context.Context, amount float64, receipt string) (*models.Order, error)
	// Refund returns amount (major units) of a captured payment and the
	// gateway's refund id.
	Refund(ctx context.Context, paymentID string, amount float64) (string, error)
}

// ToMinorUnits converts rupees to paise, rounding to the nearest paisa.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// NewReceipt builds the receipt reference sent with an order.
func NewReceipt(now time.Time) string {
	return fmt.Sprintf("receipt_%d", now.UnixMilli())
}

// RazorpayGateway talks to Razorpay with the official client.
type RazorpayGateway struct {
	client   *razorpay.Client
	currency string
}

func NewRazorpayGateway(keyID, keySecret, currency string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay credentials not set in configuration")
	}
	if currency == "" {
		currency = "INR"
	}
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret), currency: currency}, nil
}

// CreateOrder registers an order with the gateway.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount float64, receipt string) (*models.Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := map[string]interface{}{
		"amount":   ToMinorUnits(amount),
		"currency": g.currency,
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}
	order := orderFromResponse(body)
	if order.ID == "" {
		return nil, fmt.Errorf("gateway returned an order without id")
	}
	utils.GetLogger().Info("Gateway order created",
		zap.String("orderId", order.ID),
		zap.Int64("amount", order.Amount),
		zap.String("receipt", order.Receipt))
	return order, nil
}

// Refund issues a refund for a captured payment.
func (g *RazorpayGateway) Refund(ctx context.Context, paymentID string, amount float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	body, err := g.client.Payment.Refund(paymentID, int(ToMinorUnits(amount)), nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to refund payment %s: %w", paymentID, err)
	}
	refundID, _ := body["id"].(string)
	return refundID, nil
}

func orderFromResponse(body map[string]interface{}) *models.Order {
	order := &models.Order{CreatedAt: time.Now().UTC(), State: models.OrderInitiated}
	order.ID, _ = body["id"].(string)
	order.Currency, _ = body["currency"].(string)
	order.Receipt, _ = body["receipt"].(string)
	order.Status, _ = body["status"].(string)
	switch v := body["amount"].(type) {
	case float64:
		order.Amount = int64(v)
	case int64:
		order.Amount = v
	case int:
		order.Amount = int64(v)
	}
	return order
}
