package payment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"roame/models"

	"github.com/redis/go-redis/v9"
)

const orderKeyPrefix = "order:"

// OrderTTL bounds how long order states are remembered.
const OrderTTL = 24 * time.Hour

// ErrIllegalTransition is returned for moves the order state machine forbids.
var ErrIllegalTransition = errors.New("illegal order state transition")

// OrderTracker keeps each gateway order's settlement state in Redis.
type OrderTracker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOrderTracker(client *redis.Client) *OrderTracker {
	return &OrderTracker{client: client, ttl: OrderTTL}
}

func orderKey(orderID string) string {
	return orderKeyPrefix + orderID
}

func amountKey(orderID string) string {
	return orderKeyPrefix + orderID + ":amount"
}

// Start records a freshly created order as initiated, along with the amount
// the gateway will charge for it.
func (t *OrderTracker) Start(ctx context.Context, order *models.Order) error {
	if err := t.client.Set(ctx, amountKey(order.ID), strconv.FormatInt(order.Amount, 10), t.ttl).Err(); err != nil {
		return fmt.Errorf("failed to track order %s: %w", order.ID, err)
	}
	if err := t.client.Set(ctx, orderKey(order.ID), string(models.OrderInitiated), t.ttl).Err(); err != nil {
		return fmt.Errorf("failed to track order %s: %w", order.ID, err)
	}
	return nil
}

// Amount returns the order amount in major units; 0 when the order is unknown.
func (t *OrderTracker) Amount(ctx context.Context, orderID string) (float64, error) {
	v, err := t.client.Get(ctx, amountKey(orderID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read order amount %s: %w", orderID, err)
	}
	paise, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt amount for order %s: %w", orderID, err)
	}
	return float64(paise) / 100, nil
}

// State returns the current state; empty when the order is unknown.
func (t *OrderTracker) State(ctx context.Context, orderID string) (models.OrderState, error) {
	v, err := t.client.Get(ctx, orderKey(orderID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read order %s: %w", orderID, err)
	}
	return models.OrderState(v), nil
}

// Transition moves the order to next when the state machine allows it.
// Unknown orders (expired or created elsewhere) may enter at verifying.
func (t *OrderTracker) Transition(ctx context.Context, orderID string, next models.OrderState) error {
	current, err := t.State(ctx, orderID)
	if err != nil {
		return err
	}
	if !current.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, next)
	}
	ttl := t.ttl
	if current != "" {
		ttl = redis.KeepTTL
	}
	if err := t.client.Set(ctx, orderKey(orderID), string(next), ttl).Err(); err != nil {
		return fmt.Errorf("failed to update order %s: %w", orderID, err)
	}
	return nil
}
