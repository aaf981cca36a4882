package payment

import (
	"context"
	"testing"

	"roame/models"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTracker_HappyPath(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	tracker := NewOrderTracker(db)
	ctx := context.Background()

	mockRedis.ExpectSet("order:order_1:amount", "249950", OrderTTL).SetVal("OK")
	mockRedis.ExpectSet("order:order_1", "initiated", OrderTTL).SetVal("OK")
	mockRedis.ExpectGet("order:order_1").SetVal("initiated")
	mockRedis.ExpectSet("order:order_1", "verifying", redis.KeepTTL).SetVal("OK")
	mockRedis.ExpectGet("order:order_1").SetVal("verifying")
	mockRedis.ExpectSet("order:order_1", "confirmed", redis.KeepTTL).SetVal("OK")

	require.NoError(t, tracker.Start(ctx, &models.Order{ID: "order_1", Amount: 249950}))
	require.NoError(t, tracker.Transition(ctx, "order_1", models.OrderVerifying))
	require.NoError(t, tracker.Transition(ctx, "order_1", models.OrderConfirmed))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestOrderTracker_UnknownOrderEntersAtVerifying(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	tracker := NewOrderTracker(db)

	mockRedis.ExpectGet("order:order_2").RedisNil()
	mockRedis.ExpectSet("order:order_2", "verifying", OrderTTL).SetVal("OK")

	require.NoError(t, tracker.Transition(context.Background(), "order_2", models.OrderVerifying))
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestOrderTracker_TerminalStateIsFinal(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	tracker := NewOrderTracker(db)

	mockRedis.ExpectGet("order:order_3").SetVal("confirmed")

	err := tracker.Transition(context.Background(), "order_3", models.OrderRejectedConflict)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestOrderTracker_Amount(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	tracker := NewOrderTracker(db)
	ctx := context.Background()

	mockRedis.ExpectGet("order:order_1:amount").SetVal("249950")
	mockRedis.ExpectGet("order:order_2:amount").RedisNil()

	amount, err := tracker.Amount(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, 2499.5, amount)

	amount, err = tracker.Amount(ctx, "order_2")
	require.NoError(t, err)
	assert.Zero(t, amount)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}
