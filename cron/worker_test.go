package cron

import (
	"context"
	"errors"
	"testing"

	"roame/models"
	"roame/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInvoices struct{ mock.Mock }

func (m *mockInvoices) EnsureInvoice(ctx context.Context, bookingID string) (*models.InvoiceRef, error) {
	args := m.Called(ctx, bookingID)
	ref, _ := args.Get(0).(*models.InvoiceRef)
	return ref, args.Error(1)
}

type mockRefunder struct{ mock.Mock }

func (m *mockRefunder) Refund(ctx context.Context, paymentID string, amount float64) (string, error) {
	args := m.Called(ctx, paymentID, amount)
	return args.String(0), args.Error(1)
}

func TestHandleInvoiceTask(t *testing.T) {
	inv := new(mockInvoices)
	inv.On("EnsureInvoice", mock.Anything, "b1").Return(&models.InvoiceRef{InvoiceID: "INV-0000B1"}, nil).Once()

	task, _, err := tasks.NewInvoiceTask("b1")
	require.NoError(t, err)
	require.NoError(t, handleInvoiceTask(inv)(context.Background(), task))
	inv.AssertExpectations(t)
}

func TestHandleInvoiceTask_FailureRetries(t *testing.T) {
	inv := new(mockInvoices)
	inv.On("EnsureInvoice", mock.Anything, "b1").Return(nil, errors.New("storage down"))

	task, _, _ := tasks.NewInvoiceTask("b1")
	err := handleInvoiceTask(inv)(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleInvoiceTask_BadPayload(t *testing.T) {
	err := handleInvoiceTask(new(mockInvoices))(context.Background(), asynq.NewTask(tasks.TypeInvoiceGenerate, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleRefundTask(t *testing.T) {
	ref := new(mockRefunder)
	ref.On("Refund", mock.Anything, "pay_1", 4500.0).Return("rfnd_1", nil).Once()

	task, _, err := tasks.NewRefundTask(tasks.RefundPayload{PaymentID: "pay_1", Amount: 4500, Reason: "booking conflict"})
	require.NoError(t, err)
	require.NoError(t, handleRefundTask(ref)(context.Background(), task))
	ref.AssertExpectations(t)
}

func TestHandleRefundTask_NoGateway(t *testing.T) {
	task, _, _ := tasks.NewRefundTask(tasks.RefundPayload{PaymentID: "pay_1", Amount: 10})
	err := handleRefundTask(nil)(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
