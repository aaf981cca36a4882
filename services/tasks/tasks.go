package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeInvoiceGenerate = "invoice:generate"
	TypePaymentRefund   = "payment:refund"
)

// InvoicePayload names the booking whose invoice should exist.
type InvoicePayload struct {
	BookingID string `json:"bookingId"`
}

// RefundPayload describes a captured payment to give back.
type RefundPayload struct {
	PaymentID string  `json:"paymentId"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
}

// NewInvoiceTask builds the invoice task. The task id is derived from the
// booking so duplicates collapse in the queue.
func NewInvoiceTask(bookingID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(InvoicePayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeInvoiceGenerate, b)
	opts := []asynq.Option{
		asynq.TaskID(TypeInvoiceGenerate + ":" + bookingID),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

// NewRefundTask builds a refund task, one per payment.
func NewRefundTask(p RefundPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePaymentRefund, b)
	opts := []asynq.Option{
		asynq.TaskID(TypePaymentRefund + ":" + p.PaymentID),
		asynq.MaxRetry(10),
		asynq.Queue("critical"),
		asynq.Retention(7 * 24 * time.Hour),
	}
	return task, opts, nil
}

// Enqueuer hands background work to asynq.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) enqueue(ctx context.Context, task *asynq.Task, opts []asynq.Option) error {
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}
	return nil
}

// EnqueueInvoice schedules invoice generation for a booking.
func (e *Enqueuer) EnqueueInvoice(ctx context.Context, bookingID string) error {
	task, opts, err := NewInvoiceTask(bookingID)
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task, opts)
}

// EnqueueRefund schedules a refund of a captured payment.
func (e *Enqueuer) EnqueueRefund(ctx context.Context, paymentID string, amount float64, reason string) error {
	task, opts, err := NewRefundTask(RefundPayload{PaymentID: paymentID, Amount: amount, Reason: reason})
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task, opts)
}
