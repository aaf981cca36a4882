package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"roame/config"
	"roame/models"
	"roame/services/tasks"
	"roame/utils"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InvoiceEnsurer generates a booking invoice if it does not exist yet.
type InvoiceEnsurer interface {
	EnsureInvoice(ctx context.Context, bookingID string) (*models.InvoiceRef, error)
}

// Refunder gives a captured payment back.
type Refunder interface {
	Refund(ctx context.Context, paymentID string, amount float64) (string, error)
}

// QueueRedisOpt is the asynq connection for the configured queue database.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewServeMux routes task types to their handlers.
func NewServeMux(invoices InvoiceEnsurer, refunder Refunder) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeInvoiceGenerate, handleInvoiceTask(invoices))
	mux.HandleFunc(tasks.TypePaymentRefund, handleRefundTask(refunder))
	return mux
}

// InitTaskWorker runs the async worker in background and returns the
// server so the caller can shut it down.
func InitTaskWorker(invoices InvoiceEnsurer, refunder Refunder) *asynq.Server {
	logger := utils.GetLogger()
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
			},
			Logger:   logger.Sugar(),
			LogLevel: asynq.InfoLevel,
		},
	)

	mux := NewServeMux(invoices, refunder)

	go monitorRedisConnection()

	go func() {
		logger.Info("Starting task worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("Task worker failed to start",
					zap.Int("attempt", attempts),
					zap.Int("maxAttempts", maxAttempts),
					zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("Task worker: max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
	return srv
}

func handleInvoiceTask(invoices InvoiceEnsurer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.InvoicePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil || p.BookingID == "" {
			utils.GetLogger().Error("Invalid invoice task payload", zap.ByteString("payload", task.Payload()))
			return fmt.Errorf("invalid invoice payload: %w", asynq.SkipRetry)
		}

		ref, err := invoices.EnsureInvoice(ctx, p.BookingID)
		if err != nil {
			utils.GetLogger().Warn("Invoice generation failed", zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		utils.GetLogger().Info("Invoice ready", zap.String("bookingId", p.BookingID), zap.String("invoiceId", ref.InvoiceID))
		return nil
	}
}

func handleRefundTask(refunder Refunder) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.RefundPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil || p.PaymentID == "" || p.Amount <= 0 {
			utils.GetLogger().Error("Invalid refund task payload", zap.ByteString("payload", task.Payload()))
			return fmt.Errorf("invalid refund payload: %w", asynq.SkipRetry)
		}
		if refunder == nil {
			return fmt.Errorf("no payment gateway configured for refunds: %w", asynq.SkipRetry)
		}

		refundID, err := refunder.Refund(ctx, p.PaymentID, p.Amount)
		if err != nil {
			utils.GetLogger().Error("Refund failed",
				zap.String("paymentId", p.PaymentID),
				zap.Float64("amount", p.Amount),
				zap.Error(err))
			return err
		}
		utils.GetLogger().Info("Payment refunded",
			zap.String("paymentId", p.PaymentID),
			zap.String("refundId", refundID),
			zap.String("reason", p.Reason))
		return nil
	}
}

// monitorRedisConnection pings the queue database to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()
	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("Task queue Redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
