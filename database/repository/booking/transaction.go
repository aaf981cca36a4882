package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roame/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver"
)

// writeConflictCode is what MongoDB reports when two transactions write
// the same document or index key concurrently.
const writeConflictCode = 112

// defaultTxnAttempts bounds retries of transient transaction failures.
const defaultTxnAttempts = 3

func isTransient(err error) bool {
	var labeled mongo.LabeledError
	return errors.As(err, &labeled) && labeled.HasErrorLabel(driver.TransientTransactionError)
}

// nightTaken reports whether err means another booking holds one of the
// nights: a duplicate key on the nights index, or a write conflict that
// outlived the retries.
func nightTaken(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == writeConflictCode
}

func nightDocs(booking *models.Booking) []interface{} {
	nights := booking.Stay().Nights()
	docs := make([]interface{}, 0, len(nights))
	for _, n := range nights {
		docs = append(docs, models.BookingNight{
			ListingID: booking.ListingID,
			Night:     n,
			BookingID: booking.ID,
		})
	}
	return docs
}

// CreateSettled inserts the booking and one booking_nights document per
// occupied night in a single transaction. A duplicate key on the nights
// index aborts everything and surfaces as ErrNightTaken. Transient failures
// are retried a few times.
func (r *MongoBookingRepo) CreateSettled(ctx context.Context, booking *models.Booking) error {
	docs := nightDocs(booking)
	if len(docs) == 0 {
		return fmt.Errorf("booking %s covers no nights", booking.ID)
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.nightColl.InsertMany(sc, docs); err != nil {
			return err
		}
		if _, err := r.bookingColl.InsertOne(sc, booking); err != nil {
			return err
		}
		return nil
	}

	attempts := r.txnAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; ; attempt++ {
		err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
			if err := sc.StartTransaction(); err != nil {
				return err
			}
			if err := txnFn(sc); err != nil {
				_ = sc.AbortTransaction(sc)
				return err
			}
			return sc.CommitTransaction(sc)
		})
		// a retry after a write conflict sees the winner's nights as duplicates
		if !isTransient(err) || attempt >= attempts || ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		if nightTaken(err) {
			return ErrNightTaken
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}
