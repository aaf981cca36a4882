package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roame/models"
	"roame/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	bookingCollection = "bookings"
	nightCollection   = "booking_nights"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	nightColl   *mongo.Collection
	txnAttempts int
}

// NewMongoBookingRepo creates the repository and makes sure its indexes exist.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	repo := newMongoBookingRepo(db)
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("Failed to create booking indexes", zap.Error(err))
	}
	return repo
}

func newMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	return &MongoBookingRepo{
		bookingColl: db.Collection(bookingCollection),
		nightColl:   db.Collection(nightCollection),
		txnAttempts: defaultTxnAttempts,
	}
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.bookingColl.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.bookingColl.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// GetByID retrieves a booking by its id.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return booking, nil
}

// GetByPaymentID retrieves the booking created for a gateway payment.
func (r *MongoBookingRepo) GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	booking, err := r.findOne(ctx, bson.M{"payment_id": paymentID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking for payment %s: %w", paymentID, err)
	}
	return booking, nil
}

// FindByListing returns all bookings of a listing ordered by check-in.
func (r *MongoBookingRepo) FindByListing(ctx context.Context, listingID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}})
	bookings, err := r.find(ctx, bson.M{"listing_id": listingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for listing %s: %w", listingID, err)
	}
	return bookings, nil
}

// FindOverlapping uses the half-open rule: existing.check_in < stay.check_out
// and existing.check_out > stay.check_in.
func (r *MongoBookingRepo) FindOverlapping(ctx context.Context, listingID string, stay models.DateRange) ([]models.Booking, error) {
	filter := bson.M{
		"listing_id": listingID,
		"check_in":   bson.M{"$lt": stay.CheckOut},
		"check_out":  bson.M{"$gt": stay.CheckIn},
	}
	bookings, err := r.find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings for listing %s: %w", listingID, err)
	}
	return bookings, nil
}

// FindByUser returns a guest's bookings, newest first.
func (r *MongoBookingRepo) FindByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	bookings, err := r.find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for user %s: %w", userID, err)
	}
	return bookings, nil
}

// FindByListings returns bookings made on any of the given listings.
func (r *MongoBookingRepo) FindByListings(ctx context.Context, listingIDs []string) ([]models.Booking, error) {
	if len(listingIDs) == 0 {
		return []models.Booking{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	bookings, err := r.find(ctx, bson.M{"listing_id": bson.M{"$in": listingIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings for listings: %w", err)
	}
	return bookings, nil
}

// AttachInvoice only matches bookings whose invoice fields are still unset,
// so concurrent generators cannot overwrite each other.
func (r *MongoBookingRepo) AttachInvoice(ctx context.Context, bookingID, invoiceID, invoiceFile string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": bookingID,
		"$or": bson.A{
			bson.M{"invoice_id": bson.M{"$exists": false}},
			bson.M{"invoice_id": ""},
		},
	}
	update := bson.M{"$set": bson.M{"invoice_id": invoiceID, "invoice_file": invoiceFile}}

	res, err := r.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to attach invoice to booking %s: %w", bookingID, err)
	}
	return res.MatchedCount == 1, nil
}
