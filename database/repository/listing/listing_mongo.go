package listingRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"roame/models"
	"roame/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoListingRepo implements ListingRepository using MongoDB.
type MongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo creates the repository and its indexes.
func NewMongoListingRepo(db *mongo.Database) ListingRepository {
	repo := &MongoListingRepo{coll: db.Collection("listings")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("Failed to create listing indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoListingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "geometry", Value: "2dsphere"}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new listing document.
func (r *MongoListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if listing.Reviews == nil {
		listing.Reviews = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// GetByID retrieves a listing by its id.
func (r *MongoListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var listing models.Listing
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch listing %s: %w", id, err)
	}
	return &listing, nil
}

func (r *MongoListingRepo) find(ctx context.Context, filter bson.M) ([]models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	listings := []models.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

// Find returns listings in category (any when empty) whose text fields
// match every word of q, case-insensitively.
func (r *MongoListingRepo) Find(ctx context.Context, q, category string) ([]models.Listing, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	var and bson.A
	for _, term := range strings.Fields(q) {
		re := bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"location": re},
			bson.M{"category": re},
		}})
	}
	if len(and) > 0 {
		filter["$and"] = and
	}
	listings, err := r.find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}

// FindByIDs returns the listings with the given ids.
func (r *MongoListingRepo) FindByIDs(ctx context.Context, ids []string) ([]models.Listing, error) {
	if len(ids) == 0 {
		return []models.Listing{}, nil
	}
	listings, err := r.find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings by id: %w", err)
	}
	return listings, nil
}

// FindByOwner returns a host's listings.
func (r *MongoListingRepo) FindByOwner(ctx context.Context, ownerID string) ([]models.Listing, error) {
	listings, err := r.find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings for owner %s: %w", ownerID, err)
	}
	return listings, nil
}

// UpdateEditable never touches geometry, location or the address fields.
func (r *MongoListingRepo) UpdateEditable(ctx context.Context, id string, edit models.ListingEdit) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"owner_name":  edit.OwnerName,
		"dob":         edit.DOB,
		"contact":     edit.Contact,
		"category":    edit.Category,
		"place_type":  edit.PlaceType,
		"guests":      edit.Guests,
		"bedrooms":    edit.Bedrooms,
		"beds":        edit.Beds,
		"bathrooms":   edit.Bathrooms,
		"title":       edit.Title,
		"description": edit.Description,
		"price":       edit.Price,
		"updated_at":  time.Now().UTC(),
	}
	if edit.Image != nil {
		set["image"] = edit.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Listing
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update listing %s: %w", id, err)
	}
	return &updated, nil
}

// Delete removes a listing and hands back the deleted document.
func (r *MongoListingRepo) Delete(ctx context.Context, id string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var deleted models.Listing
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&deleted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete listing %s: %w", id, err)
	}
	return &deleted, nil
}

// PushReview appends a review id, keeping insertion order.
func (r *MongoListingRepo) PushReview(ctx context.Context, listingID, reviewID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": listingID}, bson.M{"$push": bson.M{"reviews": reviewID}})
	if err != nil {
		return fmt.Errorf("failed to add review to listing %s: %w", listingID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("listing with id %s not found", listingID)
	}
	return nil
}

// PullReview removes a review id from the listing.
func (r *MongoListingRepo) PullReview(ctx context.Context, listingID, reviewID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": listingID}, bson.M{"$pull": bson.M{"reviews": reviewID}}); err != nil {
		return fmt.Errorf("failed to remove review from listing %s: %w", listingID, err)
	}
	return nil
}
