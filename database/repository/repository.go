package repository

import (
	bookingRepo "roame/database/repository/booking"
	listingRepo "roame/database/repository/listing"
	reviewRepo "roame/database/repository/review"
	userRepo "roame/database/repository/user"

	"go.mongodb.org/mongo-driver/mongo"
)

// Re-export the repository interfaces so callers need a single import.
type (
	BookingRepository = bookingRepo.BookingRepository
	ListingRepository = listingRepo.ListingRepository
	ReviewRepository  = reviewRepo.ReviewRepository
	UserRepository    = userRepo.UserRepository
)

// Repositories bundles every collection-backed repository.
type Repositories struct {
	Bookings BookingRepository
	Listings ListingRepository
	Reviews  ReviewRepository
	Users    UserRepository
}

// NewMongoRepositories wires all repositories against one database.
func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Bookings: bookingRepo.NewMongoBookingRepo(db),
		Listings: listingRepo.NewMongoListingRepo(db),
		Reviews:  reviewRepo.NewMongoReviewRepo(db),
		Users:    userRepo.NewMongoUserRepo(db),
	}
}
