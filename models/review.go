package models

import "time"

// Review is a guest rating attached to a listing.
type Review struct {
	ID        string    `bson:"id" json:"id"`
	ListingID string    `bson:"listing_id" json:"listing_id"`
	AuthorID  string    `bson:"author_id" json:"author_id"`
	Rating    int       `bson:"rating" json:"rating"` // 1..5
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
