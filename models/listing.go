package models

import "time"

// Allowed values for Listing.PlaceType.
const (
	PlaceEntire  = "Entire place"
	PlacePrivate = "Private room"
	PlaceShared  = "Shared room"
)

// GeoPoint is a GeoJSON point; Coordinates are [lng, lat].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Image references an uploaded listing photo.
type Image struct {
	URL      string `bson:"url" json:"url"`
	Filename string `bson:"filename" json:"filename"`
}

// Listing is a rentable property published by a host.
type Listing struct {
	ID        string    `bson:"id" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	OwnerName string    `bson:"owner_name" json:"owner_name"`
	DOB       time.Time `bson:"dob" json:"dob"`
	Contact   string    `bson:"contact" json:"contact"` // 10 digit phone number

	Category      []string `bson:"category" json:"category"`
	PlaceType     string   `bson:"place_type" json:"place_type"`
	ManualAddress string   `bson:"manual_address,omitempty" json:"manual_address,omitempty"`
	Location      string   `bson:"location" json:"location"` // formatted address
	Geometry      GeoPoint `bson:"geometry" json:"geometry"`

	Guests    int `bson:"guests" json:"guests"`
	Bedrooms  int `bson:"bedrooms" json:"bedrooms"`
	Beds      int `bson:"beds" json:"beds"`
	Bathrooms int `bson:"bathrooms" json:"bathrooms"`

	Image              Image    `bson:"image" json:"image"`
	Title              string   `bson:"title" json:"title"`
	Description        string   `bson:"description" json:"description"`
	Price              float64  `bson:"price" json:"price"` // per night
	ResidentialAddress string   `bson:"residential_address" json:"residential_address"`
	Reviews            []string `bson:"reviews" json:"reviews"` // review ids, oldest first

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ListingEdit carries the fields a host may change after publishing.
// Address, location and geometry are fixed once a listing exists.
type ListingEdit struct {
	OwnerName   string    `bson:"owner_name" json:"owner_name"`
	DOB         time.Time `bson:"dob" json:"dob"`
	Contact     string    `bson:"contact" json:"contact"`
	Category    []string  `bson:"category" json:"category"`
	PlaceType   string    `bson:"place_type" json:"place_type"`
	Guests      int       `bson:"guests" json:"guests"`
	Bedrooms    int       `bson:"bedrooms" json:"bedrooms"`
	Beds        int       `bson:"beds" json:"beds"`
	Bathrooms   int       `bson:"bathrooms" json:"bathrooms"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Price       float64   `bson:"price" json:"price"`
	Image       *Image    `bson:"image,omitempty" json:"image,omitempty"`
}
