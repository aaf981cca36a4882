package models

import "time"

// Booking is a paid reservation of a listing for a half-open date range.
type Booking struct {
	ID          string    `bson:"id" json:"id"`
	ListingID   string    `bson:"listing_id" json:"listing_id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	CheckIn     time.Time `bson:"check_in" json:"check_in"`   // UTC midnight, first night
	CheckOut    time.Time `bson:"check_out" json:"check_out"` // UTC midnight, departure day (not occupied)
	Guests      int       `bson:"guests" json:"guests"`
	TotalPrice  float64   `bson:"total_price" json:"total_price"`
	OrderID     string    `bson:"order_id" json:"order_id"`
	PaymentID   string    `bson:"payment_id" json:"payment_id"`
	InvoiceID   string    `bson:"invoice_id,omitempty" json:"invoice_id,omitempty"`
	InvoiceFile string    `bson:"invoice_file,omitempty" json:"invoice_file,omitempty"` // URL of the stored PDF
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Stay returns the booked date range.
func (b Booking) Stay() DateRange {
	return DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// HasInvoice reports whether an invoice has been attached.
func (b Booking) HasInvoice() bool {
	return b.InvoiceID != "" && b.InvoiceFile != ""
}

// BookingNight marks one occupied night. A unique index on
// (listing_id, night) is what keeps two bookings from sharing a night.
type BookingNight struct {
	ListingID string    `bson:"listing_id"`
	Night     time.Time `bson:"night"`
	BookingID string    `bson:"booking_id"`
}
