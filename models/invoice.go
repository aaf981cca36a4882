package models

// InvoiceData is everything printed on a booking invoice.
type InvoiceData struct {
	InvoiceID    string  `json:"invoiceId"`
	BookingID    string  `json:"bookingId"`
	CustomerName string  `json:"customerName"`
	ListingTitle string  `json:"listingTitle"`
	Date         string  `json:"date"` // issue date, YYYY-MM-DD
	From         string  `json:"from"`
	To           string  `json:"to"`
	Nights       int     `json:"nights"`
	Guests       int     `json:"guests"`
	BaseAmount   float64 `json:"baseAmount"`
	GST          float64 `json:"gst"`
	TotalAmount  float64 `json:"totalAmount"`
}

// InvoiceRef points at a stored invoice document.
type InvoiceRef struct {
	InvoiceID string `json:"invoiceId"`
	URL       string `json:"invoiceUrl"`
}

// BookingConfirmation is returned once a paid booking is settled.
type BookingConfirmation struct {
	Booking Booking     `json:"booking"`
	Listing *Listing    `json:"listing,omitempty"`
	Invoice *InvoiceRef `json:"invoice,omitempty"`
}
