package handlers

import (
	userRepoPkg "roame/database/repository/user"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	UserRepo userRepoPkg.UserRepository

	Payment *PaymentHandler
	Booking *BookingHandler
	Listing *ListingHandler
	User    *UserHandler

	// Local invoice directory served under /invoices; empty when invoices
	// live in remote storage.
	InvoiceDir string
	// Local listing photo directory served under /uploads, if any.
	UploadDir string
}
