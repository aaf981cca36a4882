package listing

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrReviewNotFound  = errors.New("review not found")
	// ErrForbidden means the caller does not own the listing or review.
	ErrForbidden = errors.New("you do not have permission to do that")
	// ErrInvalidInput wraps every validation failure; the message is safe to show.
	ErrInvalidInput = errors.New("invalid input")
)
