package user

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNoPendingSignup    = errors.New("no OTP request found for this email")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// InputError reports a signup field the user has to fix.
type InputError struct {
	Message string
}

func (e InputError) Error() string {
	return e.Message
}
