package user

import (
	"context"
	"time"

	bookingRepo "roame/database/repository/booking"
	listingRepo "roame/database/repository/listing"
	userRepo "roame/database/repository/user"
	"roame/models"
	"roame/utils"

	"go.uber.org/zap"
)

type UserService interface {
	// Registration
	Signup(ctx context.Context, req SignupRequest) error
	VerifyOTP(ctx context.Context, email, otp string) (*AuthResponse, error)
	ResendOTP(ctx context.Context, email string) error

	// Authentication
	Login(ctx context.Context, username, password string) (*AuthResponse, error)

	// User Management
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}

// OTPStore holds signups waiting for email confirmation.
type OTPStore interface {
	Save(ctx context.Context, p utils.PendingSignup) error
	Get(ctx context.Context, email string) (*utils.PendingSignup, error)
	Delete(ctx context.Context, email string) error
	TTL() time.Duration
}

// OTPSender delivers verification codes.
type OTPSender interface {
	SendOTP(ctx context.Context, email, otp string, ttl time.Duration) error
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Listings listingRepo.ListingRepository
	Bookings bookingRepo.BookingRepository
	OTP      OTPStore
	Sender   OTPSender
	Logger   *zap.Logger

	newOTP func() (string, error)
}

func NewUserService(
	repo userRepo.UserRepository,
	listings listingRepo.ListingRepository,
	bookings bookingRepo.BookingRepository,
	otp OTPStore,
	sender OTPSender,
	logger *zap.Logger,
) *DefaultUserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultUserService{
		Repo:     repo,
		Listings: listings,
		Bookings: bookings,
		OTP:      otp,
		Sender:   sender,
		Logger:   logger,
		newOTP:   utils.GenerateNumericOTP,
	}
}

// SignupRequest is what a visitor submits to open an account.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

// AuthResponse contains the user's ID, token, and additional details.
type AuthResponse struct {
	ID       string `json:"id"`
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	IsHost   bool   `json:"isHost"`
}

// BookingView is a booking with the listing it is for and, for hosts, the guest.
type BookingView struct {
	models.Booking
	Listing *models.Listing `json:"listing"`
	Guest   *GuestView      `json:"guest,omitempty"`
}

// GuestView is the part of a guest account a host may see.
type GuestView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
}

// Dashboard collects a user's trips and, for hosts, their listings and guests.
type Dashboard struct {
	User                   *models.User     `json:"user"`
	UserBookings           []BookingView    `json:"userBookings"`
	HostListings           []models.Listing `json:"hostListings"`
	BookingsOnHostListings []BookingView    `json:"bookingsOnHostListings"`
}
