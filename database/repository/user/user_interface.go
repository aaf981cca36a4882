package userRepo

import (
	"context"

	"roame/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID, or nil.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by email address, or nil.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByUsername retrieves a user by username, or nil.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// SetHost marks the user as a host.
	SetHost(ctx context.Context, id string) error
}
