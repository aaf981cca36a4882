package user

import (
	"context"
	"fmt"
	"strings"

	"roame/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates with username and password.
func (s *DefaultUserService) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	userRec, err := s.Repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		s.Logger.Error("Login: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if userRec == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return authResponse(userRec)
}

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
