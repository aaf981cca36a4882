package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "roame/database/repository/user"
	"roame/models"
	"roame/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Signup checks that the account is free, parks it with a fresh OTP and
// mails the code. The user record is created by VerifyOTP.
func (s *DefaultUserService) Signup(ctx context.Context, req SignupRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := validateSignup(req); err != nil {
		return err
	}

	existing, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.Logger.Error("Signup: failed to check for existing user", zap.Error(err))
		return fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return ErrEmailTaken
	}
	if existing, err = s.Repo.GetByUsername(ctx, req.Username); err != nil {
		s.Logger.Error("Signup: failed to check username", zap.Error(err))
		return fmt.Errorf("registration failed, please try again")
	} else if existing != nil {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.Logger.Error("Signup: failed to hash password", zap.Error(err))
		return fmt.Errorf("registration failed, please try again")
	}

	return s.issueOTP(ctx, utils.PendingSignup{
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	})
}

// ResendOTP replaces the pending code with a new one and restarts its expiry.
func (s *DefaultUserService) ResendOTP(ctx context.Context, email string) error {
	pending, err := s.OTP.Get(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, utils.ErrOTPNotFound) {
			return ErrNoPendingSignup
		}
		return fmt.Errorf("ResendOTP: %w", err)
	}
	return s.issueOTP(ctx, *pending)
}

func (s *DefaultUserService) issueOTP(ctx context.Context, pending utils.PendingSignup) error {
	code, err := s.newOTP()
	if err != nil {
		return err
	}
	pending.OTP = code
	pending.CreatedAt = time.Now().UTC()
	if err := s.OTP.Save(ctx, pending); err != nil {
		return fmt.Errorf("failed to save OTP: %w", err)
	}
	if err := s.Sender.SendOTP(ctx, pending.Email, code, s.OTP.TTL()); err != nil {
		return fmt.Errorf("failed to send OTP: %w", err)
	}
	s.Logger.Info("OTP issued", zap.String("email", pending.Email))
	return nil
}

// VerifyOTP creates the verified account and logs the user in.
func (s *DefaultUserService) VerifyOTP(ctx context.Context, email, otp string) (*AuthResponse, error) {
	email = normalizeEmail(email)
	pending, err := s.OTP.Get(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrOTPNotFound) {
			return nil, ErrNoPendingSignup
		}
		return nil, fmt.Errorf("VerifyOTP: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(pending.OTP), []byte(strings.TrimSpace(otp))) != 1 {
		return nil, ErrInvalidOTP
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Username:     pending.Username,
		Email:        pending.Email,
		Name:         pending.Name,
		PasswordHash: pending.PasswordHash,
		IsVerified:   true,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, userRepo.ErrDuplicateUser) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("VerifyOTP: %w", err)
	}
	if err := s.OTP.Delete(ctx, email); err != nil {
		s.Logger.Warn("Failed to clear pending signup", zap.String("email", email), zap.Error(err))
	}

	s.Logger.Info("User registered", zap.String("userId", u.ID))
	return authResponse(u)
}

func authResponse(u *models.User) (*AuthResponse, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, utils.SessionDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{
		ID:       u.ID,
		Token:    token,
		Username: u.Username,
		Email:    u.Email,
		IsHost:   u.IsHost,
	}, nil
}
