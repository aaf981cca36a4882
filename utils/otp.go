package utils

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingSignupPrefix = "signup:"

// ErrOTPNotFound means no pending signup exists for the email or it expired.
var ErrOTPNotFound = errors.New("OTP not found or expired")

// PendingSignup is what a user submitted at signup, held until the OTP is confirmed.
type PendingSignup struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	OTP          string    `json:"otp"`
	CreatedAt    time.Time `json:"createdAt"`
}

// GenerateNumericOTP returns a uniformly random six digit code in 100000..999999.
func GenerateNumericOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// OTPStore keeps pending signups in Redis under an expiring key per email.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOTPStore(client *redis.Client, ttl time.Duration) *OTPStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OTPStore{client: client, ttl: ttl}
}

func pendingSignupKey(email string) string {
	return pendingSignupPrefix + strings.ToLower(strings.TrimSpace(email))
}

// TTL reports how long a stored code stays valid.
func (s *OTPStore) TTL() time.Duration {
	return s.ttl
}

// Save stores (or replaces) the pending signup and restarts its expiry.
func (s *OTPStore) Save(ctx context.Context, p PendingSignup) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal pending signup: %w", err)
	}
	if err := s.client.Set(ctx, pendingSignupKey(p.Email), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save pending signup: %w", err)
	}
	return nil
}

// Get returns the pending signup for the email, or ErrOTPNotFound.
func (s *OTPStore) Get(ctx context.Context, email string) (*PendingSignup, error) {
	data, err := s.client.Get(ctx, pendingSignupKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to retrieve pending signup: %w", err)
	}
	var p PendingSignup
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending signup: %w", err)
	}
	return &p, nil
}

// Delete removes the pending signup once it has been consumed.
func (s *OTPStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, pendingSignupKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending signup: %w", err)
	}
	return nil
}
