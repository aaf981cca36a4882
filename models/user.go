package models

import "time"

// User is a registered account. Any user can book; IsHost flips on with the
// first listing.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name,omitempty" json:"name,omitempty"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	IsHost       bool      `bson:"is_host" json:"is_host"`
	IsVerified   bool      `bson:"is_verified" json:"is_verified"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// DisplayName picks the best name for documents addressed to the user.
func (u *User) DisplayName() string {
	if u == nil {
		return "Guest"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return "Guest"
}
