// Package admin implements administrator accounts and the passcode login
// flow: password check, one-time passcode by mail, then an access token.
package admin

import (
	"errors"
	"time"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("admin not found")
	ErrExists             = errors.New("admin already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
)

// Admin is an administrator account. Secrets never serialize to JSON.
type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"isActive"`
	IsVerified   bool      `json:"isVerified"`
	OTPHash      string    `json:"-"`
	OTPExpiresAt time.Time `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasPendingOTP reports whether a passcode was issued and is still valid at now.
func (a *Admin) HasPendingOTP(now time.Time) bool {
	return a.OTPHash != "" && now.Before(a.OTPExpiresAt)
}
