package model

import (
	"time"
)

// VerificationCode is a one-time code mailed during signup or password reset.
type VerificationCode struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Code      string    `db:"code"`
	Verified  bool      `db:"verified"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

const (
	CodePurposeSignup        = "signup"
	CodePurposePasswordReset = "password_reset"
)

func (c *VerificationCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
