package validation

import (
	"github.com/ifuapp/ifu/internal/apperr"
)

const (
	MinPasswordLength = 8
	// bcrypt silently truncates anything longer
	MaxPasswordLength = 72
)

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperr.Validation("password must be at least 8 characters")
	}

	if len(password) > MaxPasswordLength {
		return apperr.Validation("password must not exceed 72 bytes")
	}

	return nil
}
