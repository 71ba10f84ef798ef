package validation

import (
	"net/mail"
	"strings"

	"github.com/ifuapp/ifu/internal/apperr"
)

// NormalizeEmail trims and lowercases an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates email format and length (RFC 5322 via net/mail).
func ValidateEmail(email string) error {
	if email == "" {
		return apperr.Validation("email address is required")
	}

	// RFC 5321: max 254 characters including the @
	if len(email) > 254 {
		return apperr.Validation("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperr.Validation("invalid email address format")
	}

	return nil
}
