package validation

import (
	"strings"

	"github.com/ifuapp/ifu/internal/apperr"
)

// ValidateName validates profile name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return apperr.Validation("name is required")
	}

	if len(trimmed) > 100 {
		return apperr.Validation("name is too long (max 100 characters)")
	}

	return nil
}
