package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	notFound := NotFound("goal not found")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", Validation("text is required"), http.StatusBadRequest},
		{"not found", notFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("toggle: %w", notFound), http.StatusNotFound},
		{"conflict", Conflict("email taken", errors.New("unique")), http.StatusConflict},
		{"plain", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestErrorsIsMatchesKindAndValue(t *testing.T) {
	errGoalNotFound := NotFound("goal not found")
	wrapped := fmt.Errorf("update weekly goal: %w", errGoalNotFound)

	assert.ErrorIs(t, wrapped, errGoalNotFound)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrValidation)
}

func TestConflictKeepsCause(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: users.email")
	err := Conflict("email already exists", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "email already exists", Message(err))
}

func TestMessageHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "Server error", Message(errors.New("pq: connection refused")))
	assert.Equal(t, "text is required", Message(fmt.Errorf("create: %w", Validation("text is required"))))
}
