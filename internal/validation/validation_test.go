package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ifuapp/ifu/internal/apperr"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		ok    bool
	}{
		{"ada@example.com", true},
		{"", false},
		{"not-an-email", false},
		{"Ada <ada@example.com>", false},
		{strings.Repeat("a", 250) + "@x.io", false},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if tt.ok {
			assert.NoError(t, err, tt.email)
		} else {
			assert.ErrorIs(t, err, apperr.ErrValidation, tt.email)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  Ada@Example.COM "))
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("short"), apperr.ErrValidation)
	assert.NoError(t, ValidatePassword("12345678"))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", 72)))
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("x", 73)), apperr.ErrValidation)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ada"))
	assert.Error(t, ValidateName("   "))
	assert.Error(t, ValidateName(strings.Repeat("n", 101)))
}

type sample struct {
	Email    string   `json:"email" validate:"required,email"`
	Text     string   `json:"text" validate:"notblank"`
	Progress *int     `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Tags     []string `json:"tags" validate:"omitempty,len=3"`
}

func TestStruct(t *testing.T) {
	over := 120

	tests := []struct {
		name    string
		req     sample
		wantMsg string
	}{
		{name: "valid", req: sample{Email: "a@b.co", Text: "x"}},
		{name: "missing email", req: sample{Text: "x"}, wantMsg: "email is required"},
		{name: "blank text", req: sample{Email: "a@b.co", Text: "  "}, wantMsg: "text is required"},
		{name: "progress range", req: sample{Email: "a@b.co", Text: "x", Progress: &over}, wantMsg: "progress must be less than or equal to 100"},
		{name: "tags length", req: sample{Email: "a@b.co", Text: "x", Tags: []string{"a"}}, wantMsg: "tags must have exactly 3 items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Equal(t, tt.wantMsg, apperr.Message(err))
		})
	}
}
