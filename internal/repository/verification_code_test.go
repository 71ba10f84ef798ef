package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifuapp/ifu/internal/model"
)

func newCode(email, code string, expires time.Time) *model.VerificationCode {
	return &model.VerificationCode{
		ID:        uuid.NewString(),
		Email:     email,
		Code:      code,
		ExpiresAt: expires,
		CreatedAt: base,
	}
}

func TestVerificationCodeFlow(t *testing.T) {
	conn := newDB(t)
	repo := NewVerificationCodeRepository(conn)

	require.NoError(t, repo.Create(newCode("ada@example.com", "1234", base.Add(10*time.Minute))))

	_, err := repo.Verified("ada@example.com")
	assert.ErrorIs(t, err, ErrCodeNotVerified)

	assert.ErrorIs(t, repo.MarkVerified("ada@example.com", "9999", base), ErrCodeInvalid)
	assert.ErrorIs(t, repo.MarkVerified("ada@example.com", "1234", base.Add(11*time.Minute)), ErrCodeInvalid)

	require.NoError(t, repo.MarkVerified("ada@example.com", "1234", base.Add(time.Minute)))

	verified, err := repo.Verified("ada@example.com")
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	require.NoError(t, repo.DeleteByEmail("ada@example.com"))
	_, err = repo.Verified("ada@example.com")
	assert.ErrorIs(t, err, ErrCodeNotVerified)
}

func TestVerificationCodeCleanupExpired(t *testing.T) {
	conn := newDB(t)
	repo := NewVerificationCodeRepository(conn)

	require.NoError(t, repo.Create(newCode("old@example.com", "1111", base.Add(-time.Minute))))
	require.NoError(t, repo.Create(newCode("new@example.com", "2222", base.Add(time.Minute))))

	removed, err := repo.CleanupExpired(base)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	require.NoError(t, repo.MarkVerified("new@example.com", "2222", base))
}
