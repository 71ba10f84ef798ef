package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/model"
)

var (
	ErrCodeInvalid     = apperr.Validation("invalid or expired code")
	ErrCodeNotVerified = apperr.Validation("email has not been verified")
)

type VerificationCodeRepository interface {
	Create(code *model.VerificationCode) error
	DeleteByEmail(email string) error
	MarkVerified(email, code string, now time.Time) error
	Verified(email string) (*model.VerificationCode, error)
	CleanupExpired(now time.Time) (int64, error)
	WithTx(tx *sqlx.Tx) VerificationCodeRepository
}

type verificationCodeRepository struct {
	db sqlx.Ext
}

func NewVerificationCodeRepository(db *sqlx.DB) VerificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

func (r *verificationCodeRepository) WithTx(tx *sqlx.Tx) VerificationCodeRepository {
	return &verificationCodeRepository{db: tx}
}

func (r *verificationCodeRepository) Create(code *model.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (id, email, code, verified, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query,
		code.ID,
		code.Email,
		code.Code,
		code.Verified,
		code.ExpiresAt,
		code.CreatedAt,
	)
	return err
}

func (r *verificationCodeRepository) DeleteByEmail(email string) error {
	_, err := r.db.Exec(`DELETE FROM verification_codes WHERE email = $1`, email)
	return err
}

// MarkVerified flags every code for email as verified, provided code matches
// an unexpired one. The check and the update are a single statement, so two
// concurrent requests cannot both observe an unverified state.
func (r *verificationCodeRepository) MarkVerified(email, code string, now time.Time) error {
	query := `
		UPDATE verification_codes
		SET verified = TRUE
		WHERE email = $1
		AND EXISTS (
			SELECT 1 FROM verification_codes c
			WHERE c.email = $1 AND c.code = $2 AND c.expires_at > $3
		)
	`
	result, err := r.db.Exec(query, email, code, now)
	if err != nil {
		return err
	}
	return rowsAffected(result, ErrCodeInvalid)
}

func (r *verificationCodeRepository) Verified(email string) (*model.VerificationCode, error) {
	var c model.VerificationCode
	query := `
		SELECT * FROM verification_codes
		WHERE email = $1 AND verified = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	err := sqlx.Get(r.db, &c, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCodeNotVerified
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CleanupExpired removes codes whose expiry has passed, verified or not.
func (r *verificationCodeRepository) CleanupExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM verification_codes WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
