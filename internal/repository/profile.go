package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/model"
)

type ProfileRepository interface {
	ByUserID(userID string) (*model.Profile, error)
	Create(profile *model.Profile) error
	Update(profile *model.Profile) error
	Interests(userID string) ([]string, error)
	Authors(userIDs []string) (map[string]model.Author, error)
	WithTx(tx *sqlx.Tx) ProfileRepository
}

// profileRow stores list fields as JSON text columns.
type profileRow struct {
	model.Profile
	InterestsJSON string `db:"interests"`
	GoalsJSON     string `db:"goals"`
}

func (row *profileRow) toModel() (*model.Profile, error) {
	p := row.Profile
	err := decodeStrings(row.InterestsJSON, &p.Interests)
	if err != nil {
		return nil, fmt.Errorf("failed to decode interests: %w", err)
	}
	err = decodeStrings(row.GoalsJSON, &p.Goals)
	if err != nil {
		return nil, fmt.Errorf("failed to decode goals: %w", err)
	}
	return &p, nil
}

func decodeStrings(raw string, dst *[]string) error {
	*dst = []string{}
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	return string(b), err
}

type profileRepository struct {
	db sqlx.Ext
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) WithTx(tx *sqlx.Tx) ProfileRepository {
	return &profileRepository{db: tx}
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	var row profileRow
	err := sqlx.Get(r.db, &row, `SELECT * FROM profiles WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return row.toModel()
}

func (r *profileRepository) Create(profile *model.Profile) error {
	interests, err := encodeStrings(profile.Interests)
	if err != nil {
		return err
	}
	goals, err := encodeStrings(profile.Goals)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO profiles (id, user_id, name, zip_code, gender, timezone, age_group, interests, goals, profile_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, profile.ID, profile.UserID, profile.Name, profile.ZipCode, profile.Gender, profile.Timezone,
		profile.AgeGroup, interests, goals, profile.ProfileCompleted, profile.CreatedAt, profile.UpdatedAt)

	return err
}

func (r *profileRepository) Update(profile *model.Profile) error {
	interests, err := encodeStrings(profile.Interests)
	if err != nil {
		return err
	}
	goals, err := encodeStrings(profile.Goals)
	if err != nil {
		return err
	}

	result, err := r.db.Exec(`
		UPDATE profiles
		SET name = $1, zip_code = $2, gender = $3, timezone = $4, age_group = $5,
		    interests = $6, goals = $7, profile_completed = $8, updated_at = $9
		WHERE user_id = $10
	`, profile.Name, profile.ZipCode, profile.Gender, profile.Timezone, profile.AgeGroup,
		interests, goals, profile.ProfileCompleted, profile.UpdatedAt, profile.UserID)
	if err != nil {
		return err
	}

	return rowsAffected(result, ErrProfileNotFound)
}

// Interests returns the user's declared interests, or none when the user has
// no profile.
func (r *profileRepository) Interests(userID string) ([]string, error) {
	var raw string
	err := sqlx.Get(r.db, &raw, `SELECT interests FROM profiles WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var interests []string
	err = decodeStrings(raw, &interests)
	if err != nil {
		return nil, fmt.Errorf("failed to decode interests: %w", err)
	}
	return interests, nil
}

// Authors loads display names for userIDs. Users without a profile are
// returned with an empty name.
func (r *profileRepository) Authors(userIDs []string) (map[string]model.Author, error) {
	authors := make(map[string]model.Author, len(userIDs))
	if len(userIDs) == 0 {
		return authors, nil
	}

	query, args, err := sqlx.In(`
		SELECT u.id AS id, COALESCE(p.name, '') AS name
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.id IN (?)
	`, userIDs)
	if err != nil {
		return nil, err
	}

	var rows []model.Author
	err = sqlx.Select(r.db, &rows, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	for _, a := range rows {
		authors[a.ID] = a
	}
	return authors, nil
}
