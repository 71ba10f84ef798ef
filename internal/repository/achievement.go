package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/model"
)

var (
	ErrAchievementNotFound = apperr.NotFound("achievement not found")
)

type AchievementRepository interface {
	Create(a *model.Achievement) error
	ByUser(userID string) ([]*model.Achievement, error)
	Delete(userID, achievementID string) error
}

type achievementRepository struct {
	db *sqlx.DB
}

func NewAchievementRepository(db *sqlx.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Create(a *model.Achievement) error {
	query := `INSERT INTO achievements (id, user_id, achievement_text, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, a.ID, a.UserID, a.Text, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *achievementRepository) ByUser(userID string) ([]*model.Achievement, error) {
	achievements := []*model.Achievement{}
	err := r.db.Select(&achievements, `SELECT * FROM achievements WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *achievementRepository) Delete(userID, achievementID string) error {
	result, err := r.db.Exec(`DELETE FROM achievements WHERE id = $1 AND user_id = $2`, achievementID, userID)
	if err != nil {
		return err
	}
	return rowsAffected(result, ErrAchievementNotFound)
}
