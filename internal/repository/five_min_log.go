package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/model"
)

type FiveMinLogRepository interface {
	Create(log *model.FiveMinLog) error
	ByUser(userID string) ([]*model.FiveMinLog, error)
}

type fiveMinLogRepository struct {
	db *sqlx.DB
}

func NewFiveMinLogRepository(db *sqlx.DB) FiveMinLogRepository {
	return &fiveMinLogRepository{db: db}
}

func (r *fiveMinLogRepository) Create(l *model.FiveMinLog) error {
	query := `INSERT INTO five_min_logs (id, user_id, activity_key, title, date, completed_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, l.ID, l.UserID, l.ActivityKey, l.Title, l.Date, l.CompletedAt)
	return err
}

func (r *fiveMinLogRepository) ByUser(userID string) ([]*model.FiveMinLog, error) {
	logs := []*model.FiveMinLog{}
	err := r.db.Select(&logs, `SELECT * FROM five_min_logs WHERE user_id = $1 ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return logs, nil
}
