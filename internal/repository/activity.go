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
	ErrActivityNotFound = apperr.NotFound("activity not found")
)

type ActivityRepository interface {
	Create(activity *model.Activity) error
	Latest(userID, activityKey, title string) (*model.Activity, error)
	UpdateFeedback(activity *model.Activity) error
	Between(userID string, from, to time.Time) ([]*model.Activity, error)
	History(userID string, limit int) ([]*model.Activity, error)
}

type activityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(a *model.Activity) error {
	query := `INSERT INTO activities (id, user_id, activity_key, title, response, feedback_type, feedback_value, feedback_emoji, feedback_label, date, completed_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		a.ID,
		a.UserID,
		a.ActivityKey,
		a.Title,
		a.Response,
		a.FeedbackType,
		a.FeedbackValue,
		a.FeedbackEmoji,
		a.FeedbackLabel,
		a.Date,
		a.CompletedAt,
	)
	return err
}

// Latest returns the most recently completed matching activity.
func (r *activityRepository) Latest(userID, activityKey, title string) (*model.Activity, error) {
	a := &model.Activity{}
	query := `SELECT * FROM activities
	          WHERE user_id = $1 AND activity_key = $2 AND title = $3
	          ORDER BY completed_at DESC LIMIT 1`

	err := r.db.Get(a, query, userID, activityKey, title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	a.FillFeedback()
	return a, nil
}

func (r *activityRepository) UpdateFeedback(a *model.Activity) error {
	query := `UPDATE activities
	          SET feedback_type = $1, feedback_value = $2, feedback_emoji = $3, feedback_label = $4
	          WHERE id = $5 AND user_id = $6`

	result, err := r.db.Exec(query, a.FeedbackType, a.FeedbackValue, a.FeedbackEmoji, a.FeedbackLabel, a.ID, a.UserID)
	if err != nil {
		return err
	}
	return rowsAffected(result, ErrActivityNotFound)
}

func (r *activityRepository) Between(userID string, from, to time.Time) ([]*model.Activity, error) {
	activities := []*model.Activity{}
	query := `SELECT * FROM activities
	          WHERE user_id = $1 AND date >= $2 AND date < $3
	          ORDER BY completed_at DESC`

	err := r.db.Select(&activities, query, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}

	for _, a := range activities {
		a.FillFeedback()
	}
	return activities, nil
}

func (r *activityRepository) History(userID string, limit int) ([]*model.Activity, error) {
	activities := []*model.Activity{}
	query := `SELECT * FROM activities WHERE user_id = $1 ORDER BY completed_at DESC LIMIT $2`

	err := r.db.Select(&activities, query, userID, limit)
	if err != nil {
		return nil, err
	}

	for _, a := range activities {
		a.FillFeedback()
	}
	return activities, nil
}
