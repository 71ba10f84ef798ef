package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/tracker"
)

var (
	ErrWeeklyGoalNotFound = tracker.ErrWeeklyGoalNotFound
)

type WeeklyGoalRepository interface {
	Create(goal *model.WeeklyGoal) error
	ByID(userID, goalID string) (*model.WeeklyGoal, error)
	// Between lists goals whose week starts in [from, to), oldest first.
	Between(userID string, from, to time.Time) ([]*model.WeeklyGoal, error)
	Update(goal *model.WeeklyGoal) error
	Delete(userID, goalID string) error
	WithTx(tx *sqlx.Tx) WeeklyGoalRepository
}

// weeklyGoalRow keeps the feedback log as a JSON array column.
type weeklyGoalRow struct {
	model.WeeklyGoal
	FeedbackJSON string `db:"feedback_entries"`
}

func (row *weeklyGoalRow) toModel() (*model.WeeklyGoal, error) {
	g := row.WeeklyGoal
	g.FeedbackEntries = []model.FeedbackEntry{}
	if row.FeedbackJSON != "" {
		err := json.Unmarshal([]byte(row.FeedbackJSON), &g.FeedbackEntries)
		if err != nil {
			return nil, fmt.Errorf("failed to decode feedback entries for goal %s: %w", g.ID, err)
		}
	}
	return &g, nil
}

func encodeFeedback(entries []model.FeedbackEntry) (string, error) {
	if entries == nil {
		entries = []model.FeedbackEntry{}
	}
	b, err := json.Marshal(entries)
	return string(b), err
}

type weeklyGoalRepository struct {
	db sqlx.Ext
}

func NewWeeklyGoalRepository(db *sqlx.DB) WeeklyGoalRepository {
	return &weeklyGoalRepository{db: db}
}

func (r *weeklyGoalRepository) WithTx(tx *sqlx.Tx) WeeklyGoalRepository {
	return &weeklyGoalRepository{db: tx}
}

func (r *weeklyGoalRepository) Create(goal *model.WeeklyGoal) error {
	feedback, err := encodeFeedback(goal.FeedbackEntries)
	if err != nil {
		return err
	}

	query := `INSERT INTO weekly_goals (id, user_id, text, progress, completed, feedback_entries, week_start, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Text,
		goal.Progress,
		goal.Completed,
		feedback,
		goal.WeekStart.UTC(),
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

// ByID locks the row when called inside a PostgreSQL transaction.
func (r *weeklyGoalRepository) ByID(userID, goalID string) (*model.WeeklyGoal, error) {
	var row weeklyGoalRow
	query := `SELECT * FROM weekly_goals WHERE id = $1 AND user_id = $2` + forUpdate(r.db)

	err := sqlx.Get(r.db, &row, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWeeklyGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return row.toModel()
}

func (r *weeklyGoalRepository) Between(userID string, from, to time.Time) ([]*model.WeeklyGoal, error) {
	var rows []weeklyGoalRow
	query := `SELECT * FROM weekly_goals
	          WHERE user_id = $1 AND week_start >= $2 AND week_start < $3
	          ORDER BY created_at ASC`

	err := sqlx.Select(r.db, &rows, query, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}

	goals := make([]*model.WeeklyGoal, 0, len(rows))
	for i := range rows {
		g, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// Update writes text, progress, completion and the whole feedback log in one
// statement.
func (r *weeklyGoalRepository) Update(goal *model.WeeklyGoal) error {
	feedback, err := encodeFeedback(goal.FeedbackEntries)
	if err != nil {
		return err
	}

	query := `UPDATE weekly_goals
	          SET text = $1, progress = $2, completed = $3, feedback_entries = $4, updated_at = $5
	          WHERE id = $6 AND user_id = $7`

	result, err := r.db.Exec(query,
		goal.Text,
		goal.Progress,
		goal.Completed,
		feedback,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	return rowsAffected(result, ErrWeeklyGoalNotFound)
}

func (r *weeklyGoalRepository) Delete(userID, goalID string) error {
	result, err := r.db.Exec(`DELETE FROM weekly_goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return err
	}

	return rowsAffected(result, ErrWeeklyGoalNotFound)
}
