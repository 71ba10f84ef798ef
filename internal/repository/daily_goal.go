package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/tracker"
)

var (
	ErrDailyGoalNotFound = tracker.ErrDailyGoalNotFound
)

type DailyGoalRepository interface {
	Create(goal *model.DailyGoal) error
	ByID(userID, goalID string) (*model.DailyGoal, error)
	// Between lists goals created in [from, to), newest first.
	Between(userID string, from, to time.Time) ([]*model.DailyGoal, error)
	CountCompleted(userID string) (int, error)
	Update(goal *model.DailyGoal) error
	Delete(userID, goalID string) error
	WithTx(tx *sqlx.Tx) DailyGoalRepository
}

type dailyGoalRepository struct {
	db sqlx.Ext
}

func NewDailyGoalRepository(db *sqlx.DB) DailyGoalRepository {
	return &dailyGoalRepository{db: db}
}

func (r *dailyGoalRepository) WithTx(tx *sqlx.Tx) DailyGoalRepository {
	return &dailyGoalRepository{db: tx}
}

func (r *dailyGoalRepository) Create(goal *model.DailyGoal) error {
	query := `INSERT INTO daily_goals (id, user_id, text, completed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Text,
		goal.Completed,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

// ByID locks the row when called inside a PostgreSQL transaction.
func (r *dailyGoalRepository) ByID(userID, goalID string) (*model.DailyGoal, error) {
	goal := &model.DailyGoal{}
	query := `SELECT * FROM daily_goals WHERE id = $1 AND user_id = $2` + forUpdate(r.db)

	err := sqlx.Get(r.db, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDailyGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *dailyGoalRepository) Between(userID string, from, to time.Time) ([]*model.DailyGoal, error) {
	goals := []*model.DailyGoal{}
	query := `SELECT * FROM daily_goals
	          WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
	          ORDER BY created_at DESC`

	err := sqlx.Select(r.db, &goals, query, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *dailyGoalRepository) CountCompleted(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM daily_goals WHERE user_id = $1 AND completed = TRUE`
	err := r.db.QueryRowx(query, userID).Scan(&count)
	return count, err
}

func (r *dailyGoalRepository) Update(goal *model.DailyGoal) error {
	query := `UPDATE daily_goals
	          SET text = $1, completed = $2, updated_at = $3
	          WHERE id = $4 AND user_id = $5`

	result, err := r.db.Exec(query,
		goal.Text,
		goal.Completed,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	return rowsAffected(result, ErrDailyGoalNotFound)
}

func (r *dailyGoalRepository) Delete(userID, goalID string) error {
	result, err := r.db.Exec(`DELETE FROM daily_goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return err
	}

	return rowsAffected(result, ErrDailyGoalNotFound)
}
