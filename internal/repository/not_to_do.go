package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/db"
	"github.com/ifuapp/ifu/internal/model"
)

type NotToDoRepository interface {
	// CreateMany inserts all habits or none.
	CreateMany(habits []*model.NotToDo) error
	Recent(userID string, limit int) ([]*model.NotToDo, error)
}

type notToDoRepository struct {
	db *sqlx.DB
}

func NewNotToDoRepository(db *sqlx.DB) NotToDoRepository {
	return &notToDoRepository{db: db}
}

func (r *notToDoRepository) CreateMany(habits []*model.NotToDo) error {
	return db.WithTx(r.db, func(tx *sqlx.Tx) error {
		for _, h := range habits {
			_, err := tx.Exec(`INSERT INTO not_to_dos (id, user_id, habit, date) VALUES ($1, $2, $3, $4)`,
				h.ID, h.UserID, h.Habit, h.Date)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *notToDoRepository) Recent(userID string, limit int) ([]*model.NotToDo, error) {
	habits := []*model.NotToDo{}
	err := r.db.Select(&habits, `SELECT * FROM not_to_dos WHERE user_id = $1 ORDER BY date DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	return habits, nil
}
