package model

import (
	"time"
)

// NotToDo is a habit the user wants to avoid.
type NotToDo struct {
	ID     string    `db:"id" json:"id"`
	UserID string    `db:"user_id" json:"user_id"`
	Habit  string    `db:"habit" json:"habit"`
	Date   time.Time `db:"date" json:"date"`
}
