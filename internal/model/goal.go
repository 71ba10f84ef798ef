package model

import (
	"time"
)

type DailyGoal struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// WeeklyGoal is open while Progress < 100 and completed at exactly 100.
// Completed is always derived from Progress; nothing sets it directly.
type WeeklyGoal struct {
	ID              string          `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"user_id"`
	Text            string          `db:"text" json:"text"`
	Progress        int             `db:"progress" json:"progress"`
	Completed       bool            `db:"completed" json:"completed"`
	FeedbackEntries []FeedbackEntry `db:"-" json:"feedback_entries"`
	WeekStart       time.Time       `db:"week_start" json:"week_start"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// DayStatus summarizes the daily goals created on one calendar day.
type DayStatus struct {
	Date           string `json:"date"`
	TotalGoals     int    `json:"totalGoals"`
	CompletedGoals int    `json:"completedGoals"`
	AllCompleted   bool   `json:"allCompleted"`
	HasIncomplete  bool   `json:"hasIncomplete"`
}
