package model

import (
	"time"
)

// FeedbackEntry is one note in a weekly goal's log. Entries are only ever
// appended.
type FeedbackEntry struct {
	Progress  int       `json:"progress"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}
