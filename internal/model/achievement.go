package model

import (
	"time"
)

// Achievement is an "I completed" entry, optionally with a photo.
type Achievement struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Text      string    `db:"achievement_text" json:"achievementText"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Image string `db:"-" json:"image,omitempty"`
}
