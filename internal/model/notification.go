package model

import (
	"time"
)

const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeShare   = "share"
)

type Notification struct {
	ID          string    `db:"id"`
	SenderID    string    `db:"sender_id"`
	RecipientID string    `db:"recipient_id"`
	PostID      string    `db:"post_id"`
	Type        string    `db:"type"`
	Text        string    `db:"text"`
	Read        bool      `db:"read"`
	CreatedAt   time.Time `db:"created_at"`
}

type NotificationPost struct {
	ID   string `json:"_id"`
	Text string `json:"text"`
}

type NotificationView struct {
	ID        string           `json:"_id"`
	Sender    Author           `json:"sender"`
	Type      string           `json:"type"`
	Post      NotificationPost `json:"post"`
	Text      string           `json:"text"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
