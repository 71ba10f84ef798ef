package model

import (
	"time"
)

type ActivityFeedback struct {
	Type  *string `json:"type"`
	Value *string `json:"value"`
	Emoji *string `json:"emoji"`
	Label *string `json:"label"`
}

// Activity is a completed guided activity with optional mood feedback.
type Activity struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	ActivityKey   string    `db:"activity_key" json:"activity_key"`
	Title         string    `db:"title" json:"title"`
	Response      *string   `db:"response" json:"response"`
	FeedbackType  *string   `db:"feedback_type" json:"-"`
	FeedbackValue *string   `db:"feedback_value" json:"-"`
	FeedbackEmoji *string   `db:"feedback_emoji" json:"-"`
	FeedbackLabel *string   `db:"feedback_label" json:"-"`
	Date          time.Time `db:"date" json:"date"`
	CompletedAt   time.Time `db:"completed_at" json:"completed_at"`

	Feedback ActivityFeedback `db:"-" json:"feedback"`
}

func (a *Activity) SetFeedback(f ActivityFeedback) {
	a.FeedbackType = f.Type
	a.FeedbackValue = f.Value
	a.FeedbackEmoji = f.Emoji
	a.FeedbackLabel = f.Label
	a.Feedback = f
}

// FillFeedback copies the stored feedback columns into the nested JSON shape.
func (a *Activity) FillFeedback() {
	a.Feedback = ActivityFeedback{
		Type:  a.FeedbackType,
		Value: a.FeedbackValue,
		Emoji: a.FeedbackEmoji,
		Label: a.FeedbackLabel,
	}
}

// FiveMinLog records one completed library activity.
type FiveMinLog struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	ActivityKey string    `db:"activity_key" json:"activity_key"`
	Title       string    `db:"title" json:"title"`
	Date        time.Time `db:"date" json:"date"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}
