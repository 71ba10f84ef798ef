// Package tracker holds the goal state machine: creation, daily toggling,
// weekly progress updates with their feedback log, and week summaries.
//
// Everything here is a pure function over already-loaded goals. Callers
// supply the current time and persist the returned values.
package tracker

import (
	"strings"
	"time"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/model"
)

const (
	MinProgress = 0
	MaxProgress = 100
)

var (
	ErrTextRequired       = apperr.Validation("goal text is required")
	ErrProgressOutOfRange = apperr.Validation("progress must be between 0 and 100")
	ErrDailyGoalNotFound  = apperr.NotFound("daily goal not found")
	ErrWeeklyGoalNotFound = apperr.NotFound("weekly goal not found")
)

// WeeklyUpdate carries the optional parts of a weekly goal update. Nil
// pointers leave the field unchanged; a blank Feedback adds no entry.
type WeeklyUpdate struct {
	Text     *string
	Progress *int
	Feedback string
}

func NewDailyGoal(id, ownerID, text string, now time.Time) (*model.DailyGoal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}

	return &model.DailyGoal{
		ID:        id,
		UserID:    ownerID,
		Text:      text,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func NewWeeklyGoal(id, ownerID, text string, progress int, weekStart, now time.Time) (*model.WeeklyGoal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}
	if !validProgress(progress) {
		return nil, ErrProgressOutOfRange
	}

	return &model.WeeklyGoal{
		ID:              id,
		UserID:          ownerID,
		Text:            text,
		Progress:        progress,
		Completed:       progress == MaxProgress,
		FeedbackEntries: []model.FeedbackEntry{},
		WeekStart:       weekStart,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// ToggleDaily returns a copy of goal with Completed flipped.
func ToggleDaily(goal *model.DailyGoal, ownerID string, now time.Time) (*model.DailyGoal, error) {
	if goal == nil || goal.UserID != ownerID {
		return nil, ErrDailyGoalNotFound
	}

	toggled := *goal
	toggled.Completed = !goal.Completed
	toggled.UpdatedAt = now
	return &toggled, nil
}

// UpdateWeekly applies update to a copy of goal. Completed is recomputed from
// the effective progress and a non-blank note is appended to the feedback
// log; existing entries are never touched.
func UpdateWeekly(goal *model.WeeklyGoal, ownerID string, update WeeklyUpdate, now time.Time) (*model.WeeklyGoal, error) {
	if goal == nil || goal.UserID != ownerID {
		return nil, ErrWeeklyGoalNotFound
	}

	updated := *goal

	if update.Text != nil {
		text := strings.TrimSpace(*update.Text)
		if text == "" {
			return nil, ErrTextRequired
		}
		updated.Text = text
	}

	if update.Progress != nil {
		if !validProgress(*update.Progress) {
			return nil, ErrProgressOutOfRange
		}
		updated.Progress = *update.Progress
	}

	updated.Completed = updated.Progress == MaxProgress

	entries := make([]model.FeedbackEntry, len(goal.FeedbackEntries), len(goal.FeedbackEntries)+1)
	copy(entries, goal.FeedbackEntries)

	note := strings.TrimSpace(update.Feedback)
	if note != "" {
		entries = append(entries, model.FeedbackEntry{
			Progress:  updated.Progress,
			Feedback:  note,
			CreatedAt: now,
		})
	}
	updated.FeedbackEntries = entries
	updated.UpdatedAt = now

	return &updated, nil
}

func validProgress(p int) bool {
	return p >= MinProgress && p <= MaxProgress
}
