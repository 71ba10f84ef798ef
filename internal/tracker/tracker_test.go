package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/model"
)

var t0 = time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestNewDailyGoal(t *testing.T) {
	g, err := NewDailyGoal("g1", "u1", "  drink water  ", t0)
	require.NoError(t, err)
	assert.Equal(t, "drink water", g.Text)
	assert.False(t, g.Completed)
	assert.Equal(t, t0, g.CreatedAt)

	_, err = NewDailyGoal("g2", "u1", "   ", t0)
	assert.ErrorIs(t, err, ErrTextRequired)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestNewWeeklyGoal(t *testing.T) {
	weekStart := StartOfWeek(t0, time.UTC)

	tests := []struct {
		name      string
		text      string
		progress  int
		wantErr   error
		completed bool
	}{
		{name: "zero progress", text: "run 20km", progress: 0},
		{name: "starts complete", text: "run 20km", progress: 100, completed: true},
		{name: "negative", text: "run", progress: -1, wantErr: ErrProgressOutOfRange},
		{name: "over max", text: "run", progress: 101, wantErr: ErrProgressOutOfRange},
		{name: "blank text", text: " ", progress: 10, wantErr: ErrTextRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewWeeklyGoal("w1", "u1", tt.text, tt.progress, weekStart, t0)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.completed, g.Completed)
			assert.Equal(t, tt.progress, g.Progress)
			assert.Empty(t, g.FeedbackEntries)
			assert.NotNil(t, g.FeedbackEntries)
			assert.Equal(t, weekStart, g.WeekStart)
		})
	}
}

func TestToggleDailyTwiceRestoresState(t *testing.T) {
	g, err := NewDailyGoal("g1", "u1", "stretch", t0)
	require.NoError(t, err)

	once, err := ToggleDaily(g, "u1", t0.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, once.Completed)
	assert.False(t, g.Completed, "input must not be mutated")

	twice, err := ToggleDaily(once, "u1", t0.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, g.Completed, twice.Completed)
	assert.Equal(t, t0.Add(2*time.Minute), twice.UpdatedAt)
}

func TestToggleDailyRejectsOtherOwner(t *testing.T) {
	g, err := NewDailyGoal("g1", "u1", "stretch", t0)
	require.NoError(t, err)

	_, err = ToggleDaily(g, "u2", t0)
	assert.ErrorIs(t, err, ErrDailyGoalNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateWeeklyCompletionFollowsProgress(t *testing.T) {
	g, err := NewWeeklyGoal("w1", "u1", "read a book", 40, t0, t0)
	require.NoError(t, err)

	done, err := UpdateWeekly(g, "u1", WeeklyUpdate{Progress: intPtr(100)}, t0)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	reopened, err := UpdateWeekly(done, "u1", WeeklyUpdate{Progress: intPtr(99)}, t0)
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
}

func TestUpdateWeeklyAppendsFeedback(t *testing.T) {
	g, err := NewWeeklyGoal("w1", "u1", "read a book", 0, t0, t0)
	require.NoError(t, err)

	first, err := UpdateWeekly(g, "u1", WeeklyUpdate{Progress: intPtr(30), Feedback: " chapter one "}, t0.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, first.FeedbackEntries, 1)
	assert.Equal(t, model.FeedbackEntry{Progress: 30, Feedback: "chapter one", CreatedAt: t0.Add(time.Hour)}, first.FeedbackEntries[0])

	second, err := UpdateWeekly(first, "u1", WeeklyUpdate{Progress: intPtr(60), Feedback: "halfway"}, t0.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, second.FeedbackEntries, 2)
	assert.Equal(t, first.FeedbackEntries[0], second.FeedbackEntries[0])
	assert.Equal(t, 60, second.FeedbackEntries[1].Progress)
	assert.Len(t, first.FeedbackEntries, 1, "previous value must keep its log")

	blank, err := UpdateWeekly(second, "u1", WeeklyUpdate{Feedback: "   "}, t0.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Len(t, blank.FeedbackEntries, 2)
	assert.Equal(t, 60, blank.Progress)
}

func TestUpdateWeeklyFeedbackRecordsTextOnlyUpdate(t *testing.T) {
	g, err := NewWeeklyGoal("w1", "u1", "read", 20, t0, t0)
	require.NoError(t, err)

	updated, err := UpdateWeekly(g, "u1", WeeklyUpdate{Text: strPtr(" read two books "), Feedback: "raised the bar"}, t0)
	require.NoError(t, err)
	assert.Equal(t, "read two books", updated.Text)
	require.Len(t, updated.FeedbackEntries, 1)
	assert.Equal(t, 20, updated.FeedbackEntries[0].Progress)
}

func TestUpdateWeeklyRejectsInvalidInput(t *testing.T) {
	g, err := NewWeeklyGoal("w1", "u1", "read", 20, t0, t0)
	require.NoError(t, err)

	_, err = UpdateWeekly(g, "u1", WeeklyUpdate{Progress: intPtr(150)}, t0)
	assert.ErrorIs(t, err, ErrProgressOutOfRange)

	_, err = UpdateWeekly(g, "u1", WeeklyUpdate{Text: strPtr("")}, t0)
	assert.ErrorIs(t, err, ErrTextRequired)

	_, err = UpdateWeekly(g, "someone-else", WeeklyUpdate{Progress: intPtr(50)}, t0)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	assert.Equal(t, 20, g.Progress)
}
