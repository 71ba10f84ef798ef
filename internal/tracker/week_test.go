package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifuapp/ifu/internal/model"
)

func TestStartOfWeekIsSunday(t *testing.T) {
	// Wednesday
	start := StartOfWeek(time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Sunday, start.Weekday())

	// Sunday maps to itself
	sunday := time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday, time.UTC))
}

func TestWeekRangeUsesLocation(t *testing.T) {
	ny := time.FixedZone("EST", -5*60*60)

	// 02:00 UTC Sunday is still Saturday evening at UTC-5.
	start, end := WeekRange(time.Date(2025, 3, 9, 2, 0, 0, 0, time.UTC), ny)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, ny), start)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, ny), end)
}

func TestDayRange(t *testing.T) {
	start, end := DayRange(time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), end)
}

func TestWeekStatus(t *testing.T) {
	weekStart := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	goal := func(day, hour int, done bool) *model.DailyGoal {
		return &model.DailyGoal{
			CreatedAt: time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC),
			Completed: done,
		}
	}

	goals := []*model.DailyGoal{
		goal(9, 8, true),
		goal(9, 20, true),
		goal(11, 7, true),
		goal(11, 9, false),
		goal(8, 12, false),  // previous Saturday
		goal(16, 12, false), // next Sunday
	}

	days := WeekStatus(goals, weekStart, time.UTC)
	require.Len(t, days, DaysPerWeek)

	assert.Equal(t, model.DayStatus{Date: "2025-03-09", TotalGoals: 2, CompletedGoals: 2, AllCompleted: true}, days[0])
	assert.Equal(t, model.DayStatus{Date: "2025-03-10"}, days[1])
	assert.Equal(t, model.DayStatus{Date: "2025-03-11", TotalGoals: 2, CompletedGoals: 1, HasIncomplete: true}, days[2])
	assert.Equal(t, "2025-03-15", days[6].Date)

	total := 0
	for _, d := range days {
		total += d.TotalGoals
		assert.False(t, d.AllCompleted && d.HasIncomplete)
		if d.TotalGoals == 0 {
			assert.False(t, d.AllCompleted)
			assert.False(t, d.HasIncomplete)
		}
	}
	assert.Equal(t, 4, total)
}

func TestWeekStatusEmpty(t *testing.T) {
	days := WeekStatus(nil, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), time.UTC)
	require.Len(t, days, DaysPerWeek)
	for _, d := range days {
		assert.Zero(t, d.TotalGoals)
	}
}
