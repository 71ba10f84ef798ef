package tracker

import (
	"time"

	"github.com/ifuapp/ifu/internal/model"
)

const (
	DaysPerWeek = 7
	DateLayout  = "2006-01-02"
)

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DayRange returns [start, end) of t's calendar day in loc.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(t, loc)
	return start, start.AddDate(0, 0, 1)
}

// StartOfWeek returns midnight of the Sunday on or before t in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeekRange returns [start, end) of the Sunday-based week containing t.
func WeekRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfWeek(t, loc)
	return start, start.AddDate(0, 0, DaysPerWeek)
}

// WeekStatus buckets daily goals by the calendar date of their creation in
// loc and reports the seven days starting at weekStart. Goals created outside
// the week are ignored.
func WeekStatus(goals []*model.DailyGoal, weekStart time.Time, loc *time.Location) []model.DayStatus {
	type tally struct {
		total     int
		completed int
	}

	byDate := make(map[string]*tally)
	for _, g := range goals {
		key := g.CreatedAt.In(loc).Format(DateLayout)
		t, ok := byDate[key]
		if !ok {
			t = &tally{}
			byDate[key] = t
		}
		t.total++
		if g.Completed {
			t.completed++
		}
	}

	start := StartOfDay(weekStart, loc)
	days := make([]model.DayStatus, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		date := start.AddDate(0, 0, i).Format(DateLayout)

		status := model.DayStatus{Date: date}
		if t, ok := byDate[date]; ok {
			status.TotalGoals = t.total
			status.CompletedGoals = t.completed
			status.AllCompleted = t.total > 0 && t.completed == t.total
			status.HasIncomplete = t.total > 0 && t.completed < t.total
		}
		days = append(days, status)
	}

	return days
}
