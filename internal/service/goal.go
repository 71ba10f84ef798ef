package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/db"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/repository"
	"github.com/ifuapp/ifu/internal/tracker"
)

var ErrInvalidWeekStart = apperr.Validation("week_start must be a date formatted YYYY-MM-DD")

// GoalService persists daily and weekly goals. Day and week boundaries are
// computed in loc.
type GoalService struct {
	db         *sqlx.DB
	dailyRepo  repository.DailyGoalRepository
	weeklyRepo repository.WeeklyGoalRepository
	clock      clock.Clock
	loc        *time.Location
}

func NewGoalService(
	conn *sqlx.DB,
	dailyRepo repository.DailyGoalRepository,
	weeklyRepo repository.WeeklyGoalRepository,
	clk clock.Clock,
	loc *time.Location,
) *GoalService {
	return &GoalService{
		db:         conn,
		dailyRepo:  dailyRepo,
		weeklyRepo: weeklyRepo,
		clock:      clk,
		loc:        loc,
	}
}

func (s *GoalService) CreateDaily(userID, text string) (*model.DailyGoal, error) {
	goal, err := tracker.NewDailyGoal(uuid.NewString(), userID, text, s.clock.Now())
	if err != nil {
		return nil, err
	}

	err = s.dailyRepo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create daily goal: %w", err)
	}

	return goal, nil
}

// TodayDaily lists the goals created today, newest first.
func (s *GoalService) TodayDaily(userID string) ([]*model.DailyGoal, error) {
	from, to := tracker.DayRange(s.clock.Now(), s.loc)
	return s.dailyRepo.Between(userID, from, to)
}

// ToggleDaily flips completion under a row lock.
func (s *GoalService) ToggleDaily(userID, goalID string) (*model.DailyGoal, error) {
	var toggled *model.DailyGoal

	err := db.WithTx(s.db, func(tx *sqlx.Tx) error {
		repo := s.dailyRepo.WithTx(tx)

		goal, err := repo.ByID(userID, goalID)
		if err != nil {
			return err
		}

		toggled, err = tracker.ToggleDaily(goal, userID, s.clock.Now())
		if err != nil {
			return err
		}

		return repo.Update(toggled)
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("daily goal toggled", "user_id", userID, "goal_id", goalID, "completed", toggled.Completed)
	return toggled, nil
}

func (s *GoalService) DeleteDaily(userID, goalID string) error {
	return s.dailyRepo.Delete(userID, goalID)
}

func (s *GoalService) CountCompletedDaily(userID string) (int, error) {
	return s.dailyRepo.CountCompleted(userID)
}

// WeekStatus reports the seven days of the week containing weekStart, or of
// the current week when weekStart is empty.
func (s *GoalService) WeekStatus(userID, weekStart string) ([]model.DayStatus, error) {
	start, err := s.resolveWeek(weekStart)
	if err != nil {
		return nil, err
	}

	end := start.AddDate(0, 0, tracker.DaysPerWeek)
	goals, err := s.dailyRepo.Between(userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load week goals: %w", err)
	}

	return tracker.WeekStatus(goals, start, s.loc), nil
}

func (s *GoalService) resolveWeek(weekStart string) (time.Time, error) {
	if weekStart == "" {
		return tracker.StartOfWeek(s.clock.Now(), s.loc), nil
	}

	day, err := time.ParseInLocation(tracker.DateLayout, weekStart, s.loc)
	if err != nil {
		return time.Time{}, ErrInvalidWeekStart
	}
	return tracker.StartOfWeek(day, s.loc), nil
}

func (s *GoalService) CreateWeekly(userID, text string, progress int) (*model.WeeklyGoal, error) {
	now := s.clock.Now()
	weekStart := tracker.StartOfWeek(now, s.loc)

	goal, err := tracker.NewWeeklyGoal(uuid.NewString(), userID, text, progress, weekStart, now)
	if err != nil {
		return nil, err
	}

	err = s.weeklyRepo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create weekly goal: %w", err)
	}

	return goal, nil
}

// CurrentWeekly lists this week's goals, oldest first.
func (s *GoalService) CurrentWeekly(userID string) ([]*model.WeeklyGoal, error) {
	from, to := tracker.WeekRange(s.clock.Now(), s.loc)
	return s.weeklyRepo.Between(userID, from, to)
}

// UpdateWeekly reads, updates and writes the goal in one transaction so
// concurrent updates cannot drop feedback entries.
func (s *GoalService) UpdateWeekly(userID, goalID string, update tracker.WeeklyUpdate) (*model.WeeklyGoal, error) {
	var updated *model.WeeklyGoal

	err := db.WithTx(s.db, func(tx *sqlx.Tx) error {
		repo := s.weeklyRepo.WithTx(tx)

		goal, err := repo.ByID(userID, goalID)
		if err != nil {
			return err
		}

		updated, err = tracker.UpdateWeekly(goal, userID, update, s.clock.Now())
		if err != nil {
			return err
		}

		return repo.Update(updated)
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("weekly goal updated", "user_id", userID, "goal_id", goalID, "progress", updated.Progress)
	return updated, nil
}

func (s *GoalService) Feedback(userID, goalID string) ([]model.FeedbackEntry, error) {
	goal, err := s.weeklyRepo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	return goal.FeedbackEntries, nil
}

func (s *GoalService) DeleteWeekly(userID, goalID string) error {
	return s.weeklyRepo.Delete(userID, goalID)
}
