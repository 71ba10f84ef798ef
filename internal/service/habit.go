package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/repository"
)

const recentHabitsLimit = 3

var (
	ErrNoHabits   = apperr.Validation("no habits provided")
	ErrBlankHabit = apperr.Validation("habits must not be blank")
)

// HabitService manages the not-to-do list.
type HabitService struct {
	repo  repository.NotToDoRepository
	clock clock.Clock
}

func NewHabitService(repo repository.NotToDoRepository, clk clock.Clock) *HabitService {
	return &HabitService{
		repo:  repo,
		clock: clk,
	}
}

// Save stores every habit or none of them.
func (s *HabitService) Save(userID string, habits []string) (int, error) {
	if len(habits) == 0 {
		return 0, ErrNoHabits
	}

	trimmed := lo.Map(habits, func(h string, _ int) string { return strings.TrimSpace(h) })
	if lo.Contains(trimmed, "") {
		return 0, ErrBlankHabit
	}

	now := s.clock.Now()
	records := lo.Map(trimmed, func(h string, _ int) *model.NotToDo {
		return &model.NotToDo{
			ID:     uuid.NewString(),
			UserID: userID,
			Habit:  h,
			Date:   now,
		}
	})

	err := s.repo.CreateMany(records)
	if err != nil {
		return 0, fmt.Errorf("failed to save habits: %w", err)
	}

	return len(records), nil
}

func (s *HabitService) Recent(userID string) ([]*model.NotToDo, error) {
	return s.repo.Recent(userID, recentHabitsLimit)
}
