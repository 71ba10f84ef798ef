package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/repository"
	"github.com/ifuapp/ifu/internal/tracker"
)

const activityHistoryLimit = 50

var ErrActivityKeyRequired = apperr.Validation("activityKey and title are required")

type ActivityService struct {
	activityRepo repository.ActivityRepository
	logRepo      repository.FiveMinLogRepository
	clock        clock.Clock
	loc          *time.Location
}

func NewActivityService(
	activityRepo repository.ActivityRepository,
	logRepo repository.FiveMinLogRepository,
	clk clock.Clock,
	loc *time.Location,
) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logRepo:      logRepo,
		clock:        clk,
		loc:          loc,
	}
}

// Complete records a finished guided activity.
func (s *ActivityService) Complete(userID, activityKey, title string, response *string, feedback model.ActivityFeedback) (*model.Activity, error) {
	activityKey, title = strings.TrimSpace(activityKey), strings.TrimSpace(title)
	if activityKey == "" || title == "" {
		return nil, ErrActivityKeyRequired
	}

	now := s.clock.Now()
	activity := &model.Activity{
		ID:          uuid.NewString(),
		UserID:      userID,
		ActivityKey: activityKey,
		Title:       title,
		Response:    blankToNil(response),
		Date:        now,
		CompletedAt: now,
	}
	activity.SetFeedback(cleanFeedback(feedback))

	err := s.activityRepo.Create(activity)
	if err != nil {
		return nil, fmt.Errorf("failed to save activity: %w", err)
	}

	return activity, nil
}

// UpdateFeedback replaces the feedback of the most recent matching activity.
func (s *ActivityService) UpdateFeedback(userID, activityKey, title string, feedback model.ActivityFeedback) (*model.Activity, error) {
	activityKey, title = strings.TrimSpace(activityKey), strings.TrimSpace(title)
	if activityKey == "" || title == "" {
		return nil, ErrActivityKeyRequired
	}

	activity, err := s.activityRepo.Latest(userID, activityKey, title)
	if err != nil {
		return nil, err
	}

	activity.SetFeedback(cleanFeedback(feedback))

	err = s.activityRepo.UpdateFeedback(activity)
	if err != nil {
		return nil, err
	}

	return activity, nil
}

func (s *ActivityService) Today(userID string) ([]*model.Activity, error) {
	from, to := tracker.DayRange(s.clock.Now(), s.loc)
	return s.activityRepo.Between(userID, from, to)
}

func (s *ActivityService) History(userID string) ([]*model.Activity, error) {
	return s.activityRepo.History(userID, activityHistoryLimit)
}

// LogFiveMin records a completed library activity.
func (s *ActivityService) LogFiveMin(userID, activityKey, title string) (*model.FiveMinLog, error) {
	activityKey, title = strings.TrimSpace(activityKey), strings.TrimSpace(title)
	if activityKey == "" || title == "" {
		return nil, ErrActivityKeyRequired
	}

	now := s.clock.Now()
	log := &model.FiveMinLog{
		ID:          uuid.NewString(),
		UserID:      userID,
		ActivityKey: activityKey,
		Title:       title,
		Date:        now,
		CompletedAt: now,
	}

	err := s.logRepo.Create(log)
	if err != nil {
		return nil, fmt.Errorf("failed to save log: %w", err)
	}

	return log, nil
}

func (s *ActivityService) FiveMinLogs(userID string) ([]*model.FiveMinLog, error) {
	return s.logRepo.ByUser(userID)
}

// cleanFeedback stores blank feedback fields as NULL.
func cleanFeedback(f model.ActivityFeedback) model.ActivityFeedback {
	return model.ActivityFeedback{
		Type:  blankToNil(f.Type),
		Value: blankToNil(f.Value),
		Emoji: blankToNil(f.Emoji),
		Label: blankToNil(f.Label),
	}
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	return lo.EmptyableToPtr(strings.TrimSpace(*s))
}
