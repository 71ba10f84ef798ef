package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/repository"
)

const minAchievementLength = 3

var ErrAchievementTooShort = apperr.Validation("achievement text too short")

type AchievementService struct {
	repo        repository.AchievementRepository
	fileService *FileService
	clock       clock.Clock
}

func NewAchievementService(repo repository.AchievementRepository, fileService *FileService, clk clock.Clock) *AchievementService {
	return &AchievementService{
		repo:        repo,
		fileService: fileService,
		clock:       clk,
	}
}

func (s *AchievementService) Create(ctx context.Context, userID, text string, image *Image) (*model.Achievement, error) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minAchievementLength {
		return nil, ErrAchievementTooShort
	}

	now := s.clock.Now()
	achievement := &model.Achievement{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if image != nil {
		file, err := s.fileService.Upload(ctx, userID, model.OwnerTypeAchievement, achievement.ID, model.FileTypeAchievementImage, image.File, image.Header)
		if err != nil {
			return nil, err
		}
		achievement.Image = s.fileService.URL(file)
	}

	err := s.repo.Create(achievement)
	if err != nil {
		if image != nil {
			cleanupErr := s.fileService.DeleteOwnerFiles(ctx, model.OwnerTypeAchievement, achievement.ID)
			if cleanupErr != nil {
				slog.Error("failed to clean up achievement image", "error", cleanupErr, "achievement_id", achievement.ID)
			}
		}
		return nil, fmt.Errorf("failed to save achievement: %w", err)
	}

	return achievement, nil
}

// Mine lists the user's achievements, newest first, with image URLs.
func (s *AchievementService) Mine(userID string) ([]*model.Achievement, error) {
	achievements, err := s.repo.ByUser(userID)
	if err != nil {
		return nil, err
	}

	ids := lo.Map(achievements, func(a *model.Achievement, _ int) string { return a.ID })
	images, err := s.fileService.URLs(model.OwnerTypeAchievement, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}

	for _, a := range achievements {
		a.Image = images[a.ID]
	}
	return achievements, nil
}

func (s *AchievementService) Delete(ctx context.Context, userID, achievementID string) error {
	err := s.repo.Delete(userID, achievementID)
	if err != nil {
		return err
	}

	return s.fileService.DeleteOwnerFiles(ctx, model.OwnerTypeAchievement, achievementID)
}
