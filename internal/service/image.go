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

const (
	CategoryLevels      = 3
	byCategoryLimit     = 10
	DefaultCatalogLimit = 30
	MaxCatalogLimit     = 100
)

var (
	ErrCategoriesRequired = apperr.Validation("categories array is required")
	ErrCategoryLevels     = apperr.Validation("categories must have exactly 3 levels")
	ErrImageURLRequired   = apperr.Validation("image_url is required")
)

// ImageService manages the stock image catalog.
type ImageService struct {
	repo  repository.ImageRepository
	clock clock.Clock
}

func NewImageService(repo repository.ImageRepository, clk clock.Clock) *ImageService {
	return &ImageService{
		repo:  repo,
		clock: clk,
	}
}

// ByCategories returns the newest images filed under every given category.
func (s *ImageService) ByCategories(categories []string) ([]*model.CatalogImage, error) {
	categories = lo.Compact(lo.Map(categories, func(c string, _ int) string { return strings.TrimSpace(c) }))
	if len(categories) == 0 {
		return nil, ErrCategoriesRequired
	}

	return s.repo.ByCategories(categories, byCategoryLimit)
}

// List returns the newest images, or a random sample. limit is clamped to
// [1, MaxCatalogLimit], with 0 meaning DefaultCatalogLimit.
func (s *ImageService) List(random bool, limit int) ([]*model.CatalogImage, error) {
	if limit <= 0 {
		limit = DefaultCatalogLimit
	}
	limit = min(limit, MaxCatalogLimit)

	if random {
		return s.repo.Random(limit)
	}
	return s.repo.Recent(limit)
}

func (s *ImageService) Add(imageURL string, categories []string) (*model.CatalogImage, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, ErrImageURLRequired
	}

	categories = lo.Map(categories, func(c string, _ int) string { return strings.TrimSpace(c) })
	if len(categories) != CategoryLevels || lo.Contains(categories, "") {
		return nil, ErrCategoryLevels
	}

	img := &model.CatalogImage{
		ID:             uuid.NewString(),
		ImageURL:       imageURL,
		Category:       categories[0],
		Subcategory:    categories[1],
		SubSubcategory: categories[2],
		CreatedAt:      s.clock.Now(),
	}

	err := s.repo.Create(img)
	if err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	return img, nil
}
