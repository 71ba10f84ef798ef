package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/markdown"
	"github.com/ifuapp/ifu/internal/model"
)

var ErrLibraryActivityNotFound = apperr.NotFound("activity not found")

// LibraryService serves the five-minute activity library, authored as
// markdown files under <contentPath>/activities.
type LibraryService struct {
	parser     *markdown.Parser
	activities []*model.LibraryActivity
}

func NewLibraryService() *LibraryService {
	return &LibraryService{
		parser:     markdown.NewParser(),
		activities: []*model.LibraryActivity{},
	}
}

// Load reads every activity file. A missing directory yields an empty
// library.
func (s *LibraryService) Load(contentPath string) error {
	pattern := filepath.Join(contentPath, "activities", "*.md")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	activities := make([]*model.LibraryActivity, 0, len(files))
	for _, file := range files {
		activity, err := s.loadActivity(file)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
		activities = append(activities, activity)
	}

	sort.SliceStable(activities, func(i, j int) bool {
		if activities[i].Order != activities[j].Order {
			return activities[i].Order < activities[j].Order
		}
		return activities[i].Key < activities[j].Key
	})

	s.activities = activities
	return nil
}

func (s *LibraryService) loadActivity(path string) (*model.LibraryActivity, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	activity := &model.LibraryActivity{}
	htmlContent, err := s.parser.ParseWithFrontmatter(content, activity)
	if err != nil {
		return nil, err
	}

	if activity.Key == "" {
		activity.Key = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	activity.HTMLContent = string(htmlContent)

	return activity, nil
}

func (s *LibraryService) All() []*model.LibraryActivity {
	return s.activities
}

// Filter matches type exactly and category as a substring. Empty arguments
// match everything.
func (s *LibraryService) Filter(activityType, category string) []*model.LibraryActivity {
	return lo.Filter(s.activities, func(a *model.LibraryActivity, _ int) bool {
		if activityType != "" && a.Type != activityType {
			return false
		}
		return category == "" || strings.Contains(a.Category, category)
	})
}

func (s *LibraryService) ByKey(key string) (*model.LibraryActivity, error) {
	activity, ok := lo.Find(s.activities, func(a *model.LibraryActivity) bool {
		return a.Key == key
	})
	if !ok {
		return nil, ErrLibraryActivityNotFound
	}
	return activity, nil
}
