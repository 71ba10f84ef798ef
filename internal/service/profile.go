package service

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/repository"
	"github.com/ifuapp/ifu/internal/validation"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	clock       clock.Clock
}

func NewProfileService(profileRepo repository.ProfileRepository, clk clock.Clock) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		clock:       clk,
	}
}

// ProfileUpdate is a partial update; nil fields are left unchanged.
type ProfileUpdate struct {
	Name      *string
	ZipCode   *string
	Gender    *string
	Timezone  *string
	AgeGroup  *string
	Interests []string
	Goals     []string
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	return s.profileRepo.ByUserID(userID)
}

// Update applies u and marks the profile completed.
func (s *ProfileService) Update(userID string, u ProfileUpdate) (*model.Profile, error) {
	profile, err := s.profileRepo.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		err = validation.ValidateName(name)
		if err != nil {
			return nil, err
		}
		profile.Name = name
	}
	if u.ZipCode != nil {
		profile.ZipCode = strings.TrimSpace(*u.ZipCode)
	}
	if u.Gender != nil {
		profile.Gender = strings.TrimSpace(*u.Gender)
	}
	if u.Timezone != nil {
		profile.Timezone = strings.TrimSpace(*u.Timezone)
	}
	if u.AgeGroup != nil {
		profile.AgeGroup = strings.TrimSpace(*u.AgeGroup)
	}
	if u.Interests != nil {
		profile.Interests = cleanList(u.Interests)
	}
	if u.Goals != nil {
		profile.Goals = cleanList(u.Goals)
	}

	profile.ProfileCompleted = true
	profile.UpdatedAt = s.clock.Now()

	err = s.profileRepo.Update(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// cleanList trims entries and drops blanks and duplicates.
func cleanList(values []string) []string {
	trimmed := lo.Map(values, func(v string, _ int) string { return strings.TrimSpace(v) })
	return lo.Uniq(lo.Compact(trimmed))
}
