package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/repository"
)

type UserService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	fileService       *FileService
	emailService      *EmailService
}

func NewUserService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	fileService *FileService,
	emailService *EmailService,
) *UserService {
	return &UserService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		fileService:       fileService,
		emailService:      emailService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	user.AvatarURL, err = s.fileService.OwnerURL(model.OwnerTypeUser, id, model.FileTypeAvatar)
	if err != nil {
		slog.Warn("failed to load avatar", "user_id", id, "error", err)
	}

	return user, nil
}

// Account returns the user with profile and avatar URL.
func (s *UserService) Account(userID string) (*model.Account, error) {
	user, err := s.ByID(userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepository.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &model.Account{User: user, Profile: profile}, nil
}

// UploadAvatar replaces the profile image and returns the refreshed account.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (*model.Account, error) {
	_, err := s.fileService.ReplaceAvatar(ctx, userID, file, header)
	if err != nil {
		return nil, err
	}

	slog.Info("avatar updated", "user_id", userID)
	return s.Account(userID)
}

func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return err
	}

	profile, err := s.profileRepository.ByUserID(userID)
	if err != nil {
		// Continue without profile name if not found
		slog.Warn("failed to get profile for deletion email", "user_id", userID, "error", err)
	}

	name := "there"
	if profile != nil && profile.Name != "" {
		name = profile.Name
	}

	err = s.fileService.DeleteAllUserFilesFromStorage(ctx, userID)
	if err != nil {
		// Orphaned objects are better than a failed deletion
		slog.Warn("failed to delete user files from storage", "user_id", userID, "error", err)
	}

	err = s.emailService.SendAccountDeletedEmail(ctx, user.Email, name)
	if err != nil {
		slog.Warn("failed to send account deleted email", "user_id", userID, "error", err)
	}

	// Foreign key CASCADE removes profile, goals, posts, likes, comments,
	// notifications, activities and file records.
	err = s.userRepository.Delete(userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}
