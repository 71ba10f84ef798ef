package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/repository"
	"github.com/ifuapp/ifu/internal/storage"
	"github.com/ifuapp/ifu/internal/validation"
)

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
	clock    clock.Clock
}

func NewFileService(fileRepo repository.FileRepository, storage storage.Storage, clk clock.Clock) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
		clock:    clk,
	}
}

// Upload validates an image, stores it and records the file against its
// owner. Uploads are always public images.
func (s *FileService) Upload(ctx context.Context, userID, ownerType, ownerID, fileType string, file multipart.File, header *multipart.FileHeader) (*model.File, error) {
	err := validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.NewString() + ext
	storagePath := path.Join("public", fileType+"s", filename) // avatar -> avatars

	mimeType := header.Header.Get("Content-Type")
	err = s.storage.Save(ctx, storagePath, mimeType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	fileModel := &model.File{
		ID:           uuid.NewString(),
		UserID:       userID,
		OwnerType:    ownerType,
		OwnerID:      ownerID,
		Type:         fileType,
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         header.Size,
		StoragePath:  storagePath,
		Public:       true,
		CreatedAt:    s.clock.Now(),
	}

	err = s.fileRepo.Create(fileModel)
	if err != nil {
		delErr := s.storage.Delete(ctx, storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	return fileModel, nil
}

func (s *FileService) URL(file *model.File) string {
	if file == nil {
		return ""
	}
	return s.storage.URL(file.StoragePath, file.Public)
}

// OwnerURL returns the URL of the newest file of fileType for an owner, or ""
// when there is none.
func (s *FileService) OwnerURL(ownerType, ownerID, fileType string) (string, error) {
	file, err := s.fileRepo.FileByType(ownerType, ownerID, fileType)
	if errors.Is(err, repository.ErrFileNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return s.URL(file), nil
}

// URLs maps owner IDs to the URL of their newest file.
func (s *FileService) URLs(ownerType string, ownerIDs []string) (map[string]string, error) {
	files, err := s.fileRepo.FilesByOwners(ownerType, ownerIDs)
	if err != nil {
		return nil, err
	}

	urls := make(map[string]string, len(files))
	for ownerID, f := range files {
		urls[ownerID] = s.URL(f)
	}
	return urls, nil
}

// ReplaceAvatar uploads a new avatar and removes the previous ones.
func (s *FileService) ReplaceAvatar(ctx context.Context, userID string, file multipart.File, header *multipart.FileHeader) (*model.File, error) {
	previous, err := s.fileRepo.Files(model.OwnerTypeUser, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list avatars: %w", err)
	}

	avatar, err := s.Upload(ctx, userID, model.OwnerTypeUser, userID, model.FileTypeAvatar, file, header)
	if err != nil {
		return nil, err
	}

	for _, old := range previous {
		if old.Type != model.FileTypeAvatar {
			continue
		}
		s.remove(ctx, old)
	}

	return avatar, nil
}

// DeleteOwnerFiles removes every file attached to an owner. Storage failures
// are logged; the records are removed regardless.
func (s *FileService) DeleteOwnerFiles(ctx context.Context, ownerType, ownerID string) error {
	files, err := s.fileRepo.Files(ownerType, ownerID)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	for _, f := range files {
		s.remove(ctx, f)
	}
	return nil
}

func (s *FileService) remove(ctx context.Context, f *model.File) {
	err := s.storage.Delete(ctx, f.StoragePath)
	if err != nil {
		slog.Warn("failed to delete file from storage", "error", err, "storage_path", f.StoragePath)
	}

	err = s.fileRepo.Delete(f.ID)
	if err != nil {
		slog.Error("failed to delete file record", "error", err, "file_id", f.ID)
	}
}

// DeleteAllUserFilesFromStorage removes the stored objects of every file the
// user owns. Records go away with the user's cascade delete.
func (s *FileService) DeleteAllUserFilesFromStorage(ctx context.Context, userID string) error {
	files, err := s.fileRepo.AllUserFiles(userID)
	if err != nil {
		return fmt.Errorf("failed to get user files: %w", err)
	}

	for _, file := range files {
		err = s.storage.Delete(ctx, file.StoragePath)
		if err != nil {
			// Physical file may already be gone
			slog.Warn("failed to delete file from storage", "storage_path", file.StoragePath, "error", err)
		}
	}

	return nil
}
