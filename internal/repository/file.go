package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/model"
)

var (
	ErrFileNotFound = apperr.NotFound("file not found")
)

type FileRepository interface {
	Create(file *model.File) error
	FileByType(ownerType, ownerID, fileType string) (*model.File, error)
	Files(ownerType, ownerID string) ([]*model.File, error)
	FilesByOwners(ownerType string, ownerIDs []string) (map[string]*model.File, error)
	AllUserFiles(userID string) ([]*model.File, error)
	Delete(id string) error
	WithTx(tx *sqlx.Tx) FileRepository
}

type fileRepository struct {
	db sqlx.Ext
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) WithTx(tx *sqlx.Tx) FileRepository {
	return &fileRepository{db: tx}
}

func (r *fileRepository) Create(file *model.File) error {
	query := `INSERT INTO files (id, user_id, owner_type, owner_id, type, filename, original_name, mime_type, size, storage_path, public, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(query,
		file.ID,
		file.UserID,
		file.OwnerType,
		file.OwnerID,
		file.Type,
		file.Filename,
		file.OriginalName,
		file.MimeType,
		file.Size,
		file.StoragePath,
		file.Public,
		file.CreatedAt,
	)

	return err
}

func (r *fileRepository) FileByType(ownerType, ownerID, fileType string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE owner_type = $1 AND owner_id = $2 AND type = $3 ORDER BY created_at DESC LIMIT 1`

	err := sqlx.Get(r.db, file, query, ownerType, ownerID, fileType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}

	return file, nil
}

func (r *fileRepository) Files(ownerType, ownerID string) ([]*model.File, error) {
	var files []*model.File
	query := `SELECT * FROM files WHERE owner_type = $1 AND owner_id = $2 ORDER BY created_at DESC`

	err := sqlx.Select(r.db, &files, query, ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

// FilesByOwners returns the newest file per owner.
func (r *fileRepository) FilesByOwners(ownerType string, ownerIDs []string) (map[string]*model.File, error) {
	byOwner := make(map[string]*model.File, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return byOwner, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM files WHERE owner_type = ? AND owner_id IN (?) ORDER BY created_at ASC`, ownerType, ownerIDs)
	if err != nil {
		return nil, err
	}

	var files []*model.File
	err = sqlx.Select(r.db, &files, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	// Ascending order, so later rows win.
	for _, f := range files {
		byOwner[f.OwnerID] = f
	}
	return byOwner, nil
}

func (r *fileRepository) AllUserFiles(userID string) ([]*model.File, error) {
	var files []*model.File
	query := `SELECT * FROM files WHERE user_id = $1 ORDER BY created_at DESC`

	err := sqlx.Select(r.db, &files, query, userID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM files WHERE id = $1`, id)
	return err
}
