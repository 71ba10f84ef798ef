package repository

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/model"
)

type ImageRepository interface {
	Create(img *model.CatalogImage) error
	// ByCategories returns images filed under every one of categories, at any
	// of their three levels, newest first.
	ByCategories(categories []string, limit int) ([]*model.CatalogImage, error)
	Recent(limit int) ([]*model.CatalogImage, error)
	Random(limit int) ([]*model.CatalogImage, error)
}

type imageRepository struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(img *model.CatalogImage) error {
	query := `INSERT INTO catalog_images (id, image_url, category, subcategory, sub_subcategory, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query, img.ID, img.ImageURL, img.Category, img.Subcategory, img.SubSubcategory, img.CreatedAt)
	return err
}

func (r *imageRepository) ByCategories(categories []string, limit int) ([]*model.CatalogImage, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT * FROM catalog_images WHERE 1 = 1`)

	args := make([]any, 0, len(categories)+1)
	for _, c := range categories {
		sb.WriteString(` AND ? IN (category, subcategory, sub_subcategory)`)
		args = append(args, c)
	}
	sb.WriteString(` ORDER BY created_at DESC LIMIT ?`)
	args = append(args, limit)

	images := []*model.CatalogImage{}
	err := r.db.Select(&images, r.db.Rebind(sb.String()), args...)
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) Recent(limit int) ([]*model.CatalogImage, error) {
	images := []*model.CatalogImage{}
	err := r.db.Select(&images, `SELECT * FROM catalog_images ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) Random(limit int) ([]*model.CatalogImage, error) {
	images := []*model.CatalogImage{}
	err := r.db.Select(&images, `SELECT * FROM catalog_images ORDER BY RANDOM() LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return images, nil
}
