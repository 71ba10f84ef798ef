package model

import (
	"time"
)

// CatalogImage is a stock image filed under a three-level category path.
type CatalogImage struct {
	ID             string    `db:"id"`
	ImageURL       string    `db:"image_url"`
	Category       string    `db:"category"`
	Subcategory    string    `db:"subcategory"`
	SubSubcategory string    `db:"sub_subcategory"`
	CreatedAt      time.Time `db:"created_at"`
}

func (i *CatalogImage) Categories() []string {
	return []string{i.Category, i.Subcategory, i.SubSubcategory}
}
