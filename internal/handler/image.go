package handler

import (
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/render"
	"github.com/ifuapp/ifu/internal/service"
)

var errInvalidLimit = apperr.Validation("limit must be a positive integer")

type imageHandler struct {
	imageService *service.ImageService
}

func NewImageHandler(imageService *service.ImageService) *imageHandler {
	return &imageHandler{
		imageService: imageService,
	}
}

type categoriesRequest struct {
	Categories []string `json:"categories" validate:"required,min=1"`
}

type uploadImageRequest struct {
	ImageURL   string   `json:"image_url" validate:"required,url"`
	Categories []string `json:"categories" validate:"required,len=3,dive,notblank"`
}

type imageView struct {
	ID         string   `json:"id"`
	ImageURL   string   `json:"image_url"`
	Categories []string `json:"categories"`
}

type imagesResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Images  []imageView `json:"images"`
}

func toImageViews(images []*model.CatalogImage) imagesResponse {
	views := lo.Map(images, func(img *model.CatalogImage, _ int) imageView {
		return imageView{ID: img.ID, ImageURL: img.ImageURL, Categories: img.Categories()}
	})
	return imagesResponse{Success: true, Count: len(views), Images: views}
}

func (h *imageHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	var req categoriesRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	images, err := h.imageService.ByCategories(req.Categories)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toImageViews(images))
}

func (h *imageHandler) All(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			render.Error(w, r, errInvalidLimit)
			return
		}
		limit = n
	}

	images, err := h.imageService.List(q.Get("random") == "true", limit)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toImageViews(images))
}

func (h *imageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadImageRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	img, err := h.imageService.Add(req.ImageURL, req.Categories)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"image":   toImageViews([]*model.CatalogImage{img}).Images[0],
	})
}
