package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/service"
	"github.com/ifuapp/ifu/internal/validation"
)

const (
	maxJSONBody   = 1 << 20  // 1MB
	maxUploadBody = 12 << 20 // image limit plus form fields
)

var (
	errInvalidBody      = apperr.Validation("invalid request body")
	errInvalidMultipart = apperr.Validation("invalid multipart form")
)

// decode reads a JSON body into dst and validates its struct tags.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}

	return validation.Struct(dst)
}

// parseMultipart parses a multipart form and returns the optional image in
// field. The caller closes the returned file.
func parseMultipart(w http.ResponseWriter, r *http.Request, field string) (*service.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

	err := r.ParseMultipartForm(maxUploadBody)
	if err != nil {
		return nil, errInvalidMultipart
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errInvalidMultipart
	}

	return &service.Image{File: file, Header: header}, nil
}

func closeImage(img *service.Image) {
	if img != nil {
		_ = img.File.Close()
	}
}
