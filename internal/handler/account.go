package handler

import (
	"net/http"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/ctxkeys"
	"github.com/ifuapp/ifu/internal/render"
	"github.com/ifuapp/ifu/internal/service"
)

var errProfileImageRequired = apperr.Validation("profile_image is required")

type accountHandler struct {
	userService    *service.UserService
	profileService *service.ProfileService
}

func NewAccountHandler(userService *service.UserService, profileService *service.ProfileService) *accountHandler {
	return &accountHandler{
		userService:    userService,
		profileService: profileService,
	}
}

type updateProfileRequest struct {
	Name      *string  `json:"name"`
	ZipCode   *string  `json:"zip_code"`
	Gender    *string  `json:"gender"`
	Timezone  *string  `json:"timezone"`
	AgeGroup  *string  `json:"age_group"`
	Interests []string `json:"interests" validate:"omitempty,max=50,dive,max=100"`
	Goals     []string `json:"goals" validate:"omitempty,max=50,dive,max=200"`
}

func (h *accountHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, err := h.userService.Account(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, account)
}

func (h *accountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req updateProfileRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	_, err = h.profileService.Update(userID, service.ProfileUpdate{
		Name:      req.Name,
		ZipCode:   req.ZipCode,
		Gender:    req.Gender,
		Timezone:  req.Timezone,
		AgeGroup:  req.AgeGroup,
		Interests: req.Interests,
		Goals:     req.Goals,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	h.Me(w, r)
}

func (h *accountHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	image, err := parseMultipart(w, r, "profile_image")
	if err != nil {
		render.Error(w, r, err)
		return
	}
	if image == nil {
		render.Error(w, r, errProfileImageRequired)
		return
	}
	defer closeImage(image)

	account, err := h.userService.UploadAvatar(r.Context(), ctxkeys.UserID(r.Context()), image.File, image.Header)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, account)
}

func (h *accountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	err := h.userService.DeleteAccount(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "Account deleted")
}
