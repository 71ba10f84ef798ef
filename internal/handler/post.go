package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ifuapp/ifu/internal/apperr"
	"github.com/ifuapp/ifu/internal/ctxkeys"
	"github.com/ifuapp/ifu/internal/render"
	"github.com/ifuapp/ifu/internal/service"
)

var errInvalidHashtags = apperr.Validation("hashtags must be a JSON array of strings")

type postHandler struct {
	postService         *service.PostService
	notificationService *service.NotificationService
}

func NewPostHandler(postService *service.PostService, notificationService *service.NotificationService) *postHandler {
	return &postHandler{
		postService:         postService,
		notificationService: notificationService,
	}
}

type commentRequest struct {
	Text string `json:"text" validate:"required,notblank"`
}

// Create accepts a multipart form with text, an optional JSON array of
// hashtags and an optional image.
func (h *postHandler) Create(w http.ResponseWriter, r *http.Request) {
	image, err := parseMultipart(w, r, "image")
	if err != nil {
		render.Error(w, r, err)
		return
	}
	defer closeImage(image)

	var hashtags []string
	raw := strings.TrimSpace(r.FormValue("hashtags"))
	if raw != "" {
		err = json.Unmarshal([]byte(raw), &hashtags)
		if err != nil {
			render.Error(w, r, errInvalidHashtags)
			return
		}
	}

	post, err := h.postService.Create(r.Context(), ctxkeys.UserID(r.Context()), r.FormValue("text"), hashtags, image)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, map[string]any{
		"id":       post.ID,
		"hashtags": post.Hashtags,
		"message":  "Post created successfully",
	})
}

func (h *postHandler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.Feed(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, posts)
}

func (h *postHandler) MyPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ByUser(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, posts)
}

func (h *postHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	result, err := h.postService.ToggleLike(ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	message := "Post unliked"
	if result.Liked {
		message = "Post liked"
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"liked":   result.Liked,
		"likes":   result.Likes,
		"message": message,
	})
}

func (h *postHandler) Comment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	comments, err := h.postService.Comment(ctxkeys.UserID(r.Context()), r.PathValue("id"), req.Text)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"message":  "Comment added",
		"comments": comments,
	})
}

func (h *postHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.postService.Delete(ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "Post deleted")
}

func (h *postHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notificationService.Recent(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, notifications)
}

func (h *postHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	err := h.notificationService.MarkRead(ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "Notification marked as read")
}

func (h *postHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	err := h.notificationService.MarkAllRead(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "All notifications marked as read")
}

func (h *postHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.UnreadCount(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *postHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	err := h.notificationService.Delete(ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "Notification deleted")
}
