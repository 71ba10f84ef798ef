package handler

import (
	"net/http"

	"github.com/ifuapp/ifu/internal/ctxkeys"
	"github.com/ifuapp/ifu/internal/model"
	"github.com/ifuapp/ifu/internal/render"
	"github.com/ifuapp/ifu/internal/service"
)

type activityHandler struct {
	activityService    *service.ActivityService
	libraryService     *service.LibraryService
	habitService       *service.HabitService
	achievementService *service.AchievementService
}

func NewActivityHandler(
	activityService *service.ActivityService,
	libraryService *service.LibraryService,
	habitService *service.HabitService,
	achievementService *service.AchievementService,
) *activityHandler {
	return &activityHandler{
		activityService:    activityService,
		libraryService:     libraryService,
		habitService:       habitService,
		achievementService: achievementService,
	}
}

type completeActivityRequest struct {
	ActivityKey string                 `json:"activityKey" validate:"required,notblank"`
	Title       string                 `json:"title" validate:"required,notblank"`
	Response    *string                `json:"response"`
	Feedback    model.ActivityFeedback `json:"feedback"`
}

type logActivityRequest struct {
	ActivityKey string `json:"activityKey" validate:"required,notblank"`
	Title       string `json:"title" validate:"required,notblank"`
}

type habitsRequest struct {
	Habits []string `json:"habits" validate:"required,min=1"`
}

type activityLogResponse struct {
	Message string          `json:"message"`
	Log     *model.Activity `json:"log"`
}

func (h *activityHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeActivityRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	activity, err := h.activityService.Complete(ctxkeys.UserID(r.Context()), req.ActivityKey, req.Title, req.Response, req.Feedback)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, activityLogResponse{Message: "Activity saved", Log: activity})
}

func (h *activityHandler) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	var req completeActivityRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	activity, err := h.activityService.UpdateFeedback(ctxkeys.UserID(r.Context()), req.ActivityKey, req.Title, req.Feedback)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, activityLogResponse{Message: "Feedback updated", Log: activity})
}

func (h *activityHandler) Today(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.Today(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, activities)
}

func (h *activityHandler) History(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.History(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, activities)
}

func (h *activityHandler) Library(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, h.libraryService.All())
}

func (h *activityHandler) FilterLibrary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	render.JSON(w, http.StatusOK, h.libraryService.Filter(q.Get("type"), q.Get("category")))
}

func (h *activityHandler) LibraryActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.libraryService.ByKey(r.PathValue("activityKey"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, activity)
}

func (h *activityHandler) LogFiveMin(w http.ResponseWriter, r *http.Request) {
	var req logActivityRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	log, err := h.activityService.LogFiveMin(ctxkeys.UserID(r.Context()), req.ActivityKey, req.Title)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, log)
}

func (h *activityHandler) FiveMinLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.activityService.FiveMinLogs(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, logs)
}

func (h *activityHandler) SaveHabits(w http.ResponseWriter, r *http.Request) {
	var req habitsRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	count, err := h.habitService.Save(ctxkeys.UserID(r.Context()), req.Habits)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, map[string]any{
		"message":       "Habits saved successfully",
		"insertedCount": count,
	})
}

func (h *activityHandler) RecentHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := h.habitService.Recent(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]any{"habits": habits})
}

func (h *activityHandler) CreateAchievement(w http.ResponseWriter, r *http.Request) {
	image, err := parseMultipart(w, r, "image")
	if err != nil {
		render.Error(w, r, err)
		return
	}
	defer closeImage(image)

	achievement, err := h.achievementService.Create(r.Context(), ctxkeys.UserID(r.Context()), r.FormValue("achievementText"), image)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, map[string]any{
		"message":     "Achievement saved!",
		"achievement": achievement,
	})
}

func (h *activityHandler) MyAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.achievementService.Mine(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, achievements)
}

func (h *activityHandler) DeleteAchievement(w http.ResponseWriter, r *http.Request) {
	err := h.achievementService.Delete(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "Achievement deleted successfully")
}
