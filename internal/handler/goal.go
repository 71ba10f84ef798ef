package handler

import (
	"net/http"

	"github.com/ifuapp/ifu/internal/ctxkeys"
	"github.com/ifuapp/ifu/internal/render"
	"github.com/ifuapp/ifu/internal/service"
	"github.com/ifuapp/ifu/internal/tracker"
)

type goalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *goalHandler {
	return &goalHandler{
		goalService: goalService,
	}
}

type createDailyGoalRequest struct {
	Text string `json:"text" validate:"required,notblank"`
}

type createWeeklyGoalRequest struct {
	Text     string `json:"text" validate:"required,notblank"`
	Progress int    `json:"progress" validate:"gte=0,lte=100"`
}

type updateWeeklyGoalRequest struct {
	Text     *string `json:"text"`
	Progress *int    `json:"progress" validate:"omitnil,gte=0,lte=100"`
	Feedback string  `json:"feedback"`
}

func (h *goalHandler) CreateDaily(w http.ResponseWriter, r *http.Request) {
	var req createDailyGoalRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	goal, err := h.goalService.CreateDaily(ctxkeys.UserID(r.Context()), req.Text)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, goal)
}

func (h *goalHandler) TodayDaily(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.TodayDaily(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goals)
}

func (h *goalHandler) ToggleDaily(w http.ResponseWriter, r *http.Request) {
	goal, err := h.goalService.ToggleDaily(ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goal)
}

func (h *goalHandler) DeleteDaily(w http.ResponseWriter, r *http.Request) {
	err := h.goalService.DeleteDaily(ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "Daily goal deleted")
}

func (h *goalHandler) CompletedCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.goalService.CountCompletedDaily(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]int{"completedCount": count})
}

func (h *goalHandler) WeekStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.goalService.WeekStatus(ctxkeys.UserID(r.Context()), r.URL.Query().Get("week_start"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, status)
}

func (h *goalHandler) CreateWeekly(w http.ResponseWriter, r *http.Request) {
	var req createWeeklyGoalRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	goal, err := h.goalService.CreateWeekly(ctxkeys.UserID(r.Context()), req.Text, req.Progress)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, goal)
}

func (h *goalHandler) CurrentWeekly(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.CurrentWeekly(ctxkeys.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goals)
}

func (h *goalHandler) UpdateWeekly(w http.ResponseWriter, r *http.Request) {
	var req updateWeeklyGoalRequest
	err := decode(w, r, &req)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	goal, err := h.goalService.UpdateWeekly(ctxkeys.UserID(r.Context()), r.PathValue("id"), tracker.WeeklyUpdate{
		Text:     req.Text,
		Progress: req.Progress,
		Feedback: req.Feedback,
	})
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, goal)
}

func (h *goalHandler) WeeklyFeedback(w http.ResponseWriter, r *http.Request) {
	entries, err := h.goalService.Feedback(ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, entries)
}

func (h *goalHandler) DeleteWeekly(w http.ResponseWriter, r *http.Request) {
	err := h.goalService.DeleteWeekly(ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "Weekly goal deleted")
}
