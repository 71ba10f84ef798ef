package routes

import (
	"net/http"

	"github.com/ifuapp/ifu/internal/app"
	"github.com/ifuapp/ifu/internal/handler"
	"github.com/ifuapp/ifu/internal/middleware"
	"github.com/ifuapp/ifu/internal/render"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.UserService, app.Cfg)
	account := handler.NewAccountHandler(app.UserService, app.ProfileService)
	goal := handler.NewGoalHandler(app.GoalService)
	activity := handler.NewActivityHandler(app.ActivityService, app.LibraryService, app.HabitService, app.AchievementService)
	post := handler.NewPostHandler(app.PostService, app.NotificationService)
	image := handler.NewImageHandler(app.ImageService)

	mux := http.NewServeMux()
	rateLimit := middleware.RateLimit(app.AuthRateLimiter)
	protected := middleware.RequireAuth

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := app.DB.PingContext(r.Context()); err != nil {
			render.ErrorMessage(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth flow (rate limited)
	mux.HandleFunc("POST /api/auth/check-email", auth.CheckEmail)
	mux.HandleFunc("POST /api/auth/request-otp", rateLimit(auth.RequestOTP))
	mux.HandleFunc("POST /api/auth/request-password-reset-otp", rateLimit(auth.RequestPasswordResetOTP))
	mux.HandleFunc("POST /api/auth/verify-otp", rateLimit(auth.VerifyOTP))
	mux.HandleFunc("POST /api/auth/reset-password", rateLimit(auth.ResetPassword))
	mux.HandleFunc("POST /api/auth/signup", rateLimit(auth.Signup))
	mux.HandleFunc("POST /api/auth/login", rateLimit(auth.Login))

	// OAuth
	mux.HandleFunc("GET /api/auth/google", rateLimit(auth.GoogleAuth))
	mux.HandleFunc("GET /api/auth/google/callback", rateLimit(auth.GoogleCallback))

	// Image catalog
	mux.HandleFunc("POST /api/images/by-category", image.ByCategory)
	mux.HandleFunc("GET /api/images/all", image.All)

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Account
	mux.HandleFunc("GET /api/auth/me", protected(account.Me))
	mux.HandleFunc("GET /api/auth/profile", protected(account.Me))
	mux.HandleFunc("PUT /api/auth/profile", protected(account.UpdateProfile))
	mux.HandleFunc("POST /api/auth/profile/image", protected(account.UploadProfileImage))
	mux.HandleFunc("DELETE /api/auth/account", protected(account.DeleteAccount))

	// Daily goals
	mux.HandleFunc("POST /api/dailygoals", protected(goal.CreateDaily))
	mux.HandleFunc("GET /api/dailygoals", protected(goal.TodayDaily))
	mux.HandleFunc("PATCH /api/dailygoals/{id}/toggle", protected(goal.ToggleDaily))
	mux.HandleFunc("DELETE /api/dailygoals/{id}", protected(goal.DeleteDaily))
	mux.HandleFunc("GET /api/dailygoals/completed/count", protected(goal.CompletedCount))
	mux.HandleFunc("GET /api/dailygoals/weekly/status", protected(goal.WeekStatus))

	// Weekly goals
	mux.HandleFunc("POST /api/weekly-goals", protected(goal.CreateWeekly))
	mux.HandleFunc("GET /api/weekly-goals", protected(goal.CurrentWeekly))
	mux.HandleFunc("PATCH /api/weekly-goals/{id}", protected(goal.UpdateWeekly))
	mux.HandleFunc("DELETE /api/weekly-goals/{id}", protected(goal.DeleteWeekly))
	mux.HandleFunc("GET /api/weekly-goals/{id}/feedback", protected(goal.WeeklyFeedback))

	// Activities
	mux.HandleFunc("POST /api/activities/complete", protected(activity.Complete))
	mux.HandleFunc("POST /api/activities/update-feedback", protected(activity.UpdateFeedback))
	mux.HandleFunc("GET /api/activities/today", protected(activity.Today))
	mux.HandleFunc("GET /api/activities/history", protected(activity.History))

	// Five minute activities
	mux.HandleFunc("GET /api/five-min-activities/library", protected(activity.Library))
	mux.HandleFunc("GET /api/five-min-activities/library/filter", protected(activity.FilterLibrary))
	mux.HandleFunc("GET /api/five-min-activities/library/{activityKey}", protected(activity.LibraryActivity))
	mux.HandleFunc("POST /api/five-min-activities/log", protected(activity.LogFiveMin))
	mux.HandleFunc("GET /api/five-min-activities/logs", protected(activity.FiveMinLogs))

	// Not-to-do habits
	mux.HandleFunc("POST /api/not-to-do", protected(activity.SaveHabits))
	mux.HandleFunc("GET /api/not-to-do/recent", protected(activity.RecentHabits))

	// Achievements
	mux.HandleFunc("POST /api/icompleted", protected(activity.CreateAchievement))
	mux.HandleFunc("GET /api/icompleted/my", protected(activity.MyAchievements))
	mux.HandleFunc("DELETE /api/icompleted/{id}", protected(activity.DeleteAchievement))

	// Posts
	mux.HandleFunc("POST /api/posts", protected(post.Create))
	mux.HandleFunc("GET /api/posts/feed", protected(post.Feed))
	mux.HandleFunc("GET /api/posts/my-posts", protected(post.MyPosts))
	mux.HandleFunc("PUT /api/posts/{id}/like", protected(post.ToggleLike))
	mux.HandleFunc("POST /api/posts/{id}/comment", protected(post.Comment))
	mux.HandleFunc("DELETE /api/posts/{id}", protected(post.Delete))

	// Notifications
	mux.HandleFunc("GET /api/notifications", protected(post.Notifications))
	mux.HandleFunc("PUT /api/notifications/{id}/read", protected(post.MarkNotificationRead))
	mux.HandleFunc("PUT /api/notifications/read-all", protected(post.MarkAllNotificationsRead))
	mux.HandleFunc("GET /api/notifications/unread-count", protected(post.UnreadCount))
	mux.HandleFunc("DELETE /api/notifications/{id}", protected(post.DeleteNotification))

	// Catalog uploads
	mux.HandleFunc("POST /api/images/upload", protected(image.Upload))

	// Fallback
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		render.ErrorMessage(w, http.StatusNotFound, "Not found")
	})

	// Global middleware
	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.CORS(app.Cfg.CORSAllowedOrigins),
		middleware.Config(app.Cfg),
		middleware.AuthMiddleware(app.AuthService, app.UserRepository),
	)
}
