package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/ifuapp/ifu/internal/clock"
	"github.com/ifuapp/ifu/internal/config"
	"github.com/ifuapp/ifu/internal/db"
	"github.com/ifuapp/ifu/internal/middleware"
	"github.com/ifuapp/ifu/internal/repository"
	"github.com/ifuapp/ifu/internal/scheduler"
	"github.com/ifuapp/ifu/internal/service"
	"github.com/ifuapp/ifu/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	UserRepository      repository.UserRepository
	AuthService         *service.AuthService
	UserService         *service.UserService
	ProfileService      *service.ProfileService
	EmailService        *service.EmailService
	FileService         *service.FileService
	GoalService         *service.GoalService
	ActivityService     *service.ActivityService
	LibraryService      *service.LibraryService
	HabitService        *service.HabitService
	AchievementService  *service.AchievementService
	PostService         *service.PostService
	NotificationService *service.NotificationService
	ImageService        *service.ImageService
	MaintenanceService  *service.MaintenanceService
	Scheduler           *scheduler.Scheduler
	AuthRateLimiter     *middleware.RateLimiter
}

// New opens the database, runs migrations, connects object storage and wires
// every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Build(cfg, database, fileStorage, clock.System())
}

// Build wires the services over an already migrated database.
func Build(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage, clk clock.Clock) (*App, error) {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	codeRepository := repository.NewVerificationCodeRepository(database)
	fileRepository := repository.NewFileRepository(database)
	dailyGoalRepository := repository.NewDailyGoalRepository(database)
	weeklyGoalRepository := repository.NewWeeklyGoalRepository(database)
	activityRepository := repository.NewActivityRepository(database)
	fiveMinLogRepository := repository.NewFiveMinLogRepository(database)
	notToDoRepository := repository.NewNotToDoRepository(database)
	achievementRepository := repository.NewAchievementRepository(database)
	postRepository := repository.NewPostRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)
	imageRepository := repository.NewImageRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	fileService := service.NewFileService(fileRepository, fileStorage, clk)
	authService := service.NewAuthService(
		database,
		userRepository,
		profileRepository,
		codeRepository,
		emailService,
		clk,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.OTPExpiry,
	)
	userService := service.NewUserService(userRepository, profileRepository, fileService, emailService)
	profileService := service.NewProfileService(profileRepository, clk)
	goalService := service.NewGoalService(database, dailyGoalRepository, weeklyGoalRepository, clk, cfg.Location)
	activityService := service.NewActivityService(activityRepository, fiveMinLogRepository, clk, cfg.Location)
	habitService := service.NewHabitService(notToDoRepository, clk)
	achievementService := service.NewAchievementService(achievementRepository, fileService, clk)
	postService := service.NewPostService(database, postRepository, profileRepository, notificationRepository, fileService, clk)
	notificationService := service.NewNotificationService(notificationRepository, postRepository, profileRepository, fileService)
	imageService := service.NewImageService(imageRepository, clk)
	maintenanceService := service.NewMaintenanceService(codeRepository, clk)

	libraryService := service.NewLibraryService()
	err := libraryService.Load(cfg.ContentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity library: %w", err)
	}
	slog.Info("activity library loaded", "activities", len(libraryService.All()))

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		UserRepository:      userRepository,
		AuthService:         authService,
		UserService:         userService,
		ProfileService:      profileService,
		EmailService:        emailService,
		FileService:         fileService,
		GoalService:         goalService,
		ActivityService:     activityService,
		LibraryService:      libraryService,
		HabitService:        habitService,
		AchievementService:  achievementService,
		PostService:         postService,
		NotificationService: notificationService,
		ImageService:        imageService,
		MaintenanceService:  maintenanceService,
		Scheduler:           scheduler.New(cfg.CleanupSchedule, cfg.Location, maintenanceService),
		AuthRateLimiter:     middleware.NewRateLimiter(middleware.AuthRateLimit, middleware.AuthRateWindow),
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
