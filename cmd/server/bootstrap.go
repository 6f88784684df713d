package main

import (
	"context"
	"os"

	"github.com/rahasiadapur/backend/internal/config"
	"github.com/rahasiadapur/backend/internal/handlers"
	"github.com/rahasiadapur/backend/internal/models"
	"github.com/rahasiadapur/backend/internal/services"
	"github.com/rahasiadapur/backend/internal/storage"
	"github.com/rahasiadapur/backend/internal/store"
	"github.com/rahasiadapur/backend/internal/token"
	"github.com/rahasiadapur/backend/pkg/logger"
)

// appServices holds the initialized services and handlers wired together at
// boot.
type appServices struct {
	authHandler      *handlers.AuthHandler
	recipeHandler    *handlers.RecipeHandler
	tipHandler       *handlers.TipHandler
	userHandler      *handlers.UserHandler
	dashboardHandler *handlers.DashboardHandler
	codec            *token.Codec

	cleanup   *services.CleanupScheduler
	taskQueue services.TaskQueue
	worker    *services.Worker
}

// bootstrap initializes the database, stores, services, schedulers and the
// media purge queue.
func bootstrap(cfg *config.Config) *appServices {
	db, err := models.Open(&cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitActivityLogger(db)

	users := store.NewUsers(db)
	sessions := store.NewSessions(db)
	recipes := store.NewRecipes(db)
	tips := store.NewTips(db)

	codec := token.NewCodec(&cfg.JWT)
	authService := services.NewAuthService(users, sessions, codec)

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail != "" && adminPassword != "" {
		if err := authService.CreateAdminIfNotExists(adminEmail, adminPassword); err != nil {
			logger.Warn().Err(err).Msg("Failed to seed admin user")
		}
	}

	mediaStore, err := storage.NewMediaStore(&cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize media storage: %v", err)
	}

	taskQueue := services.NewTaskQueue(cfg)
	purge := func(ctx context.Context, task *services.MediaPurgeTask) error {
		if mediaStore == nil {
			return nil
		}
		return mediaStore.Delete(ctx, task.PublicID)
	}

	var worker *services.Worker
	if taskQueue.IsAsync() {
		worker = services.NewWorker(&cfg.Redis)
		worker.SetProcessor(purge)
		if err := worker.Start(); err != nil {
			logger.Fatalf("Failed to start worker: %v", err)
		}
	} else if sq, ok := taskQueue.(*services.SyncQueue); ok {
		sq.SetProcessor(purge)
	}

	cleanup := services.NewCleanupScheduler(db, sessions, codec.RefreshTTL())
	if err := cleanup.Start(); err != nil {
		logger.Fatalf("Failed to start cleanup scheduler: %v", err)
	}

	recipeService := services.NewRecipeService(recipes, mediaStore, taskQueue)
	tipService := services.NewTipService(tips, mediaStore, taskQueue)
	userService := services.NewUserService(users, sessions)
	dashboardService := services.NewDashboardService(db, users, recipes, tips)

	return &appServices{
		authHandler:      handlers.NewAuthHandler(authService, cfg.Cookie),
		recipeHandler:    handlers.NewRecipeHandler(recipeService),
		tipHandler:       handlers.NewTipHandler(tipService),
		userHandler:      handlers.NewUserHandler(userService),
		dashboardHandler: handlers.NewDashboardHandler(dashboardService),
		codec:            codec,
		cleanup:          cleanup,
		taskQueue:        taskQueue,
		worker:           worker,
	}
}

// shutdown stops background machinery in reverse boot order.
func (s *appServices) shutdown() {
	s.cleanup.Stop()
	if s.worker != nil {
		s.worker.Stop()
	}
	if err := s.taskQueue.Close(); err != nil {
		logger.Warn().Err(err).Msg("Task queue close failed")
	}
}
