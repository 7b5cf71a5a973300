package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"

	"giftwell/internal/api"
	"giftwell/internal/cache"
	"giftwell/internal/config"
	"giftwell/internal/metrics"
	"giftwell/internal/notify"
	"giftwell/internal/repository"
	"giftwell/internal/repository/postgres"
	"giftwell/internal/repository/supabase"
	"giftwell/internal/service"
	"giftwell/internal/status"
	"giftwell/internal/storage"
	"giftwell/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel)
	l.Info("Starting giftwell...")

	// Database
	db, err := config.NewDatabase(cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(cfg.MigrationsPath); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories. The member-view, claim, and profile gateways can talk to
	// a Supabase REST endpoint when one is configured; everything else hits
	// Postgres directly.
	var (
		profileRepo repository.ProfileRepository = postgres.NewProfileRepository(db.DB)
		itemRepo    repository.ItemRepository    = postgres.NewItemRepository(db.DB)
		statusRepo  repository.StatusRepository  = postgres.NewStatusRepository(db.DB)
	)
	if cfg.UseSupabase() {
		client := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		profileRepo = supabase.NewProfileRepository(client)
		itemRepo = supabase.NewItemRepository(client)
		statusRepo = supabase.NewStatusRepository(client)
		l.Info("Using Supabase REST gateway for items, statuses, and profiles")
	}

	listRepo := postgres.NewListRepository(db.DB)
	groupRepo := postgres.NewGroupRepository(db.DB)
	notificationRepo := postgres.NewNotificationRepository(db.DB)

	// Core wiring
	recorder := metrics.NewRecorder()
	store := cache.NewStore()
	images := storage.NewResolver(cfg.StorageBaseURL)
	reconciler := status.NewReconciler(statusRepo, recorder, l)

	svc := service.New(l, store, images, reconciler,
		profileRepo, itemRepo, statusRepo,
		listRepo, groupRepo, notificationRepo,
	)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		l.Info("Received shutdown signal...")
		cancel()
	}()

	// Notification digest, delivered over Telegram when a token is set.
	if cfg.TelegramToken != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, l)
		if err != nil {
			l.Fatalf("Failed to create Telegram notifier: %v", err)
		}
		go svc.StartNotificationDigest(ctx, cfg.DigestInterval, notifier.Send)
	} else {
		l.Warn("TELEGRAM_TOKEN not set, notification digest disabled")
	}

	// HTTP server
	apiServer := api.NewServer(svc, l, cfg.JWTSecret, recorder.Handler())
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: apiServer.Handler(),
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	l.Info("giftwell started successfully")

	<-ctx.Done()

	l.Info("Shutting down...")

	var result *multierror.Error

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, err)
	}
	if err := db.Close(); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		l.Errorf("Shutdown finished with errors: %v", err)
	} else {
		l.Info("giftwell stopped")
	}
}
