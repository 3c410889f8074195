package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dumarte_backend/internal/adapters/storage"
	"dumarte_backend/internal/events"
	"dumarte_backend/internal/gallery"
	gallerysvc "dumarte_backend/internal/gallery/service"
	apphttp "dumarte_backend/internal/http"
	"dumarte_backend/internal/http/router"
	"dumarte_backend/internal/notification"
	"dumarte_backend/internal/quotes"
	"dumarte_backend/internal/stats"
	"dumarte_backend/internal/whatsapp"
	"dumarte_backend/platform/config"
	"dumarte_backend/platform/logger"
	"dumarte_backend/platform/validator"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Project images are presigned from MinIO when configured; otherwise the
	// references in the projects file are served as they are.
	var images gallerysvc.ImageResolver
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, storageSvc, "project-images", cfg.GetMinioBucketProjectImages())
		images = gallerysvc.NewStorageResolver(storageSvc, cfg.GetMinioBucketProjectImages())
		log.Info("storage service initialized", "projectImagesBucket", cfg.GetMinioBucketProjectImages())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; project images served as stored")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events
	notificationModule := notification.New(log)
	notificationModule.RegisterHandlers(eventBus)
	defer notificationModule.Close()
	if whatsappClient := whatsapp.NewClient(cfg, log); whatsappClient != nil {
		notificationModule.SetWhatsAppSender(whatsappClient, cfg.GetWhatsAppOperatorPhone())
		log.Info("whatsapp operator alerts enabled")
	}

	quotesModule := quotes.NewModule(cfg, eventBus, val, log)

	galleryModule, err := gallery.NewModule(cfg, images, eventBus, log)
	if err != nil {
		log.Error("failed to initialize gallery module", "error", err)
		panic("failed to initialize gallery module: " + err.Error())
	}
	defer func() { _ = galleryModule.Close() }()

	statsModule, err := stats.NewModule(cfg, val, log)
	if err != nil {
		log.Error("failed to initialize stats module", "error", err)
		panic("failed to initialize stats module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   galleryModule,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			quotesModule,
			galleryModule,
			statsModule,
			notificationModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		// Live SSE streams never end on their own.
		notificationModule.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
