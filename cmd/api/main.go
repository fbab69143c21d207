package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repairbot/internal/bot"
	"repairbot/internal/catalog"
	"repairbot/internal/http/router"
	"repairbot/internal/intake"
	"repairbot/internal/jobs"
	"repairbot/internal/notify"
	"repairbot/internal/prefs"
	"repairbot/internal/storage"
	"repairbot/internal/technicians"
	"repairbot/internal/twilio"
	"repairbot/internal/webhook"
	"repairbot/platform/config"
	"repairbot/platform/db"
	"repairbot/platform/events"
	"repairbot/platform/logger"
	"repairbot/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	twilioClient := twilio.NewClient(cfg, log)
	if twilioClient == nil {
		log.Warn("twilio credentials not configured; outbound sends disabled")
	}

	var relocator *storage.PhotoRelocator
	if cfg.IsMinIOEnabled() && twilioClient != nil {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		bucket := cfg.GetMinioBucketJobPhotos()
		if err := withRetry(ctx, log, "ensure job-photos bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, bucket)
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		relocator = storage.NewPhotoRelocator(storageSvc, twilioClient, bucket)
		log.Info("storage service initialized", "jobPhotosBucket", bucket)
	} else {
		log.Warn("photo relocation disabled; photos keep their provider URLs")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	jobStore := jobs.NewRepo(pool)
	jobService := jobs.NewService(jobStore)
	techService := technicians.NewService(technicians.NewRepo(pool), cfg.GetPlaceholderTTL(), log)
	prefService := prefs.NewService(prefs.NewRepo(pool), cfg.GetDefaultTZ(), log)
	priceStore := catalog.NewRepo(pool)

	notifyModule := notify.New(twilioClient, log)
	notifyModule.RegisterHandlers(eventBus)

	var photos intake.Relocator
	if relocator != nil {
		photos = relocator
	}
	intakeEngine := intake.New(jobStore, priceStore, photos, cfg.GetLaborPerScreen(), log)
	dispatcher := bot.New(jobService, jobStore, techService, prefService, priceStore,
		intakeEngine, eventBus, cfg.GetLaborPerScreen(), log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	sigValidator := twilio.NewSignatureValidator(cfg.GetTwilioAuthToken())
	engine := router.New(router.Options{
		Log:           log,
		Pool:          pool,
		Handler:       webhook.NewHandler(dispatcher, val),
		Signature:     webhook.SignatureMiddleware(sigValidator, cfg.GetPublicBaseURL(), log),
		RatePerMinute: cfg.GetWebhookRatePerMinute(),
		RateBurst:     cfg.GetWebhookRateBurst(),
	})

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
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
