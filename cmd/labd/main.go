package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lab-reservation-backend/config"
	"lab-reservation-backend/internal/api"
	"lab-reservation-backend/internal/archive"
	"lab-reservation-backend/internal/credential"
	"lab-reservation-backend/internal/db"
	"lab-reservation-backend/internal/lab"
	"lab-reservation-backend/internal/metrics"
	"lab-reservation-backend/internal/mw"
	"lab-reservation-backend/internal/notification"
	"lab-reservation-backend/internal/parse"
	"lab-reservation-backend/internal/seed"
	"lab-reservation-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "labd ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	policy, err := parse.Policy(cfg.Lab.ConflictPolicy)
	if err != nil {
		logger.Fatalf("invalid lab.conflict_policy: %v", err)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	appStore := store.NewGormStore(gormDB)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.New()
	observers := lab.Observers{collector}

	var archiver *archive.WorkerPool
	if cfg.Archive.Enabled {
		archiver = archive.NewWorkerPool(cfg.WorkerPool.Size, cfg.Archive.QueueSize, appStore)
		archiver.Start(ctx)
		observers = append(observers, archiver)
	} else {
		logger.Println("session archive disabled")
	}

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pusher := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions)
		pusher.Start(ctx)
		observers = append(observers, pusher)
	} else {
		logger.Println("VAPID keys not configured; web push disabled")
	}

	manager := lab.NewManager(
		lab.WithPolicy(policy),
		lab.WithObserver(observers),
		lab.WithPasswordVerifier(credential.Verify),
		lab.WithClockSkew(cfg.Lab.ClockSkew),
		lab.WithPenalties(cfg.Lab.LateReturnPenalty, cfg.Lab.OverdueExtendPenalty),
	)
	if err := seed.Apply(manager, cfg.Seed); err != nil {
		logger.Fatalf("failed to seed lab: %v", err)
	}

	// Initialize router
	handler := api.NewHandler(manager, appStore, mw.NewSessions(cfg.Server.SessionTTL), webpushOptions)
	router := api.NewRouter(handler, api.RouterConfig{
		RateLimitPerSec: cfg.Server.RateLimitPerSec,
		RateLimitBurst:  cfg.Server.RateLimitBurst,
		Metrics:         collector.Handler(),
	})
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	// Stop the workers; the archive flushes sessions still queued.
	cancel()
	if archiver != nil {
		archiver.Wait()
	}

	logger.Println("Server gracefully stopped")
}
