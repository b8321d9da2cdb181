package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flighttrack-service/internal/domain/repository"
	"flighttrack-service/internal/infrastructure/config"
	"flighttrack-service/internal/infrastructure/persistence"
	"flighttrack-service/internal/interface/aeroapi"
	gormRepo "flighttrack-service/internal/interface/repository"
	"flighttrack-service/internal/usecase"
	"flighttrack-service/pkg/cache"
	"flighttrack-service/pkg/logger"
	"flighttrack-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	defer log.Sync()
	log.Info("Starting Flighttrack Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	referenceTZ, err := time.LoadLocation(cfg.ReferenceTimezone)
	if err != nil {
		log.Fatal("Invalid reference timezone", "timezone", cfg.ReferenceTimezone, "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run schema migrations
	if cfg.AutoMigrate {
		log.Info("Running schema migrations")
		if err := persistence.RunMigrations(cfg.PostgresURI); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
	}

	// Set up PostgreSQL connection
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	flightRepo := gormRepo.NewGormFlightRepository(gormDB)
	bookingRepo := gormRepo.NewGormBookingRepository(gormDB)
	txManager := gormRepo.NewGormTxManager(gormDB)

	// Webhook delivery archive is optional; no Mongo DSN means it stays off
	var archiveRepo repository.WebhookArchiveRepository
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		mongoDB, err := persistence.NewMongoDatabase(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		archiveRepo = gormRepo.NewMongoWebhookArchiveRepository(mongoDB)
		defer func() {
			if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
				log.Error("MongoDB disconnect error", "error", err)
			}
		}()
	}

	// Set up the aviation provider client
	aviationRepo := aeroapi.NewClient(cfg.AeroAPIBaseURL, cfg.AeroAPIKey, cfg.AeroAPITimeout, log)

	// Set up the validation cache and its background sweep
	validationCache := cache.NewValidationCache(cfg.CacheValueTTL, cfg.CacheNotFoundTTL, cfg.CacheSweepInterval)
	validationCache.Start()
	defer validationCache.Stop()

	// Set up usecases
	flightLookup := usecase.NewFlightLookup(aviationRepo, validationCache, referenceTZ, cfg.SupportedDestinations, log)
	alertCoordinator := usecase.NewAlertCoordinator(flightRepo, aviationRepo, log)
	webhookReconciler := usecase.NewWebhookReconciler(txManager, flightRepo, bookingRepo, archiveRepo, log)

	handler := &apiHandler{
		lookup:     flightLookup,
		alerts:     alertCoordinator,
		reconciler: webhookReconciler,
		metrics:    metrics.NewMetrics("flighttrack"),
		logger:     log,
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("GET /flights/validate", handler.handleValidateFlight)
	mux.HandleFunc("POST /webhooks/flight", handler.handleWebhook)
	mux.HandleFunc("POST /flights/{id}/alerts", handler.handleCreateAlert)
	mux.HandleFunc("DELETE /flights/{id}/alerts", handler.handleDeleteAlert)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	log.Info("Flighttrack Service stopped")
}
