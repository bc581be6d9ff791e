package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/hmkim/club-ledger/internal/config"
	"github.com/hmkim/club-ledger/internal/handler"
	"github.com/hmkim/club-ledger/internal/importer"
	"github.com/hmkim/club-ledger/internal/repository"
	"github.com/hmkim/club-ledger/internal/service"
	"github.com/hmkim/club-ledger/pkg/dates"
	"github.com/hmkim/club-ledger/pkg/logging"
	"github.com/hmkim/club-ledger/pkg/response"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level)

	// Initialize database
	db, err := repository.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err, "path", cfg.Database.Path)
		os.Exit(1)
	}
	defer db.Close()

	// Optional settlement summary cache
	var cache *redis.Client
	if cfg.CacheEnabled() {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer cache.Close()
	}

	// Initialize repositories
	participantRepo := repository.NewParticipantRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Initialize services
	statusEngine := service.NewStatusEngine(participantRepo)
	recorder := service.NewPaymentRecorder(participantRepo, paymentRepo, cache)
	aggregator := service.NewSettlementAggregator(participantRepo, paymentRepo, cache, cfg)
	registry := service.NewParticipantRegistry(participantRepo, cfg)
	backup := service.NewBackupService(participantRepo, paymentRepo)
	rosterImporter := importer.NewRosterImporter(registry)

	// Flag overdue participants once per session, before serving anything.
	// "Today" is derived in the configured timezone, same as the sweeper.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	asOf := dates.FromTime(time.Now().In(cfg.GetSweepLocation()))
	changed, err := statusEngine.SweepOverdue(startupCtx, asOf)
	startupCancel()
	if err != nil {
		slog.Error("startup overdue sweep failed", "error", err)
		os.Exit(1)
	}
	slog.Info("startup overdue sweep finished", "as_of", asOf, "lapsed_marked", changed)

	participantHandler := handler.NewParticipantHandler(registry, rosterImporter)
	paymentHandler := handler.NewPaymentHandler(recorder, aggregator, statusEngine)
	backupHandler := handler.NewBackupHandler(backup)
	healthHandler := handler.NewHealthHandler(db, cache, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(participantHandler, paymentHandler, backupHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.LoggingMiddleware(response.CORSMiddleware(router)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}

func setupRoutes(
	participantHandler *handler.ParticipantHandler,
	paymentHandler *handler.PaymentHandler,
	backupHandler *handler.BackupHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/participants", participantHandler.List).Methods("GET")
	api.HandleFunc("/participants", participantHandler.Register).Methods("POST")
	api.HandleFunc("/participants", participantHandler.DeleteAll).Methods("DELETE")
	api.HandleFunc("/participants/import", participantHandler.ImportRoster).Methods("POST")
	api.HandleFunc("/participants/bulk-delete", participantHandler.DeleteMany).Methods("POST")
	api.HandleFunc("/participants/{participantId}", participantHandler.Get).Methods("GET")
	api.HandleFunc("/participants/{participantId}", participantHandler.Update).Methods("PUT")
	api.HandleFunc("/participants/{participantId}", participantHandler.Delete).Methods("DELETE")
	api.HandleFunc("/participants/{participantId}/payments", paymentHandler.PaymentsForParticipant).Methods("GET")

	api.HandleFunc("/payments", paymentHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/payments/daily", paymentHandler.PaymentsByDate).Methods("GET")
	api.HandleFunc("/settlements/{year}/{month}", paymentHandler.MonthlySummary).Methods("GET")
	api.HandleFunc("/sweep", paymentHandler.Sweep).Methods("POST")

	api.HandleFunc("/backup", backupHandler.Export).Methods("GET")
	api.HandleFunc("/backup", backupHandler.Import).Methods("POST")

	return router
}
