package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/hmkim/club-ledger/internal/config"
	"github.com/hmkim/club-ledger/internal/repository"
	"github.com/hmkim/club-ledger/internal/service"
	"github.com/hmkim/club-ledger/pkg/dates"
	"github.com/hmkim/club-ledger/pkg/logging"
)

// The sweeper runs the overdue sweep on a schedule so participant statuses
// stay current even when the server sits idle for days.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level)
	slog.Info("starting sweeper", "schedule", cfg.Sweep.Schedule, "timezone", cfg.Sweep.Timezone)

	db, err := repository.Open(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err, "path", cfg.Database.Path)
		os.Exit(1)
	}
	defer db.Close()

	engine := service.NewStatusEngine(repository.NewParticipantRepository(db))
	location := cfg.GetSweepLocation()

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	_, err = c.AddFunc(cfg.Sweep.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		asOf := dates.FromTime(time.Now().In(location))
		changed, err := engine.SweepOverdue(ctx, asOf)
		if err != nil {
			slog.Error("overdue sweep failed", "as_of", asOf, "error", err)
			return
		}
		slog.Info("overdue sweep finished", "as_of", asOf, "lapsed_marked", changed)
	})
	if err != nil {
		slog.Error("failed to schedule sweep", "error", err)
		os.Exit(1)
	}

	c.Start()
	slog.Info("sweeper started")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down sweeper")
	<-c.Stop().Done()
	slog.Info("sweeper stopped")
}
