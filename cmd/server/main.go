// Package main implements the entry point for the BMI API server, which
// records body mass index measurements for authenticated users.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/bmi-api/internal/config"
	"github.com/phrazzld/bmi-api/internal/platform/logger"
	"github.com/phrazzld/bmi-api/internal/platform/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status, version, reset) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		slog.Error("bmi-api exited with error", "error", err)
		os.Exit(1)
	}
}

// run loads configuration and either executes a migration command or serves
// HTTP until SIGINT or SIGTERM.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"metrics_enabled", cfg.Metrics.Enabled,
		"events_enabled", cfg.Events.AMQPURL != "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		log.Info("executing migrations", "command", migrateCmd)
		return postgres.Migrate(ctx, db, log, migrateCmd)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := newApplication(cfg, log, db, reg)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
