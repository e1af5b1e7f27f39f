package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"destination-travel-api/config"
	"destination-travel-api/db"
	"destination-travel-api/logger"
	"destination-travel-api/metrics"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// load configuration (.env, optional file, env)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	// the port flag overrides the configured port
	port := flag.String("port", cfg.Port, "Port on which the server listens")
	flag.Parse()
	cfg.Port = *port

	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// init db
	database, err := db.InitDB(cfg, log)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer func() {
		if err := db.CloseDB(database); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	if err = db.InitSchema(database); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder, err := newMetricsRecorder(cfg, database)
	if err != nil {
		return err
	}

	server := SetupServer(cfg, db.NewDestinationDAO(database), recorder, log)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			zap.String("addr", server.Addr),
			zap.String("db_driver", cfg.DBDriver),
			zap.String("test_mode", cfg.TestMode))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newMetricsRecorder also exports the connection pool stats of the database.
func newMetricsRecorder(cfg *config.Config, database *gorm.DB) (*metrics.Recorder, error) {
	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get DB from gorm: %w", err)
	}

	recorder := metrics.NewRecorder()
	if err = recorder.Registry().Register(collectors.NewDBStatsCollector(sqlDB, cfg.DatabaseName())); err != nil {
		return nil, fmt.Errorf("registering database stats collector: %w", err)
	}
	return recorder, nil
}
