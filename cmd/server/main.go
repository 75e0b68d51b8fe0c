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

	httpadapter "healthboard/internal/adapters/http"
	pg "healthboard/internal/adapters/postgres"
	"healthboard/internal/config"
	"healthboard/internal/ports"
	custsvc "healthboard/internal/services/customers"
	dashsvc "healthboard/internal/services/dashboard"
	scoresvc "healthboard/internal/services/scoring"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("config", "err", err)
	}
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connection and migrations are explicit, awaited startup steps; every
	// component receives the pool by reference.
	db, err := pg.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		logger.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Error("db migrate", "err", err)
		os.Exit(1)
	}

	// Wire repositories to services (ports)
	var _ ports.CustomerRepository = db
	var _ ports.MetricRepository = db
	var _ ports.ScoreRepository = db
	var _ ports.EventRepository = db
	var _ ports.DashboardRepository = db

	customers := custsvc.New(db, db)
	scorer := scoresvc.New(db, db, db, logger)
	dashboard := dashsvc.New(db)

	api := httpadapter.New(customers, scorer, dashboard, db.Ready, cfg.Env, logger)
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("listening", "addr", cfg.ListenAddr, "env", cfg.Env)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}
}
