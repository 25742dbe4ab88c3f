package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"meal-orders/api"
	"meal-orders/bot"
	"meal-orders/config"
	"meal-orders/db"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg, logger)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx, cfg.DB); err != nil {
		logger.Fatalw("connect to database", "error", err)
	}
	defer db.Close()

	// Optional auto-migration (useful in production and for fresh DBs).
	// Set AUTO_MIGRATE=1 (or "true") to enable.
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
		if err := applyMigrations(ctx, logger); err != nil {
			logger.Fatalw("migrate", "error", err)
		}
	}

	var notifier api.DriverNotifier
	if cfg.Telegram.DriverToken != "" {
		driverBot, err := bot.NewDriverBot(cfg, logger)
		if err != nil {
			logger.Fatalw("driver bot", "error", err)
		}
		go driverBot.Start(ctx)
		notifier = driverBot
		logger.Info("driver bot started")
	} else {
		logger.Warn("DRIVER_BOT_TOKEN not set, driver notifications disabled")
	}

	h := api.NewHandler(cfg, logger, notifier)
	if err := run(ctx, cfg, logger, api.NewRouter(h)); err != nil {
		logger.Fatalw("server", "error", err)
	}
}

func newLogger(cfg *config.Config) *zap.SugaredLogger {
	if cfg.IsDevelopment() {
		return zap.Must(zap.NewDevelopment()).Sugar()
	}
	return zap.Must(zap.NewProduction()).Sugar()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, mux http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info("shutdown signal caught")

		sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		shutdown <- srv.Shutdown(sctx)
	}()

	logger.Infow("server has started", "addr", cfg.HTTP.Addr, "env", cfg.AppEnv)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdown; err != nil {
		return err
	}
	logger.Infow("server has stopped", "addr", cfg.HTTP.Addr)
	return nil
}

func runMigrate(cfg *config.Config, logger *zap.SugaredLogger) {
	ctx := context.Background()
	if err := db.Init(ctx, cfg.DB); err != nil {
		logger.Fatalw("connect to database", "error", err)
	}
	defer db.Close()

	if err := applyMigrations(ctx, logger); err != nil {
		logger.Fatalw("migrate", "error", err)
	}
}
