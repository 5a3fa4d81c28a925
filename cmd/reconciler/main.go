package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/magabrotheeeer/bms-server/internal/app/reconciler"
	"github.com/magabrotheeeer/bms-server/internal/config"
	"github.com/magabrotheeeer/bms-server/internal/lib/logger"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	log := logger.New(cfg.Env, os.Stdout)

	log.Info("starting reconciler",
		slog.String("env", cfg.Env),
		slog.String("schedule", cfg.ReconcileSchedule),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := reconciler.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize reconciler", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("reconciler stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("reconciler stopped gracefully")
}
