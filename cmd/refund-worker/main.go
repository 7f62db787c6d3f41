package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/roadside-billing/internal/app/refundworker"
	"github.com/magabrotheeeer/roadside-billing/internal/config"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting refund worker", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := refundworker.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize refund worker", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("refund worker stopped with error", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("refund worker stopped gracefully")
}
