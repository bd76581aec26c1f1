package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/noahxzhu/timetable-notify/internal/clock"
	"github.com/noahxzhu/timetable-notify/internal/config"
	"github.com/noahxzhu/timetable-notify/internal/notify"
	"github.com/noahxzhu/timetable-notify/internal/storage"
	"github.com/noahxzhu/timetable-notify/internal/worker"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	daemon := flag.Bool("daemon", false, "keep running and fire passes on the configured cron spec")
	flag.Parse()

	// Setup structured logger (JSON handler)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment")
	}

	// Load Config
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Time source in the configured zone
	clk, err := clock.New(cfg.Timezone)
	if err != nil {
		slog.Error("Failed to resolve timezone", "error", err)
		os.Exit(1)
	}

	// Init dedup state (fail-open: a broken file just means an empty store)
	store := storage.NewStore(cfg.Storage.FilePath)
	if err := store.Load(); err != nil {
		slog.Error("Failed to load state file", "error", err)
		os.Exit(1)
	}

	dispatcher := notify.NewDispatcher(
		notify.NewPushoverClient(cfg.Pushover.Token, cfg.Pushover.User, cfg.Pushover.Priority, cfg.Pushover.Sound),
		notify.NewMailClient(cfg.Mail.APIKey, cfg.Mail.Endpoint, cfg.Mail.From, cfg.Mail.To),
	)

	w := worker.NewWorker(cfg, clk, store, dispatcher)

	if *daemon {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		if err := w.RunDaemon(ctx, cfg.Daemon.Cron); err != nil {
			slog.Error("Daemon failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := w.RunOnce(context.Background()); err != nil {
		slog.Error("Reminder pass failed", "error", err)
		os.Exit(1)
	}
}
