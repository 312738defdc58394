package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vision-kit/config"
	telegram "vision-kit/internal/api"
	"vision-kit/internal/container"
	"vision-kit/internal/infrastructure/logging"
	"vision-kit/internal/infrastructure/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	if cfg.TelegramToken == "" {
		logger.Error("TELEGRAM_TOKEN is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Собираем сервисы приложения
	appContainer, err := container.New(ctx, cfg, render.NewCanvas(), logger)
	if err != nil {
		logger.Error("failed to build services", "err", err)
		os.Exit(1)
	}
	defer appContainer.Close()

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, logger)
	if err != nil {
		logger.Error("failed to create bot", "err", err)
		os.Exit(1)
	}

	logger.Info("bot is running")
	if err := bot.Run(ctx); err != nil {
		logger.Error("bot error", "err", err)
	}
}
