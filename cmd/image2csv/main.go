package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"vision-kit/config"
	app "vision-kit/internal/application"
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
	ctx := context.Background()

	c, err := container.New(ctx, cfg, render.NewCanvas(), logger)
	if err != nil {
		logger.Error("failed to build services", "err", err)
		os.Exit(1)
	}
	defer c.Close()

	res, err := c.ExtractionService.ToCSV(ctx, cfg.ImagePath)
	if err != nil {
		fmt.Println(app.FormatError(err))
		return
	}

	fmt.Println(res.Summary())
}
