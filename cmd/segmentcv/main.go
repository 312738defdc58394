package main

import (
	"context"
	"log"
	"os"

	"vision-kit/config"
	"vision-kit/internal/container"
	"vision-kit/internal/infrastructure/logging"
	"vision-kit/internal/infrastructure/vision"
)

// Прореживает видео через OpenCV и пишет кадры в VideoWriter.
// Собирается с тегом gocv.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	ctx := context.Background()

	c, err := container.New(ctx, cfg, vision.NewRenderer(), logger)
	if err != nil {
		logger.Error("failed to build services", "err", err)
		os.Exit(1)
	}
	defer c.Close()

	if _, err := c.VideoService.Run(ctx, vision.NewBackend(), cfg.VideoPath, cfg.OutputVideoCVPath(), cfg.TargetFPS, cfg.MaxFrames); err != nil {
		logger.Error("video processing failed", "input", cfg.VideoPath, "err", err)
		c.Close()
		os.Exit(1)
	}
}
