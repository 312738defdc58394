package container

import (
	"context"
	"fmt"
	"log/slog"

	"vision-kit/config"
	app "vision-kit/internal/application"
	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
	"vision-kit/internal/infrastructure/journal"
	"vision-kit/internal/infrastructure/openai"
	"vision-kit/internal/infrastructure/storage"
)

type Container struct {
	UserService       *app.UserService
	ImageService      *app.ImageService
	ExtractionService *app.ExtractionService
	PhotoService      *app.PhotoService
	VideoService      *app.VideoService
	Journal           port.Journal
}

// New собирает сервисы приложения. renderer рисует рамки в режиме detection.
func New(ctx context.Context, cfg *config.Config, renderer port.DetectionRenderer, logger *slog.Logger) (*Container, error) {
	mode := entity.SegmentMode(cfg.SegmentMode)
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown segment mode %q", cfg.SegmentMode)
	}

	artifactJournal, err := journal.Open(ctx, cfg.DatabaseURL, cfg.JournalPath)
	if err != nil {
		return nil, err
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		VisionModel: cfg.VisionModel,
		ImageModel:  cfg.ImageModel,
		MaxTokens:   cfg.MaxTokens,
	}, logger)

	store := storage.NewFileArtifactStore(map[entity.ArtifactKind]string{
		entity.KindGeneratedImage: cfg.GeneratedImagesDir,
		entity.KindMarkdown:       cfg.MarkdownDir,
		entity.KindCSV:            cfg.CSVDir,
		entity.KindVideo:          cfg.VideoDir,
	})

	userService := app.NewUserService(storage.NewMemoryUserRepository())
	extractionService := app.NewExtractionService(client.Vision(), store, artifactJournal, logger)

	detector := app.NewFrameSegmenter(client.Vision(), renderer, entity.ModeDetection, cfg.CallDelay, logger)
	segmenter := app.NewFrameSegmenter(client.Vision(), renderer, entity.ModeSegmentation, cfg.CallDelay, logger)
	videoProcessor := detector
	if mode == entity.ModeSegmentation {
		videoProcessor = segmenter
	}

	return &Container{
		UserService:       userService,
		ImageService:      app.NewImageService(client.Images(), store, artifactJournal, cfg.ImageSize, logger),
		ExtractionService: extractionService,
		PhotoService:      app.NewPhotoService(userService, extractionService, detector, segmenter),
		VideoService:      app.NewVideoService(videoProcessor, artifactJournal, logger),
		Journal:           artifactJournal,
	}, nil
}

// Close закрывает журнал артефактов.
func (c *Container) Close() error {
	return c.Journal.Close()
}
