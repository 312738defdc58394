package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"time"

	_ "golang.org/x/image/webp"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

// ImageService генерирует картинки по тексту и сохраняет их как PNG.
type ImageService struct {
	generator port.ImageGenerator
	store     port.ArtifactStore
	journal   port.Journal
	size      string
	logger    *slog.Logger
	now       func() time.Time
}

// NewImageService создаёт сервис генерации картинок размера size.
func NewImageService(generator port.ImageGenerator, store port.ArtifactStore, journal port.Journal, size string, logger *slog.Logger) *ImageService {
	return &ImageService{
		generator: generator,
		store:     store,
		journal:   journal,
		size:      size,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate запрашивает одну картинку и возвращает путь к сохранённому PNG.
// Имя файла строится из первых 30 символов промпта.
func (s *ImageService) Generate(ctx context.Context, prompt string) (string, error) {
	raw, err := s.generator.GenerateImage(ctx, prompt, s.size)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode generated image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}

	path, err := s.store.Save(ctx, entity.KindGeneratedImage, entity.SanitizeStem(prompt), "png", buf.Bytes())
	if err != nil {
		return "", err
	}

	s.record(ctx, entity.NewArtifactRecord(entity.KindGeneratedImage, prompt, path, s.generator.Name(), s.now()))
	s.logger.Info("image generated", "path", path, "source_format", format, "model", s.generator.Name())

	return path, nil
}

func (s *ImageService) record(ctx context.Context, rec entity.ArtifactRecord) {
	if err := s.journal.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to journal artifact", "path", rec.Path, "err", err)
	}
}
