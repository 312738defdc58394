package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

// Extraction результат перевода картинки в текст.
type Extraction struct {
	Kind    entity.ArtifactKind
	Path    string
	Content string
}

// Summary возвращает человекочитаемый итог: куда сохранено и что.
func (e *Extraction) Summary() string {
	label := "Markdown"
	if e.Kind == entity.KindCSV {
		label = "CSV"
	}
	return fmt.Sprintf("%s saved to: %s\n\nContent:\n%s", label, e.Path, e.Content)
}

// ExtractionService переводит картинки в markdown и CSV через vision-модель.
type ExtractionService struct {
	model   port.VisionModel
	store   port.ArtifactStore
	journal port.Journal
	logger  *slog.Logger
	now     func() time.Time
}

// NewExtractionService создаёт сервис извлечения текста из картинок.
func NewExtractionService(model port.VisionModel, store port.ArtifactStore, journal port.Journal, logger *slog.Logger) *ExtractionService {
	return &ExtractionService{
		model:   model,
		store:   store,
		journal: journal,
		logger:  logger,
		now:     time.Now,
	}
}

// ToMarkdown читает картинку с диска и сохраняет её содержимое как markdown.
func (s *ExtractionService) ToMarkdown(ctx context.Context, imagePath string) (*Extraction, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return s.Markdown(ctx, imagePath, data)
}

// ToCSV читает картинку с диска и сохраняет первую таблицу из ответа как CSV.
func (s *ExtractionService) ToCSV(ctx context.Context, imagePath string) (*Extraction, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return s.CSV(ctx, imagePath, data)
}

// Markdown отправляет картинку модели и сохраняет ответ целиком.
// source задаёт имя файла результата и попадает в журнал.
func (s *ExtractionService) Markdown(ctx context.Context, source string, data []byte) (*Extraction, error) {
	answer, err := s.ask(ctx, promptMarkdown, data)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, entity.KindMarkdown, "md", source, answer)
}

// CSV отправляет картинку модели и сохраняет строки первого блока ```csv без заголовка.
func (s *ExtractionService) CSV(ctx context.Context, source string, data []byte) (*Extraction, error) {
	answer, err := s.ask(ctx, promptCSV, data)
	if err != nil {
		return nil, err
	}

	table, err := entity.ParseCSVFence(answer)
	if err != nil {
		s.logger.Warn("model answer has no csv block", "source", source, "answer", answer)
		return nil, fmt.Errorf("parse csv answer: %w", err)
	}

	return s.save(ctx, entity.KindCSV, "csv", source, table.Body())
}

func (s *ExtractionService) ask(ctx context.Context, prompt string, data []byte) (string, error) {
	mimeType := DetectImageType(data)
	s.logger.Debug("sending image to model", "model", s.model.Name(), "bytes", len(data), "mime", mimeType)

	answer, err := s.model.DescribeImage(ctx, prompt, data, mimeType)
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	return answer, nil
}

func (s *ExtractionService) save(ctx context.Context, kind entity.ArtifactKind, ext, source, content string) (*Extraction, error) {
	path, err := s.store.Save(ctx, kind, entity.FileStem(source), ext, []byte(content))
	if err != nil {
		return nil, err
	}

	if err := s.journal.Record(ctx, entity.NewArtifactRecord(kind, source, path, s.model.Name(), s.now())); err != nil {
		s.logger.Warn("failed to journal artifact", "path", path, "err", err)
	}
	s.logger.Info("extraction saved", "kind", kind, "path", path)

	return &Extraction{Kind: kind, Path: path, Content: content}, nil
}

// DetectImageType определяет MIME-тип картинки по сигнатуре; неизвестное считается JPEG.
func DetectImageType(data []byte) string {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "image/jpeg"
	}
	return mimeType
}
