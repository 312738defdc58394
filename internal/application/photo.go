package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"

	"vision-kit/internal/domain/entity"
)

// ErrUnexpectedPhoto пользователь прислал фото, не выбрав операцию.
var ErrUnexpectedPhoto = errors.New("photo was not requested")

// PhotoResult ответ на присланное в бот фото.
type PhotoResult struct {
	Text     string // итог для пользователя
	Document string // путь к сохранённому файлу, если он есть
	Image    []byte // PNG с результатом обработки кадра
}

// PhotoService обрабатывает фото из бота согласно состоянию пользователя.
type PhotoService struct {
	users      *UserService
	extraction *ExtractionService
	detector   FrameProcessor
	segmenter  FrameProcessor
}

// NewPhotoService создаёт сервис, который ведёт пользователя от выбора операции к результату.
func NewPhotoService(users *UserService, extraction *ExtractionService, detector, segmenter FrameProcessor) *PhotoService {
	return &PhotoService{
		users:      users,
		extraction: extraction,
		detector:   detector,
		segmenter:  segmenter,
	}
}

// Process обрабатывает фото и возвращает пользователя в главное меню.
// source используется как имя исходного файла для результатов.
func (s *PhotoService) Process(ctx context.Context, user *entity.User, source string, photo []byte) (*PhotoResult, error) {
	if !user.AwaitsPhoto() {
		return nil, ErrUnexpectedPhoto
	}

	state := user.State
	if _, err := s.users.SetState(ctx, user.ID, user.ChatID, entity.StateProcessing); err != nil {
		return nil, err
	}
	defer func() {
		_, _ = s.users.Cancel(ctx, user.ID, user.ChatID)
	}()

	switch state {
	case entity.StateAwaitingMarkdownPhoto:
		return s.extract(s.extraction.Markdown(ctx, source, photo))
	case entity.StateAwaitingCSVPhoto:
		return s.extract(s.extraction.CSV(ctx, source, photo))
	case entity.StateAwaitingDetectPhoto:
		return s.processFrame(ctx, s.detector, photo)
	default:
		return s.processFrame(ctx, s.segmenter, photo)
	}
}

func (s *PhotoService) extract(res *Extraction, err error) (*PhotoResult, error) {
	if err != nil {
		return &PhotoResult{Text: FormatError(err)}, nil
	}
	return &PhotoResult{Text: res.Summary(), Document: res.Path}, nil
}

func (s *PhotoService) processFrame(ctx context.Context, processor FrameProcessor, photo []byte) (*PhotoResult, error) {
	img, _, err := image.Decode(bytes.NewReader(photo))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}

	out := processor.Process(ctx, img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &PhotoResult{Image: buf.Bytes()}, nil
}
