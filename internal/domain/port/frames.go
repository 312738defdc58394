package port

import (
	"context"
	"image"

	"vision-kit/internal/domain/entity"
)

// FrameSource последовательно отдаёт кадры видео
type FrameSource interface {
	// Info возвращает параметры потока
	Info() entity.VideoInfo

	// Next возвращает следующий кадр или io.EOF, когда кадры закончились
	Next() (*entity.Frame, error)

	Close() error
}

// FrameSink принимает обработанные кадры и собирает из них видео
type FrameSink interface {
	Write(img image.Image) error

	// Close завершает запись и собирает итоговый файл
	Close() error

	// Abort прекращает запись без итогового файла
	Abort() error
}

// VideoBackend открывает источник и приёмник кадров одной реализации
type VideoBackend interface {
	Name() string
	OpenSource(ctx context.Context, path string) (FrameSource, error)
	CreateSink(ctx context.Context, path string, fps float64, info entity.VideoInfo) (FrameSink, error)
}

// DetectionRenderer рисует рамки и подписи поверх кадра
type DetectionRenderer interface {
	// Render возвращает новую картинку, исходная не изменяется
	Render(img image.Image, detections []entity.Detection) (image.Image, error)
}
