package port

import "context"

// VisionModel интерфейс мультимодальной чат-модели
type VisionModel interface {
	// DescribeImage отправляет инструкцию вместе с картинкой и возвращает текст ответа
	DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)

	// Name возвращает идентификатор модели
	Name() string
}

// ImageGenerator интерфейс модели, рисующей картинку по тексту
type ImageGenerator interface {
	// GenerateImage возвращает байты одной сгенерированной картинки
	GenerateImage(ctx context.Context, prompt, size string) ([]byte, error)

	// Name возвращает идентификатор модели
	Name() string
}
