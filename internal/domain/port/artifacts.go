package port

import (
	"context"

	"vision-kit/internal/domain/entity"
)

// ArtifactStore сохраняет файлы-результаты в каталоги по типам
type ArtifactStore interface {
	// Save пишет данные в <dir>/<stem>_<timestamp>.<ext> и возвращает путь
	Save(ctx context.Context, kind entity.ArtifactKind, stem, ext string, data []byte) (string, error)

	// Dir возвращает каталог для типа артефакта, создавая его при необходимости
	Dir(kind entity.ArtifactKind) (string, error)
}

// Journal ведёт учёт сохранённых артефактов
type Journal interface {
	Record(ctx context.Context, record entity.ArtifactRecord) error
	Close() error
}
