package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

// FileArtifactStore пишет артефакты на диск, каждый тип в свой каталог
type FileArtifactStore struct {
	dirs map[entity.ArtifactKind]string
	now  func() time.Time
}

// NewFileArtifactStore создаёт хранилище с каталогами по типам артефактов
func NewFileArtifactStore(dirs map[entity.ArtifactKind]string) *FileArtifactStore {
	copied := make(map[entity.ArtifactKind]string, len(dirs))
	for kind, dir := range dirs {
		copied[kind] = dir
	}
	return &FileArtifactStore{dirs: copied, now: time.Now}
}

// Dir возвращает каталог типа и создаёт его, если его ещё нет
func (s *FileArtifactStore) Dir(kind entity.ArtifactKind) (string, error) {
	dir, ok := s.dirs[kind]
	if !ok {
		return "", fmt.Errorf("no directory configured for %s artifacts", kind)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}
	return dir, nil
}

// Save пишет данные в <dir>/<stem>_<YYYYMMDD_HHMMSS>.<ext>
func (s *FileArtifactStore) Save(ctx context.Context, kind entity.ArtifactKind, stem, ext string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := s.Dir(kind)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, entity.ArtifactName(stem, ext, s.now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

var _ port.ArtifactStore = (*FileArtifactStore)(nil)
