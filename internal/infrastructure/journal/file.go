package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

// FileJournal дописывает записи об артефактах в файл JSON Lines.
type FileJournal struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// OpenFile открывает журнал на дозапись, создавая файл и каталог.
func OpenFile(path string) (*FileJournal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	return &FileJournal{file: f, enc: json.NewEncoder(f)}, nil
}

func (j *FileJournal) Record(ctx context.Context, record entity.ArtifactRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.enc.Encode(record); err != nil {
		return fmt.Errorf("write journal record: %w", err)
	}
	return nil
}

func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Nop журнал, который ничего не пишет.
type Nop struct{}

func (Nop) Record(context.Context, entity.ArtifactRecord) error { return nil }

func (Nop) Close() error { return nil }

var (
	_ port.Journal = (*FileJournal)(nil)
	_ port.Journal = Nop{}
)
