package ffmpeg

import (
	"context"
	"fmt"
	"os"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

// Backend потоковое декодирование и сборка видео через ffmpeg.
type Backend struct {
	run   Runner
	probe Runner
}

// NewBackend создаёт бэкенд, запускающий ffmpeg и ffprobe из PATH.
func NewBackend() *Backend {
	return &Backend{run: CombinedOutput, probe: StdoutOutput}
}

func (b *Backend) Name() string { return "ffmpeg" }

// OpenSource проверяет файл, читает параметры потока и запускает декодер.
func (b *Backend) OpenSource(ctx context.Context, path string) (port.FrameSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("video file does not exist at path: '%s': %w", path, err)
	}

	info, err := Probe(ctx, b.probe, path)
	if err != nil {
		return nil, err
	}

	decoder, err := OpenStream(ctx, path, info)
	if err != nil {
		return nil, err
	}
	return decoder, nil
}

// CreateSink создаёт приёмник, который соберёт видео с частотой fps.
func (b *Backend) CreateSink(ctx context.Context, path string, fps float64, _ entity.VideoInfo) (port.FrameSink, error) {
	encoder, err := NewConcatEncoder(ctx, b.run, path, fps)
	if err != nil {
		return nil, err
	}
	return encoder, nil
}

var _ port.VideoBackend = (*Backend)(nil)
