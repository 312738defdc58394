package vision

import (
	"context"
	"errors"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

// ErrGoCVDisabled бинарник собран без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// Backend покадровый захват и запись видео через OpenCV.
type Backend struct{}

// NewBackend создаёт бэкенд на gocv.
func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string { return "gocv" }

func (b *Backend) OpenSource(ctx context.Context, path string) (port.FrameSource, error) {
	_ = ctx
	capture, err := OpenCapture(path)
	if err != nil {
		return nil, err
	}
	return capture, nil
}

func (b *Backend) CreateSink(ctx context.Context, path string, fps float64, info entity.VideoInfo) (port.FrameSink, error) {
	_ = ctx
	writer, err := NewWriter(path, fps, info.Width, info.Height)
	if err != nil {
		return nil, err
	}
	return writer, nil
}

var (
	_ port.VideoBackend      = (*Backend)(nil)
	_ port.FrameSource       = (*Capture)(nil)
	_ port.FrameSink         = (*Writer)(nil)
	_ port.DetectionRenderer = (*Renderer)(nil)
)
