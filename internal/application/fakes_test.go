package app

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
	"vision-kit/internal/infrastructure/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeVision struct {
	answer string
	err    error

	calls     int
	prompt    string
	mimeType  string
	lastImage []byte
}

func (f *fakeVision) DescribeImage(_ context.Context, prompt string, img []byte, mimeType string) (string, error) {
	f.calls++
	f.prompt = prompt
	f.mimeType = mimeType
	f.lastImage = img
	return f.answer, f.err
}

func (f *fakeVision) Name() string { return "fake-vision" }

type fakeGenerator struct {
	data []byte
	err  error
	size string
}

func (f *fakeGenerator) GenerateImage(_ context.Context, _ string, size string) ([]byte, error) {
	f.size = size
	return f.data, f.err
}

func (f *fakeGenerator) Name() string { return "fake-imagen" }

type fakeJournal struct {
	mu      sync.Mutex
	records []entity.ArtifactRecord
	err     error
}

func (f *fakeJournal) Record(_ context.Context, rec entity.ArtifactRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return f.err
}

func (f *fakeJournal) Close() error { return nil }

func newTestStore(t *testing.T) *storage.FileArtifactStore {
	t.Helper()
	root := t.TempDir()
	return storage.NewFileArtifactStore(map[entity.ArtifactKind]string{
		entity.KindGeneratedImage: filepath.Join(root, "generated_images"),
		entity.KindMarkdown:       filepath.Join(root, "md_results"),
		entity.KindCSV:            filepath.Join(root, "md_results"),
	})
}

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// fakeSource отдаёт total одинаковых кадров.
type fakeSource struct {
	info   entity.VideoInfo
	total  int
	next   int
	closed bool

	// на кадре failAt Next вернёт failErr
	failAt  int
	failErr error
}

func (f *fakeSource) Info() entity.VideoInfo { return f.info }

func (f *fakeSource) Next() (*entity.Frame, error) {
	if f.failErr != nil && f.next == f.failAt {
		return nil, f.failErr
	}
	if f.next >= f.total {
		return nil, io.EOF
	}
	frame := &entity.Frame{
		Index:     f.next,
		Timestamp: entity.FrameTimestamp(f.next, f.info.FPS),
		Image:     solidFrame(4, 4, color.RGBA{R: uint8(f.next), A: 255}),
	}
	f.next++
	return frame, nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

type fakeSink struct {
	fps     float64
	written []image.Image
	closed  bool
	aborted bool
}

func (f *fakeSink) Write(img image.Image) error {
	f.written = append(f.written, img)
	return nil
}

func (f *fakeSink) Close() error {
	f.closed = true
	return nil
}

func (f *fakeSink) Abort() error {
	f.aborted = true
	f.written = nil
	return nil
}

type fakeBackend struct {
	source *fakeSource
	sink   *fakeSink
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) OpenSource(context.Context, string) (port.FrameSource, error) {
	return f.source, nil
}

func (f *fakeBackend) CreateSink(_ context.Context, _ string, fps float64, _ entity.VideoInfo) (port.FrameSink, error) {
	f.sink.fps = fps
	return f.sink, nil
}

// recordingProcessor запоминает, какие кадры к нему пришли.
type recordingProcessor struct {
	reds []uint8
}

func (p *recordingProcessor) Process(_ context.Context, frame image.Image) image.Image {
	p.reds = append(p.reds, frame.(*image.RGBA).RGBAAt(0, 0).R)
	return frame
}

