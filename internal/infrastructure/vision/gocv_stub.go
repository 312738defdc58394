//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	"vision-kit/internal/domain/entity"
)

// Capture заглушка без OpenCV.
type Capture struct{}

// OpenCapture возвращает ошибку, если сборка без тега gocv.
func OpenCapture(path string) (*Capture, error) {
	_ = path
	return nil, ErrGoCVDisabled
}

func (c *Capture) Info() entity.VideoInfo { return entity.VideoInfo{} }

func (c *Capture) Next() (*entity.Frame, error) { return nil, ErrGoCVDisabled }

func (c *Capture) Close() error { return nil }

// Writer заглушка без OpenCV.
type Writer struct{}

// NewWriter возвращает ошибку, если сборка без тега gocv.
func NewWriter(path string, fps float64, width, height int) (*Writer, error) {
	_, _, _, _ = path, fps, width, height
	return nil, ErrGoCVDisabled
}

func (w *Writer) Write(img image.Image) error { return ErrGoCVDisabled }

func (w *Writer) Close() error { return nil }

func (w *Writer) Abort() error { return nil }

// Renderer заглушка без OpenCV.
type Renderer struct{}

// NewRenderer создаёт рисовальщик-заглушку.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render возвращает ошибку, если сборка без тега gocv.
func (r *Renderer) Render(img image.Image, detections []entity.Detection) (image.Image, error) {
	_, _ = img, detections
	return nil, ErrGoCVDisabled
}
