//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"gocv.io/x/gocv"

	"vision-kit/internal/domain/entity"
)

const (
	fourCC         = "mp4v"
	boxThickness   = 2
	labelFontScale = 0.5
	labelThickness = 2
	labelPadding   = 5
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Capture читает кадры через gocv.VideoCapture.
type Capture struct {
	vc    *gocv.VideoCapture
	mat   gocv.Mat
	info  entity.VideoInfo
	index int
}

// OpenCapture открывает видеофайл и читает его параметры.
func OpenCapture(path string) (*Capture, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open video file: %s: %w", path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("could not open video file: %s", path)
	}

	return &Capture{
		vc:  vc,
		mat: gocv.NewMat(),
		info: entity.VideoInfo{
			Width:       int(vc.Get(gocv.VideoCaptureFrameWidth)),
			Height:      int(vc.Get(gocv.VideoCaptureFrameHeight)),
			FPS:         vc.Get(gocv.VideoCaptureFPS),
			TotalFrames: int(vc.Get(gocv.VideoCaptureFrameCount)),
		},
	}, nil
}

func (c *Capture) Info() entity.VideoInfo {
	return c.info
}

// Next читает следующий кадр; пустой кадр означает конец видео.
func (c *Capture) Next() (*entity.Frame, error) {
	if ok := c.vc.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, io.EOF
	}

	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame %d: %w", c.index, err)
	}

	frame := &entity.Frame{
		Index:     c.index,
		Timestamp: entity.FrameTimestamp(c.index, c.info.FPS),
		Image:     img,
	}
	c.index++

	return frame, nil
}

func (c *Capture) Close() error {
	c.mat.Close()
	return c.vc.Close()
}

// Writer пишет кадры в контейнер через gocv.VideoWriter.
type Writer struct {
	vw   *gocv.VideoWriter
	path string
	size image.Point
}

// NewWriter открывает файл для записи видео mp4v с частотой fps.
func NewWriter(path string, fps float64, width, height int) (*Writer, error) {
	vw, err := gocv.VideoWriterFile(path, fourCC, fps, width, height, true)
	if err != nil {
		return nil, fmt.Errorf("create video writer: %w", err)
	}
	if !vw.IsOpened() {
		vw.Close()
		return nil, fmt.Errorf("could not open video writer: %s", path)
	}

	return &Writer{vw: vw, path: path, size: image.Pt(width, height)}, nil
}

// Write пишет кадр; кадры другого размера (ответ модели) приводятся к размеру видео.
func (w *Writer) Write(img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	if mat.Cols() != w.size.X || mat.Rows() != w.size.Y {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(mat, &resized, w.size, 0, 0, gocv.InterpolationArea)
		return w.vw.Write(resized)
	}

	return w.vw.Write(mat)
}

func (w *Writer) Close() error {
	return w.vw.Close()
}

// Abort закрывает запись и удаляет недописанный файл.
func (w *Writer) Abort() error {
	if err := w.vw.Close(); err != nil {
		return err
	}
	if err := os.Remove(w.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Renderer рисует рамки и подписи средствами OpenCV.
type Renderer struct{}

// NewRenderer создаёт рисовальщик на gocv.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render рисует на копии кадра рамку и залитую плашку с именем цвета.
func (r *Renderer) Render(img image.Image, detections []entity.Detection) (image.Image, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	for _, d := range detections {
		rect := d.PixelRect(mat.Cols(), mat.Rows())
		col := d.DrawColor()

		gocv.Rectangle(&mat, rect, col, boxThickness)

		textSize := gocv.GetTextSize(d.Color, gocv.FontHersheySimplex, labelFontScale, labelThickness)
		tag := image.Rect(rect.Min.X, rect.Min.Y-textSize.Y-labelPadding, rect.Min.X+textSize.X, rect.Min.Y)
		gocv.Rectangle(&mat, tag, col, -1)

		gocv.PutText(&mat, d.Color, image.Pt(rect.Min.X, rect.Min.Y-labelPadding),
			gocv.FontHersheySimplex, labelFontScale, white, labelThickness)
	}

	return mat.ToImage()
}
