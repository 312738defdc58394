package entity

import (
	"image"
	"time"
)

// VideoInfo параметры исходного видеопотока.
type VideoInfo struct {
	Width       int
	Height      int
	FPS         float64
	TotalFrames int // 0, если контейнер не сообщает число кадров
}

// Frame декодированный кадр; живёт одну итерацию обработки.
type Frame struct {
	Index     int
	Timestamp time.Duration
	Image     image.Image
}

// FrameTimestamp считает время кадра по его номеру и частоте.
func FrameTimestamp(index int, fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(index) / fps * float64(time.Second))
}

// SegmentMode выбирает, что просим у модели для каждого кадра.
type SegmentMode string

const (
	// ModeSegmentation модель возвращает готовую картинку с выделенными объектами.
	ModeSegmentation SegmentMode = "segmentation"
	// ModeDetection модель возвращает JSON с рамками, рисуем сами.
	ModeDetection SegmentMode = "detection"
)

// Valid проверяет, что режим известен.
func (m SegmentMode) Valid() bool {
	return m == ModeSegmentation || m == ModeDetection
}
