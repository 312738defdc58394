package entity

import (
	"errors"
	"math"
)

// ErrInvalidTargetFPS целевая частота кадров должна быть положительной.
var ErrInvalidTargetFPS = errors.New("target fps must be positive")

// SamplingPlan описывает, какие кадры исходного видео уходят в обработку.
type SamplingPlan struct {
	OriginalFPS float64
	TargetFPS   float64
	MaxFrames   int // бюджет исходных кадров, а не обработанных
	Stride      int
}

// NewSamplingPlan считает шаг выборки: max(1, round(original/target)).
// Округление банковское, половины уходят к чётному.
func NewSamplingPlan(originalFPS, targetFPS float64, maxFrames int) (SamplingPlan, error) {
	if targetFPS <= 0 || math.IsNaN(targetFPS) {
		return SamplingPlan{}, ErrInvalidTargetFPS
	}

	stride := int(math.RoundToEven(originalFPS / targetFPS))
	if stride < 1 {
		stride = 1
	}

	return SamplingPlan{
		OriginalFPS: originalFPS,
		TargetFPS:   targetFPS,
		MaxFrames:   maxFrames,
		Stride:      stride,
	}, nil
}

// Selects сообщает, нужно ли обрабатывать кадр с этим индексом.
func (p SamplingPlan) Selects(index int) bool {
	return index%p.Stride == 0
}

// Exhausted возвращает true, когда просмотрено MaxFrames исходных кадров.
func (p SamplingPlan) Exhausted(seen int) bool {
	return seen >= p.MaxFrames
}

// ActualFPS частота, которая получится после прореживания.
func (p SamplingPlan) ActualFPS() float64 {
	return p.OriginalFPS / float64(p.Stride)
}
