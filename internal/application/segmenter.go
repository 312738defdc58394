package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

var dataURLPrefix = regexp.MustCompile(`data:image/[^;]+;base64,`)

// FrameProcessor обрабатывает один кадр видео.
type FrameProcessor interface {
	Process(ctx context.Context, frame image.Image) image.Image
}

// FrameSegmenter отправляет кадр vision-модели и рисует или подставляет результат.
type FrameSegmenter struct {
	model    port.VisionModel
	renderer port.DetectionRenderer
	mode     entity.SegmentMode
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration)
	logger   *slog.Logger
}

// NewFrameSegmenter создаёт обработчик кадров; после каждого запроса выдерживается пауза delay.
func NewFrameSegmenter(model port.VisionModel, renderer port.DetectionRenderer, mode entity.SegmentMode, delay time.Duration, logger *slog.Logger) *FrameSegmenter {
	return &FrameSegmenter{
		model:    model,
		renderer: renderer,
		mode:     mode,
		delay:    delay,
		sleep:    sleepContext,
		logger:   logger,
	}
}

// Process возвращает обработанный кадр. При любой ошибке возвращается
// исходный кадр без изменений.
func (s *FrameSegmenter) Process(ctx context.Context, frame image.Image) image.Image {
	out, err := s.segment(ctx, frame)
	if err != nil {
		s.logger.Warn("frame passed through unchanged", "mode", s.mode, "err", err)
		return frame
	}
	return out
}

func (s *FrameSegmenter) segment(ctx context.Context, frame image.Image) (image.Image, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, nil); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	prompt := promptDetection
	if s.mode == entity.ModeSegmentation {
		prompt = promptSegmentation
	}

	answer, err := s.model.DescribeImage(ctx, prompt, buf.Bytes(), "image/jpeg")
	s.sleep(ctx, s.delay)
	if err != nil {
		return nil, fmt.Errorf("call vision model: %w", err)
	}

	if s.mode == entity.ModeSegmentation {
		return decodeAnswerImage(answer)
	}
	return s.drawDetections(frame, answer)
}

func (s *FrameSegmenter) drawDetections(frame image.Image, answer string) (image.Image, error) {
	detections, err := entity.ParseDetections(answer)
	if err != nil {
		if errors.Is(err, entity.ErrNoObjects) || errors.Is(err, entity.ErrNoJSON) {
			s.logger.Info("no detections in answer", "reason", err)
			return frame, nil
		}
		return nil, fmt.Errorf("parse detections: %w", err)
	}
	if len(detections) == 0 {
		return frame, nil
	}

	s.logger.Debug("drawing detections", "count", len(detections))
	return s.renderer.Render(frame, detections)
}

// decodeAnswerImage достаёт из ответа первую картинку в виде data URL.
func decodeAnswerImage(answer string) (image.Image, error) {
	loc := dataURLPrefix.FindStringIndex(answer)
	if loc == nil {
		return nil, errors.New("no image found in model response")
	}

	payload := base64Payload(answer[loc[1]:])
	if payload == "" {
		return nil, errors.New("empty image payload in model response")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64 image: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode answer image: %w", err)
	}
	return img, nil
}

// base64Payload собирает base64 с начала текста. Следующая строка продолжает
// картинку, только если предыдущая кратна 4, не кончается '=' и сама строка
// целиком состоит из символов base64.
func base64Payload(text string) string {
	var b strings.Builder
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if i > 0 {
			line = strings.TrimSpace(line)
		}

		run := base64Run(line)
		if run == "" || (i > 0 && len(run) != len(line)) {
			break
		}
		b.WriteString(run)

		if len(run) != len(line) || len(run)%4 != 0 || strings.HasSuffix(run, "=") {
			break
		}
	}
	return b.String()
}

// base64Run возвращает начало строки из символов base64; '=' допустим только в хвосте.
func base64Run(line string) string {
	end := 0
	for end < len(line) && isBase64Char(line[end]) {
		end++
	}
	for end < len(line) && end > 0 && line[end] == '=' {
		end++
	}
	return line[:end]
}

func isBase64Char(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '/'
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
