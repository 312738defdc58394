package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

// VideoStats итог обработки видео.
type VideoStats struct {
	Output    string
	Seen      int // просмотрено исходных кадров
	Processed int
	Plan      entity.SamplingPlan
}

// VideoService прореживает видео, обрабатывает кадры и собирает результат.
type VideoService struct {
	processor FrameProcessor
	journal   port.Journal
	logger    *slog.Logger
	now       func() time.Time
}

// NewVideoService создаёт сервис обработки видео.
func NewVideoService(processor FrameProcessor, journal port.Journal, logger *slog.Logger) *VideoService {
	return &VideoService{
		processor: processor,
		journal:   journal,
		logger:    logger,
		now:       time.Now,
	}
}

// Run читает input через backend, обрабатывает каждый stride-й кадр среди
// первых maxFrames исходных кадров и пишет output с частотой targetFPS.
func (s *VideoService) Run(ctx context.Context, backend port.VideoBackend, input, output string, targetFPS float64, maxFrames int) (*VideoStats, error) {
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	src, err := backend.OpenSource(ctx, input)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	info := src.Info()
	plan, err := entity.NewSamplingPlan(info.FPS, targetFPS, maxFrames)
	if err != nil {
		return nil, err
	}

	s.logger.Info("original video",
		"backend", backend.Name(),
		"width", info.Width,
		"height", info.Height,
		"fps", info.FPS,
		"frames", info.TotalFrames,
	)
	if info.FPS > 0 {
		s.logger.Info("processing budget",
			"max_frames", maxFrames,
			"seconds", fmt.Sprintf("%.2f", float64(maxFrames)/info.FPS),
			"stride", plan.Stride,
		)
	}

	sink, err := backend.CreateSink(ctx, output, targetFPS, info)
	if err != nil {
		return nil, err
	}

	stats := &VideoStats{Output: output, Plan: plan}
	if err := s.loop(ctx, src, sink, plan, stats); err != nil {
		if abortErr := sink.Abort(); abortErr != nil {
			s.logger.Warn("failed to discard partial output", "output", output, "err", abortErr)
		}
		return stats, err
	}
	if err := sink.Close(); err != nil {
		return stats, fmt.Errorf("finish output video: %w", err)
	}

	if err := s.journal.Record(ctx, entity.NewArtifactRecord(entity.KindVideo, input, output, backend.Name(), s.now())); err != nil {
		s.logger.Warn("failed to journal artifact", "path", output, "err", err)
	}

	s.logger.Info("video processing complete", "output", output)
	s.logger.Info("processed frames", "processed", stats.Processed, "seen", stats.Seen)
	s.logger.Info("frame rate",
		"target_fps", targetFPS,
		"actual_fps", fmt.Sprintf("%.2f", plan.ActualFPS()),
	)

	return stats, nil
}

// loop ограничен числом просмотренных исходных кадров, а не обработанных.
func (s *VideoService) loop(ctx context.Context, src port.FrameSource, sink port.FrameSink, plan entity.SamplingPlan, stats *VideoStats) error {
	for !plan.Exhausted(stats.Seen) {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read frame %d: %w", stats.Seen, err)
		}

		seen := stats.Seen
		stats.Seen++
		if !plan.Selects(seen) {
			continue
		}

		s.logger.Info("processing frame",
			"frame", frame.Index,
			"timestamp", frame.Timestamp,
			"seen", stats.Seen,
			"max_frames", plan.MaxFrames,
		)
		out := s.processor.Process(ctx, frame.Image)
		if err := sink.Write(out); err != nil {
			return fmt.Errorf("write frame %d: %w", frame.Index, err)
		}
		stats.Processed++
	}
	return nil
}
