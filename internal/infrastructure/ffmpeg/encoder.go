package ffmpeg

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"vision-kit/internal/domain/port"
)

const framesListName = "frames_list.txt"

// ConcatEncoder складывает кадры JPEG-файлами во временный каталог и при
// закрытии склеивает их в видео через concat-демультиплексор ffmpeg.
type ConcatEncoder struct {
	ctx        context.Context
	run        Runner
	outputPath string
	fps        float64
	tempDir    string
	frames     []string
}

// NewConcatEncoder создаёт временный каталог для кадров.
func NewConcatEncoder(ctx context.Context, run Runner, outputPath string, fps float64) (*ConcatEncoder, error) {
	tempDir, err := os.MkdirTemp("", "vision-frames-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	return &ConcatEncoder{
		ctx:        ctx,
		run:        run,
		outputPath: outputPath,
		fps:        fps,
		tempDir:    tempDir,
	}, nil
}

func (e *ConcatEncoder) Write(img image.Image) error {
	path := filepath.Join(e.tempDir, fmt.Sprintf("frame_%06d.jpg", len(e.frames)))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpeg.DefaultQuality}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	e.frames = append(e.frames, path)
	return nil
}

// Close собирает видео, если был записан хотя бы один кадр, и удаляет временный каталог.
func (e *ConcatEncoder) Close() error {
	defer os.RemoveAll(e.tempDir)

	if len(e.frames) == 0 {
		return nil
	}

	listPath := filepath.Join(e.tempDir, framesListName)
	if err := os.WriteFile(listPath, []byte(framesList(e.frames)), 0644); err != nil {
		return fmt.Errorf("write frames list: %w", err)
	}

	output, err := e.run(e.ctx, "ffmpeg", concatArgs(listPath, e.outputPath, e.fps)...)
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

// Abort удаляет записанные кадры, не запуская ffmpeg.
func (e *ConcatEncoder) Abort() error {
	e.frames = nil
	return os.RemoveAll(e.tempDir)
}

func framesList(frames []string) string {
	var b strings.Builder
	for _, f := range frames {
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(f, "'", `'\''`))
	}
	return b.String()
}

func concatArgs(listPath, outputPath string, fps float64) []string {
	return []string{
		"-y",
		"-r", strconv.FormatFloat(fps, 'f', -1, 64),
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		outputPath,
	}
}

var _ port.FrameSink = (*ConcatEncoder)(nil)
