package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

const bytesPerPixel = 4

// StreamDecoder читает кадры из stdout ffmpeg в формате rawvideo/rgba.
type StreamDecoder struct {
	info   entity.VideoInfo
	reader *bufio.Reader
	cmd    *exec.Cmd
	stdout io.ReadCloser
	index  int
}

// OpenStream запускает ffmpeg, который декодирует videoPath в поток сырых RGBA-кадров.
func OpenStream(ctx context.Context, videoPath string, info entity.VideoInfo) (*StreamDecoder, error) {
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", info.Width, info.Height)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", streamArgs(videoPath)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	d := newStreamDecoder(stdout, info)
	d.cmd = cmd
	d.stdout = stdout
	return d, nil
}

// streamArgs отключает автоповорот: кадры должны совпадать с размером из ffprobe.
func streamArgs(videoPath string) []string {
	return []string{
		"-v", "error",
		"-noautorotate",
		"-i", videoPath,
		"-map", "0:v:0",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	}
}

func newStreamDecoder(r io.Reader, info entity.VideoInfo) *StreamDecoder {
	return &StreamDecoder{
		info:   info,
		reader: bufio.NewReaderSize(r, info.Width*info.Height*bytesPerPixel),
	}
}

func (d *StreamDecoder) Info() entity.VideoInfo {
	return d.info
}

// Next читает ровно один кадр; обрезанный хвост потока считается концом видео.
func (d *StreamDecoder) Next() (*entity.Frame, error) {
	w, h := d.info.Width, d.info.Height
	pix := make([]byte, w*h*bytesPerPixel)

	if _, err := io.ReadFull(d.reader, pix); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, err
	}

	frame := &entity.Frame{
		Index:     d.index,
		Timestamp: entity.FrameTimestamp(d.index, d.info.FPS),
		Image: &image.RGBA{
			Pix:    pix,
			Stride: w * bytesPerPixel,
			Rect:   image.Rect(0, 0, w, h),
		},
	}
	d.index++

	return frame, nil
}

// Close останавливает ffmpeg, если видео прочитано не до конца.
func (d *StreamDecoder) Close() error {
	if d.cmd == nil {
		return nil
	}

	_ = d.stdout.Close()
	if d.cmd.ProcessState == nil && d.cmd.Process != nil {
		_ = d.cmd.Process.Kill()
	}
	// Ошибка завершения после Kill ожидаема и не интересна.
	_ = d.cmd.Wait()
	d.cmd = nil

	return nil
}

var _ port.FrameSource = (*StreamDecoder)(nil)
