package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"vision-kit/internal/domain/entity"
)

var errNoVideoStream = errors.New("no video stream found")

type probeOutput struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		NbFrames     string `json:"nb_frames"`
	} `json:"streams"`
}

// Probe читает размеры, среднюю частоту и число кадров первого видеопотока через ffprobe.
func Probe(ctx context.Context, run Runner, videoPath string) (entity.VideoInfo, error) {
	output, err := run(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate,r_frame_rate,nb_frames",
		"-of", "json",
		videoPath,
	)
	if err != nil {
		return entity.VideoInfo{}, fmt.Errorf("ffprobe: %w, output: %s", err, string(output))
	}

	return parseProbeOutput(output)
}

func parseProbeOutput(data []byte) (entity.VideoInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return entity.VideoInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return entity.VideoInfo{}, errNoVideoStream
	}

	s := out.Streams[0]
	fps := parseFrameRate(s.AvgFrameRate)
	if fps == 0 {
		fps = parseFrameRate(s.RFrameRate)
	}
	frames, _ := strconv.Atoi(s.NbFrames)

	return entity.VideoInfo{
		Width:       s.Width,
		Height:      s.Height,
		FPS:         fps,
		TotalFrames: frames,
	}, nil
}

// parseFrameRate разбирает дробь вида "30000/1001"; для "0/0" и мусора возвращает 0.
func parseFrameRate(rate string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(rate), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
