package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LITELLM_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "secret", cfg.APIKey)
	require.Equal(t, "https://litellm.deriv.ai/v1", cfg.BaseURL)
	require.Equal(t, "gemini-2.0-flash-001", cfg.VisionModel)
	require.Equal(t, 1000, cfg.MaxTokens)
	require.Equal(t, 500*time.Millisecond, cfg.CallDelay)
	require.Equal(t, 15.0, cfg.TargetFPS)
	require.Equal(t, 100, cfg.MaxFrames)
	require.Equal(t, "md_results", cfg.CSVDir)
	require.Equal(t, "segmented_video.mp4", cfg.OutputVideo)
	require.Equal(t, "segmented_video_cv2.mp4", cfg.OutputVideoCV)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TARGET_FPS", "7.5")
	t.Setenv("MAX_FRAMES", "600")
	t.Setenv("VISION_CALL_DELAY", "2s")
	t.Setenv("SEGMENT_MODE", "segmentation")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7.5, cfg.TargetFPS)
	require.Equal(t, 600, cfg.MaxFrames)
	require.Equal(t, 2*time.Second, cfg.CallDelay)
	require.Equal(t, "segmentation", cfg.SegmentMode)
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MAX_FRAMES", "many")

	_, err := Load()
	require.Error(t, err)
}

func TestConfig_OutputVideoPath(t *testing.T) {
	cfg := &Config{VideoDir: "output", OutputVideo: "segmented_video.mp4"}
	require.Equal(t, filepath.Join("output", "segmented_video.mp4"), cfg.OutputVideoPath())
}

func TestConfig_OutputVideoCVPath(t *testing.T) {
	cfg := &Config{VideoDir: "output", OutputVideo: "segmented_video.mp4", OutputVideoCV: "segmented_video_cv2.mp4"}
	require.Equal(t, filepath.Join("output", "segmented_video_cv2.mp4"), cfg.OutputVideoCVPath())
	require.NotEqual(t, cfg.OutputVideoPath(), cfg.OutputVideoCVPath())
}
