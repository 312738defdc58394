package config

import (
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Доступ к OpenAI-совместимому прокси
	APIKey      string        `env:"LITELLM_API_KEY"`
	BaseURL     string        `env:"LITELLM_BASE_URL"   envDefault:"https://litellm.deriv.ai/v1"`
	VisionModel string        `env:"VISION_MODEL"       envDefault:"gemini-2.0-flash-001"`
	ImageModel  string        `env:"IMAGE_MODEL"        envDefault:"imagen-3.0-fast-generate-001"`
	ImageSize   string        `env:"IMAGE_SIZE"         envDefault:"1024x1024"`
	MaxTokens   int           `env:"VISION_MAX_TOKENS"  envDefault:"1000"`
	CallDelay   time.Duration `env:"VISION_CALL_DELAY"  envDefault:"500ms"`

	// Каталоги с результатами
	GeneratedImagesDir string `env:"GENERATED_IMAGES_DIR" envDefault:"generated_images"`
	MarkdownDir        string `env:"MARKDOWN_DIR"         envDefault:"md_results"`
	CSVDir             string `env:"CSV_DIR"              envDefault:"md_results"`
	VideoDir           string `env:"VIDEO_DIR"            envDefault:"output"`

	// Входные данные скриптов
	Prompt        string  `env:"PROMPT"          envDefault:"Coder in a room with 5 screens coding AI apps."`
	ImagePath     string  `env:"IMAGE_PATH"      envDefault:"images/dd_all_sources.png"`
	VideoPath     string  `env:"VIDEO_PATH"      envDefault:"video_2.mp4"`
	OutputVideo   string  `env:"OUTPUT_VIDEO"    envDefault:"segmented_video.mp4"`
	OutputVideoCV string  `env:"OUTPUT_VIDEO_CV" envDefault:"segmented_video_cv2.mp4"`
	TargetFPS     float64 `env:"TARGET_FPS"      envDefault:"15"`
	MaxFrames     int     `env:"MAX_FRAMES"      envDefault:"100"`
	SegmentMode   string  `env:"SEGMENT_MODE"    envDefault:"detection"`

	TelegramToken string `env:"TELEGRAM_TOKEN"`

	// Журнал артефактов: Postgres, если задан DATABASE_URL, иначе JSONL-файл
	DatabaseURL string `env:"DATABASE_URL"`
	JournalPath string `env:"JOURNAL_PATH" envDefault:"artifacts.jsonl"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// OutputVideoPath путь к итоговому видео внутри VideoDir.
func (c *Config) OutputVideoPath() string {
	return filepath.Join(c.VideoDir, c.OutputVideo)
}

// OutputVideoCVPath путь к итоговому видео OpenCV-варианта внутри VideoDir.
func (c *Config) OutputVideoCVPath() string {
	return filepath.Join(c.VideoDir, c.OutputVideoCV)
}
