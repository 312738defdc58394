package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	goopenai "github.com/sashabaranov/go-openai"

	"vision-kit/internal/domain/port"
)

// ErrEmptyResponse API ответил без вариантов или без данных.
var ErrEmptyResponse = errors.New("empty response from model")

// Config параметры подключения к OpenAI-совместимому прокси.
type Config struct {
	APIKey      string
	BaseURL     string
	VisionModel string
	ImageModel  string
	MaxTokens   int
}

// Client реализует VisionModel и ImageGenerator поверх go-openai.
type Client struct {
	api         *goopenai.Client
	visionModel string
	imageModel  string
	maxTokens   int
	logger      *slog.Logger
}

// NewClient создаёт клиента; запросы идут на cfg.BaseURL с ключом cfg.APIKey.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:         goopenai.NewClientWithConfig(apiCfg),
		visionModel: cfg.VisionModel,
		imageModel:  cfg.ImageModel,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}
}

// Vision возвращает клиента в роли чат-модели с картинками.
func (c *Client) Vision() port.VisionModel {
	return visionModel{c}
}

// Images возвращает клиента в роли генератора картинок.
func (c *Client) Images() port.ImageGenerator {
	return imageGenerator{c}
}

// DataURL кодирует картинку в data URL для поля image_url.
func DataURL(image []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
}

func (c *Client) describeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:     c.visionModel,
		MaxTokens: c.maxTokens,
		Messages: []goopenai.ChatCompletionMessage{
			{
				Role: goopenai.ChatMessageRoleUser,
				MultiContent: []goopenai.ChatMessagePart{
					{
						Type: goopenai.ChatMessagePartTypeText,
						Text: prompt,
					},
					{
						Type:     goopenai.ChatMessagePartTypeImageURL,
						ImageURL: &goopenai.ChatMessageImageURL{URL: DataURL(image, mimeType)},
					},
				},
			},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	c.logger.Debug("vision model answered",
		"model", c.visionModel,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) generateImage(ctx context.Context, prompt, size string) ([]byte, error) {
	resp, err := c.api.CreateImage(ctx, goopenai.ImageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		Size:           size,
		N:              1,
		ResponseFormat: goopenai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrEmptyResponse
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	return data, nil
}

type visionModel struct{ c *Client }

func (v visionModel) DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	return v.c.describeImage(ctx, prompt, image, mimeType)
}

func (v visionModel) Name() string { return v.c.visionModel }

type imageGenerator struct{ c *Client }

func (g imageGenerator) GenerateImage(ctx context.Context, prompt, size string) ([]byte, error) {
	return g.c.generateImage(ctx, prompt, size)
}

func (g imageGenerator) Name() string { return g.c.imageModel }
