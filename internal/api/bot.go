package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "vision-kit/internal/application"
	"vision-kit/internal/container"
	"vision-kit/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я умею работать с картинками через vision-модель.

📋 Команды:
/imagine <описание> — нарисовать картинку по тексту
/md — перевести картинку в markdown
/csv — достать таблицу из картинки в CSV
/detect — найти красные, синие и жёлтые объекты и обвести их рамками
/segment — выделить цветные объекты на картинке
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Выберите операцию командой
2️⃣ Отправьте фото
3️⃣ Получите результат: файл или обработанную картинку

💡 Для /imagine описание пишется сразу после команды:
/imagine кот в космосе

📋 Команды:
/imagine, /md, /csv, /detect, /segment, /cancel`

	msgAwaitingMarkdown = "📸 Отправьте картинку, я переведу её содержимое в markdown."
	msgAwaitingCSV      = "📸 Отправьте картинку с таблицей, я сохраню её как CSV."
	msgAwaitingDetect   = "📸 Отправьте кадр, я обведу красные, синие и жёлтые объекты."
	msgAwaitingSegment  = "📸 Отправьте кадр, я попрошу модель выделить цветные объекты."
	msgEmptyPrompt      = "✏️ Напишите описание после команды, например: /imagine кот в космосе"
	msgCancelled        = "❌ Операция отменена. Выберите новую командой из /help."
	msgSendPhoto        = "📸 Сначала выберите операцию: /md, /csv, /detect или /segment."
	msgBusy             = "⏳ Предыдущий запрос ещё обрабатывается."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing       = "⏳ Обрабатываю изображение..."
	msgGenerating       = "🎨 Рисую картинку..."
	msgProcessingError  = "⚠️ Не удалось обработать изображение. Попробуйте другое фото."
	msgGenerationError  = "⚠️ Не удалось сгенерировать картинку. Попробуйте другое описание."

	// лимит Telegram на длину подписи
	maxCaptionLength = 1024
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	container *container.Container
	logger    *slog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("authorized on account", "username", api.Self.UserName)

	return &Bot{
		api:       api,
		container: c,
		logger:    logger,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.container.UserService.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.logger.Error("failed to get user", "user_id", msg.From.ID, "err", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "imagine":
		b.handleImagine(ctx, msg, user)

	case "md":
		b.setState(ctx, user, entity.StateAwaitingMarkdownPhoto)
		b.sendMessage(msg.Chat.ID, msgAwaitingMarkdown)

	case "csv":
		b.setState(ctx, user, entity.StateAwaitingCSVPhoto)
		b.sendMessage(msg.Chat.ID, msgAwaitingCSV)

	case "detect":
		b.setState(ctx, user, entity.StateAwaitingDetectPhoto)
		b.sendMessage(msg.Chat.ID, msgAwaitingDetect)

	case "segment":
		b.setState(ctx, user, entity.StateAwaitingSegmentPhoto)
		b.sendMessage(msg.Chat.ID, msgAwaitingSegment)

	case "cancel":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handleImagine генерирует картинку по тексту после команды
func (b *Bot) handleImagine(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	prompt := msg.CommandArguments()
	if prompt == "" {
		b.sendMessage(msg.Chat.ID, msgEmptyPrompt)
		return
	}
	if user.State == entity.StateProcessing {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	b.setState(ctx, user, entity.StateProcessing)
	defer b.setState(ctx, user, entity.StateMainMenu)

	b.sendMessage(msg.Chat.ID, msgGenerating)

	path, err := b.container.ImageService.Generate(ctx, prompt)
	if err != nil {
		b.logger.Error("error generating image", "user_id", user.ID, "err", err)
		b.sendMessage(msg.Chat.ID, msgGenerationError)
		return
	}

	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FilePath(path))
	photo.Caption = truncate(prompt, maxCaptionLength)
	b.send(photo)
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.State == entity.StateProcessing {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}
	if !user.AwaitsPhoto() {
		b.sendMessage(msg.Chat.ID, msgSendPhoto)
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Берём файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.logger.Error("error downloading photo", "file_id", photo.FileID, "err", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		b.setState(ctx, user, entity.StateMainMenu)
		return
	}

	source := fmt.Sprintf("telegram_%d_%d.jpg", msg.Chat.ID, msg.MessageID)
	result, err := b.container.PhotoService.Process(ctx, user, source, imageData)
	if err != nil {
		if errors.Is(err, app.ErrUnexpectedPhoto) {
			b.sendMessage(msg.Chat.ID, msgSendPhoto)
			return
		}
		b.logger.Error("error processing photo", "user_id", user.ID, "err", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	b.sendResult(msg.Chat.ID, result)
}

// sendResult отправляет файл, картинку или текст в зависимости от результата
func (b *Bot) sendResult(chatID int64, result *app.PhotoResult) {
	switch {
	case result.Document != "":
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(result.Document))
		doc.Caption = truncate(result.Text, maxCaptionLength)
		b.send(doc)
	case len(result.Image) > 0:
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "result.png", Bytes: result.Image})
		b.send(photo)
	default:
		b.sendMessage(chatID, result.Text)
	}
}

func (b *Bot) setState(ctx context.Context, user *entity.User, state entity.UserState) {
	updated, err := b.container.UserService.SetState(ctx, user.ID, user.ChatID, state)
	if err != nil {
		b.logger.Error("failed to save user state", "user_id", user.ID, "state", state, "err", err)
		return
	}
	*user = *updated
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error("error sending message", "err", err)
	}
}

// truncate обрезает текст до limit символов
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}
