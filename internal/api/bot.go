package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "xray-bot/internal/application"
	"xray-bot/internal/container"
	"xray-bot/internal/domain/entity"
)

// Telegram Bot API не отдаёт файлы больше 20 МБ.
const maxDownloadSize = 20 << 20

// botAPI подмножество tgbotapi.BotAPI, которым пользуется бот
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Options настройки бота
type Options struct {
	HistoryLimit  int // сколько анализов показывать в /history
	UpdateTimeout int // таймаут long polling, секунды
}

// Bot представляет Telegram-бота
type Bot struct {
	api       botAPI
	token     string
	users     *app.UserService
	diagnoses *app.DiagnosisService
	opts      Options
	fetch     func(ctx context.Context, url string) ([]byte, error)
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return newBot(api, token, c, opts), nil
}

func newBot(api botAPI, token string, c *container.Container, opts Options) *Bot {
	return &Bot{
		api:       api,
		token:     token,
		users:     c.UserService,
		diagnoses: c.DiagnosisService,
		opts:      opts,
		fetch:     httpFetch,
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.opts.UpdateTimeout

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
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
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if fileID, ok := imageFileID(msg); ok {
		b.handleImage(ctx, msg, fileID)
		return
	}

	if msg.Document != nil && msg.Document.FileSize > maxDownloadSize {
		b.sendMessage(msg.Chat.ID, msgTooLarge)
		return
	}

	// Текстовое сообщение или файл не-изображение
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := senderID(msg)

	switch msg.Command() {
	case "start":
		b.resetUser(ctx, userID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "history":
		list, err := b.diagnoses.History(ctx, userID, b.opts.HistoryLimit)
		if err != nil {
			log.Printf("Error loading history for user %d: %v", userID, err)
			b.sendMessage(msg.Chat.ID, msgHistoryError)
			return
		}
		b.sendMessage(msg.Chat.ID, formatHistory(list))

	case "cancel":
		b.resetUser(ctx, userID, msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handleImage скачивает снимок и прогоняет его через обе модели
func (b *Bot) handleImage(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	userID := senderID(msg)
	chatID := msg.Chat.ID

	if !b.diagnoses.Ready() {
		b.sendMessage(chatID, msgModelsUnavailable)
		return
	}

	if _, err := b.users.BeginAnalysis(ctx, userID, chatID); err != nil {
		log.Printf("Error updating user %d: %v", userID, err)
	}
	defer b.resetUser(ctx, userID, chatID)

	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Printf("Error downloading image: %v", err)
		b.sendMessage(chatID, msgDownloadError)
		return
	}
	log.Printf("Received image from user %d: %d bytes", userID, len(imageData))

	diagnosis, err := b.diagnoses.Diagnose(ctx, userID, chatID, imageData)
	if err != nil {
		log.Printf("Error analysing image from user %d: %v", userID, err)
		switch {
		case errors.Is(err, entity.ErrModelsUnavailable):
			b.sendMessage(chatID, msgModelsUnavailable)
			return
		case errors.Is(err, entity.ErrUnexpectedShape):
			b.sendMessage(chatID, msgBadDimensions)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(msgProcessingErrorFmt, err))
		return
	}

	log.Printf("Diagnosis %s: radiograph=%t score=%.4f", diagnosis.ID, !diagnosis.Rejected(), diagnosis.Validity.Score)
	b.sendMessage(chatID, formatDiagnosis(diagnosis))
}

func (b *Bot) resetUser(ctx context.Context, userID, chatID int64) {
	if _, err := b.users.Reset(ctx, userID, chatID); err != nil {
		log.Printf("Error resetting user %d: %v", userID, err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	return b.fetch(ctx, file.Link(b.token))
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func httpFetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("read file: larger than %d bytes", maxDownloadSize)
	}

	return data, nil
}

// imageFileID выбирает фото максимального размера или документ-изображение.
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if d := msg.Document; d != nil && strings.HasPrefix(d.MimeType, "image/") && d.FileSize <= maxDownloadSize {
		return d.FileID, true
	}
	return "", false
}

// senderID возвращает ID пользователя; для постов каналов ID чата.
func senderID(msg *tgbotapi.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}
