package bot

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/mymmrac/telego"
)

// DefaultMaxVideoSize is the Bot API upload limit. It applies to every file
// type, so larger clips cannot be published at all.
const DefaultMaxVideoSize = 50 * 1024 * 1024

type TelegramBot struct {
	client       *telego.Bot
	logger       *log.Logger
	chatID       int64
	maxVideoSize int64
}

func NewTelegramBot(token string, chatID int64, logger *log.Logger, maxVideoSize int64) (*TelegramBot, error) {
	if logger == nil {
		logger = log.Default()
	}
	if maxVideoSize <= 0 {
		maxVideoSize = DefaultMaxVideoSize
	}

	b, err := telego.NewBot(token, telego.WithDiscardLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to create telego bot: %w", err)
	}

	return &TelegramBot{
		client:       b,
		logger:       logger,
		chatID:       chatID,
		maxVideoSize: maxVideoSize,
	}, nil
}

func (tb *TelegramBot) Publish(ctx context.Context, filePath, caption string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	if stat.Size() > tb.maxVideoSize {
		return fmt.Errorf("%s is %d bytes, over the %d byte upload limit", filePath, stat.Size(), tb.maxVideoSize)
	}
	return tb.SendVideo(ctx, filePath, caption)
}

func (tb *TelegramBot) SendVideo(ctx context.Context, filePath, caption string) error {
	return tb.sendFileFromPath(ctx, filePath,
		func(ctx context.Context, id telego.ChatID, f telego.InputFile) (*telego.Message, error) {
			return tb.client.SendVideo(ctx, &telego.SendVideoParams{
				ChatID:            id,
				Video:             f,
				Caption:           caption,
				SupportsStreaming: true,
			})
		},
	)
}

func (tb *TelegramBot) sendFileFromPath(
	ctx context.Context,
	filePath string,
	sender func(context.Context, telego.ChatID, telego.InputFile) (*telego.Message, error),
) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer func(file *os.File) {
		if closeErr := file.Close(); closeErr != nil {
			tb.logger.Printf("Failed to close file %s: %v", filePath, closeErr)
		}
	}(file)

	_, err = sender(ctx, telego.ChatID{ID: tb.chatID}, telego.InputFile{File: file})
	if err != nil {
		return fmt.Errorf("failed to send file to chat %d: %w", tb.chatID, err)
	}
	tb.logger.Printf("Published %s to chat %d", filePath, tb.chatID)
	return nil
}
