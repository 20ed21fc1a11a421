// Package notify delivers reminder texts to the user. The daemon picks the
// Telegram sink when a token is configured and falls back to the log sink.
package notify

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier pushes a rendered notification to its destination.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// LogNotifier writes notifications to the process log. Used when no delivery
// channel is configured, and handy in development.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, text string) error {
	log.Printf("[notify] %s", text)
	return nil
}

// TelegramNotifier sends notifications as HTML messages to a single chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] notifier authorized on account %s", api.Self.UserName)
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}
