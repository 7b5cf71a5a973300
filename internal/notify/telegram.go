// Package notify pushes in-app notifications out through Telegram.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// TelegramNotifier wraps the Telegram bot API for one-way delivery of
// notification digests.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	logger *logrus.Logger
}

// NewTelegramNotifier creates a notifier authorized with the given bot token.
func NewTelegramNotifier(token string, logger *logrus.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Infof("Authorized on account %s", api.Self.UserName)

	return &TelegramNotifier{api: api, logger: logger}, nil
}

// Send pushes a Markdown-formatted message to a chat. Delivery failures are
// logged, not returned: the digest loop keeps going regardless.
func (n *TelegramNotifier) Send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.api.Send(msg); err != nil {
		n.logger.Errorf("Failed to send message to chat %d: %v", chatID, err)
	}
}
