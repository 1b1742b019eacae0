package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier pushes a one-line notification through a channel independent of
// the chat session, keyed by the user's external chat id.
type Notifier interface {
	Notify(ctx context.Context, chatId int64, text string) error
}

type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

func NewTelegramNotifier(api *tgbotapi.BotAPI) *TelegramNotifier {
	return &TelegramNotifier{api: api}
}

func (n *TelegramNotifier) Notify(_ context.Context, chatId int64, text string) error {
	_, err := n.api.Send(tgbotapi.NewMessage(chatId, text))
	return err
}
