// Package bot implements the companion Telegram bot: a /start handler that
// links chat accounts to Telegram chats, and a poller that reports unread
// offline messages.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const updateTimeout = 30

type Bot struct {
	log    *log.Logger
	api    *tgbotapi.BotAPI
	client *ApiClient
}

func NewBot(logger *log.Logger, api *tgbotapi.BotAPI, client *ApiClient) *Bot {
	return &Bot{
		log:    logger,
		api:    api,
		client: client,
	}
}

func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeout
	updates := b.api.GetUpdatesChan(u)

	b.log.Printf("bot running as @%s", b.api.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Println("bot exiting")
			return
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}

			if update.Message.Command() == "start" {
				b.handleStart(ctx, update.Message)
			}
		}
	}
}

// handleStart greets a known user and subscribes them to notifications the
// first time they contact the bot.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	botUsername := msg.From.UserName
	chatId := msg.Chat.ID

	user, err := b.client.GetUserByBotUsername(ctx, botUsername)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			b.reply(chatId, "User not found.")
			return
		}
		b.log.Println("get user by bot username:", err)
		return
	}

	b.reply(chatId, fmt.Sprintf("Hello, %s!", user.Username))

	if !user.Subscribed {
		if _, err := b.client.SubscribeUser(ctx, botUsername, chatId); err != nil {
			b.log.Println("subscribe user:", err)
			return
		}
		b.reply(chatId, "You are subscribed to notifications.")
	}
}

func (b *Bot) reply(chatId int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatId, text)); err != nil {
		b.log.Println("send reply:", err)
	}
}
