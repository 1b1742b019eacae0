package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmchat/dmserver/internal/bot"
	"github.com/dmchat/dmserver/internal/config"
	"github.com/dmchat/dmserver/internal/mailbox"
)

var (
	token        string
	apiURL       string
	redisURL     string
	pollInterval time.Duration
)

func main() {
	flag.StringVar(&token, "token", os.Getenv("TELEGRAM_BOT_TOKEN"), "telegram bot token")
	flag.StringVar(&apiURL, "api-url", "http://localhost:8000/api", "chat server api base url")
	flag.StringVar(&redisURL, "redis-url", "redis://localhost:6379/0", "redis connection url")
	flag.DurationVar(&pollInterval, "interval", 10*time.Second, "mailbox poll interval")
	flag.Parse()

	logger := log.New(os.Stderr, "[dm-chat-bot] ", log.LstdFlags)

	cfg, err := config.NewBotConfig(token, apiURL, redisURL, pollInterval)
	if err != nil {
		logger.Fatal("config:", err)
	}

	botApi, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		logger.Fatal("telegram:", err)
	}
	logger.Printf("authorized as @%s", botApi.Self.UserName)

	mbox, err := mailbox.NewRedisMailbox(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis open:", err)
	}
	defer func() {
		if err := mbox.Close(); err != nil {
			logger.Fatal("redis close:", err)
		}
	}()

	apiClient := bot.NewApiClient(cfg.ApiURL)

	b := bot.NewBot(logger, botApi, apiClient)
	poller := bot.NewPoller(logger, apiClient, mbox, bot.NewTelegramNotifier(botApi), cfg.PollInterval)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		b.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()

	wg.Wait()
	logger.Println("shutdown complete")
}
