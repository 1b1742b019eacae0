package config

import (
	"encoding/base64"
	"fmt"
	"time"
)

type Config struct {
	DatabaseDSN    string
	RedisURL       string
	ServerAddr     string
	SigningKey     []byte
	AllowedOrigins []string
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(base64Secret)
}

func NewConfig(serverAddr, databaseDSN, redisURL, base64Secret string, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL cannot be empty")
	}
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}

	// Decode the base64 encoded signing secret
	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}

	return &Config{
		DatabaseDSN:    databaseDSN,
		RedisURL:       redisURL,
		ServerAddr:     serverAddr,
		SigningKey:     signingKey,
		AllowedOrigins: allowedOrigins,
	}, nil
}

type BotConfig struct {
	Token        string
	ApiURL       string
	RedisURL     string
	PollInterval time.Duration
}

func NewBotConfig(token, apiURL, redisURL string, pollInterval time.Duration) (*BotConfig, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token cannot be empty")
	}
	if apiURL == "" {
		return nil, fmt.Errorf("api URL cannot be empty")
	}
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL cannot be empty")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}

	return &BotConfig{
		Token:        token,
		ApiURL:       apiURL,
		RedisURL:     redisURL,
		PollInterval: pollInterval,
	}, nil
}
