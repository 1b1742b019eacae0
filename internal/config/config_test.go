package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	var (
		addr  = "localhost:8080"
		dsn   = "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable"
		redis = "redis://localhost:6379/0"
		key   = "c29tZV9zZWNyZXQ="
		orig  = []string{"http://localhost:3000"}
	)

	tcases := []struct {
		name  string
		addr  string
		dsn   string
		redis string
		key   string
		orig  []string
		err   bool
	}{
		{
			name:  "valid config",
			addr:  addr,
			dsn:   dsn,
			redis: redis,
			key:   key,
			orig:  orig,
			err:   false,
		},
		{
			name:  "empty address",
			addr:  "",
			dsn:   dsn,
			redis: redis,
			key:   key,
			orig:  orig,
			err:   true,
		},
		{
			name:  "empty DSN",
			addr:  addr,
			dsn:   "",
			redis: redis,
			key:   key,
			orig:  orig,
			err:   true,
		},
		{
			name:  "empty redis URL",
			addr:  addr,
			dsn:   dsn,
			redis: "",
			key:   key,
			orig:  orig,
			err:   true,
		},
		{
			name:  "empty signing key",
			addr:  addr,
			dsn:   dsn,
			redis: redis,
			key:   "",
			orig:  orig,
			err:   true,
		},
		{
			name:  "invalid base64 signing key",
			addr:  addr,
			dsn:   dsn,
			redis: redis,
			key:   "not-base64!!!",
			orig:  orig,
			err:   true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.addr, tc.dsn, tc.redis, tc.key, tc.orig)
			if tc.err {
				assert.Error(t, err, "expected an error")
				assert.Nil(t, cfg, "expected nil config on error")
				return
			}

			assert.NoError(t, err, "expected no error")
			assert.Equal(t, tc.addr, cfg.ServerAddr, "expected server address to be set")
			assert.Equal(t, tc.dsn, cfg.DatabaseDSN, "expected database DSN to be set")
			assert.Equal(t, tc.redis, cfg.RedisURL, "expected redis URL to be set")
			assert.Equal(t, []byte("some_secret"), cfg.SigningKey, "expected signing key to be decoded")
			assert.Equal(t, tc.orig, cfg.AllowedOrigins, "expected allowed origins to be set")
		})
	}
}

func TestNewBotConfig(t *testing.T) {
	tcases := []struct {
		name     string
		token    string
		apiURL   string
		redisURL string
		interval time.Duration
		err      bool
	}{
		{
			name:     "valid config",
			token:    "123456:token",
			apiURL:   "http://localhost:8000/api",
			redisURL: "redis://localhost:6379/0",
			interval: 10 * time.Second,
			err:      false,
		},
		{
			name:     "empty token",
			token:    "",
			apiURL:   "http://localhost:8000/api",
			redisURL: "redis://localhost:6379/0",
			interval: 10 * time.Second,
			err:      true,
		},
		{
			name:     "empty api URL",
			token:    "123456:token",
			apiURL:   "",
			redisURL: "redis://localhost:6379/0",
			interval: 10 * time.Second,
			err:      true,
		},
		{
			name:     "empty redis URL",
			token:    "123456:token",
			apiURL:   "http://localhost:8000/api",
			redisURL: "",
			interval: 10 * time.Second,
			err:      true,
		},
		{
			name:     "non-positive interval",
			token:    "123456:token",
			apiURL:   "http://localhost:8000/api",
			redisURL: "redis://localhost:6379/0",
			interval: 0,
			err:      true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewBotConfig(tc.token, tc.apiURL, tc.redisURL, tc.interval)
			if tc.err {
				assert.Error(t, err, "expected an error")
				assert.Nil(t, cfg, "expected nil config on error")
				return
			}

			assert.NoError(t, err, "expected no error")
			assert.Equal(t, tc.token, cfg.Token, "expected token to be set")
			assert.Equal(t, tc.apiURL, cfg.ApiURL, "expected api URL to be set")
			assert.Equal(t, tc.redisURL, cfg.RedisURL, "expected redis URL to be set")
			assert.Equal(t, tc.interval, cfg.PollInterval, "expected poll interval to be set")
		})
	}
}
