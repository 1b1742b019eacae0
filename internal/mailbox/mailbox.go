// Package mailbox stores undelivered chat messages in Redis, one ordered
// list per recipient under key unsent_messages:<user_id>.
package mailbox

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "unsent_messages:"

type Entry struct {
	SenderId   int    `json:"sender_id"`
	ReceiverId int    `json:"receiver_id"`
	Content    string `json:"content"`
}

type Mailbox interface {
	Enqueue(ctx context.Context, userId int, entry Entry) error
	Drain(ctx context.Context, userId int) ([]Entry, error)
	Len(ctx context.Context, userId int) (int64, error)
}

type RedisMailbox struct {
	cli *redis.Client
}

func NewRedisMailbox(url string) (*RedisMailbox, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &RedisMailbox{cli: redis.NewClient(opt)}, nil
}

func key(userId int) string {
	return fmt.Sprintf("%s%d", keyPrefix, userId)
}

func (m *RedisMailbox) Enqueue(ctx context.Context, userId int, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	return m.cli.RPush(ctx, key(userId), data).Err()
}

// Drain returns all queued entries for the user in enqueue order and removes
// the key. The read and delete run in a single MULTI/EXEC so a concurrent
// enqueue cannot slip between them.
func (m *RedisMailbox) Drain(ctx context.Context, userId int) ([]Entry, error) {
	k := key(userId)

	var rangeCmd *redis.StringSliceCmd
	_, err := m.cli.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		rangeCmd = pipe.LRange(ctx, k, 0, -1)
		pipe.Del(ctx, k)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drain mailbox: %w", err)
	}

	raw := rangeCmd.Val()
	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("unmarshal entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func (m *RedisMailbox) Len(ctx context.Context, userId int) (int64, error) {
	return m.cli.LLen(ctx, key(userId)).Result()
}

func (m *RedisMailbox) Close() error {
	return m.cli.Close()
}
