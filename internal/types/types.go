package types

import (
	"time"
)

type User struct {
	Id          int       `json:"id"`
	Username    string    `json:"username"`
	BotUsername string    `json:"bot_username,omitempty"`
	ChatId      int64     `json:"chat_id,omitempty"`
	Subscribed  bool      `json:"subscribed"`
	Password    string    `json:"-"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

type Message struct {
	Id         int       `json:"id"`
	SenderId   int       `json:"sender_id"`
	ReceiverId int       `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}
