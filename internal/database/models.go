package database

import (
	"database/sql"
	"time"
)

type User struct {
	Id           int
	Username     string
	PasswordHash string
	AuthToken    sql.NullString
	BotUsername  sql.NullString
	ChatId       sql.NullInt64
	Subscribed   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Message struct {
	Id         int
	SenderId   int
	ReceiverId int
	Content    string
	CreatedAt  time.Time
}

type CreateUserParams struct {
	Username     string
	PasswordHash string
	BotUsername  string
}
