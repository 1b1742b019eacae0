package database

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

// ErrDuplicateUsername is returned when an insert violates the unique
// constraint on users.username or users.bot_username.
var ErrDuplicateUsername = errors.New("username already taken")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

const userColumns = "id, username, password_hash, auth_token, bot_username, chat_id, subscribed, created_at, updated_at"

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.Id,
		&u.Username,
		&u.PasswordHash,
		&u.AuthToken,
		&u.BotUsername,
		&u.ChatId,
		&u.Subscribed,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (db *PgDMRepository) CreateUser(params CreateUserParams) (User, error) {
	row := db.conn.QueryRow(
		"INSERT INTO users (username, password_hash, bot_username, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $4) RETURNING "+userColumns,
		params.Username,
		params.PasswordHash,
		params.BotUsername,
		time.Now().UTC(),
	)

	u, err := scanUser(row)
	if isUniqueViolation(err) {
		return u, ErrDuplicateUsername
	}

	return u, err
}

func (db *PgDMRepository) GetUserById(userId int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE id = $1 LIMIT 1",
		userId,
	)

	return scanUser(row)
}

func (db *PgDMRepository) GetUserByUsername(username string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE username = $1 LIMIT 1",
		username,
	)

	return scanUser(row)
}

func (db *PgDMRepository) GetUserByAuthToken(token string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE auth_token = $1 LIMIT 1",
		token,
	)

	return scanUser(row)
}

func (db *PgDMRepository) GetUserByBotUsername(botUsername string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE bot_username = $1 LIMIT 1",
		botUsername,
	)

	return scanUser(row)
}

func (db *PgDMRepository) UpdateAuthToken(userId int, token string) (User, error) {
	row := db.conn.QueryRow(
		"UPDATE users SET auth_token = $2, updated_at = $3 WHERE id = $1 RETURNING "+userColumns,
		userId,
		token,
		time.Now().UTC(),
	)

	return scanUser(row)
}

func (db *PgDMRepository) SubscribeUser(botUsername string, chatId int64) (User, error) {
	row := db.conn.QueryRow(
		"UPDATE users SET chat_id = $2, subscribed = TRUE, updated_at = $3 "+
			"WHERE bot_username = $1 RETURNING "+userColumns,
		botUsername,
		chatId,
		time.Now().UTC(),
	)

	return scanUser(row)
}

func (db *PgDMRepository) ListUsers(subscribedOnly bool) ([]User, error) {
	query := "SELECT " + userColumns + " FROM users"
	if subscribedOnly {
		query += " WHERE subscribed = TRUE"
	}
	query += " ORDER BY id"

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.Id,
			&u.Username,
			&u.PasswordHash,
			&u.AuthToken,
			&u.BotUsername,
			&u.ChatId,
			&u.Subscribed,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

func (db *PgDMRepository) CreateMessage(msg Message) (Message, error) {
	row := db.conn.QueryRow(
		"INSERT INTO messages (sender_id, receiver_id, content, created_at) "+
			"VALUES ($1, $2, $3, $4) RETURNING id, sender_id, receiver_id, content, created_at",
		msg.SenderId,
		msg.ReceiverId,
		msg.Content,
		msg.CreatedAt,
	)

	var m Message
	err := row.Scan(
		&m.Id,
		&m.SenderId,
		&m.ReceiverId,
		&m.Content,
		&m.CreatedAt,
	)

	return m, err
}

func (db *PgDMRepository) GetConversation(userId, peerId, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.conn.Query(
		"SELECT id, sender_id, receiver_id, content, created_at FROM messages "+
			"WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1) "+
			"ORDER BY created_at ASC LIMIT $3",
		userId,
		peerId,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(
			&m.Id,
			&m.SenderId,
			&m.ReceiverId,
			&m.Content,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
