package server

import (
	"time"
)

const (
	TypeStatusUpdate = "status_update"
	TypeMessage      = "message"
	TypeError        = "error"
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// ClientMessage is an inbound frame. A frame with type "status_update"
// carries user_id and status; any other frame is a chat message addressed
// by receiver_id.
type ClientMessage struct {
	Type       string `json:"type,omitempty"`
	UserId     int    `json:"user_id,omitempty"`
	Status     string `json:"status,omitempty"`
	ReceiverId int    `json:"receiver_id,omitempty"`
	Content    string `json:"content,omitempty"`

	client    *Client
	Timestamp time.Time `json:"-"`
}

func (m *ClientMessage) isStatusUpdate() bool {
	return m.Type == TypeStatusUpdate
}

type ServerMessage struct {
	Type       string    `json:"type,omitempty"`
	UserId     int       `json:"user_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	SenderId   int       `json:"sender_id,omitempty"`
	ReceiverId int       `json:"receiver_id,omitempty"`
	Content    string    `json:"content,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func StatusUpdate(userId int, status string) *ServerMessage {
	return &ServerMessage{
		Type:      TypeStatusUpdate,
		UserId:    userId,
		Status:    status,
		Timestamp: Now(),
	}
}

func ChatPayload(senderId, receiverId int, content string) *ServerMessage {
	return &ServerMessage{
		Type:       TypeMessage,
		SenderId:   senderId,
		ReceiverId: receiverId,
		Content:    content,
		Timestamp:  Now(),
	}
}

func ErrInvalidMessage() *ServerMessage {
	return &ServerMessage{
		Type:      TypeError,
		Error:     "invalid message format",
		Timestamp: Now(),
	}
}

func ErrUserNotFound(userId int) *ServerMessage {
	return &ServerMessage{
		Type:      TypeError,
		UserId:    userId,
		Error:     "user not found",
		Timestamp: Now(),
	}
}

func ErrInternalError() *ServerMessage {
	return &ServerMessage{
		Type:      TypeError,
		Error:     "internal server error",
		Timestamp: Now(),
	}
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
