package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmchat/dmserver/internal/database"
	"github.com/dmchat/dmserver/internal/mailbox"
	"github.com/dmchat/dmserver/internal/testutil"
	"github.com/dmchat/dmserver/internal/types"
)

// dialTestClient upgrades an httptest connection and wires a Client with
// running read/write pumps around the server side of it.
func dialTestClient(t *testing.T, cs *ChatServer, user types.User) *websocket.Conn {
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}

		client := NewClient(user, conn, cs, testutil.TestLogger(t))
		go client.Write()
		go client.Read()
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "failed to dial test server")
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestClientRead_ChatFrame(t *testing.T) {
	cs := newTestChatServer(t, &database.MockDMRepository{}, &mailbox.MockMailbox{})
	conn := dialTestClient(t, cs, types.User{Id: 1, Username: "alice"})

	err := conn.WriteJSON(map[string]any{"receiver_id": 2, "content": "hello"})
	require.NoError(t, err, "failed to write chat frame")

	select {
	case msg := <-cs.relayChan:
		assert.False(t, msg.isStatusUpdate(), "expected a chat message")
		assert.Equal(t, 1, msg.UserId, "expected sender attributed to the session's user")
		assert.Equal(t, 2, msg.ReceiverId, "expected receiver id from the frame")
		assert.Equal(t, "hello", msg.Content, "expected content from the frame")
		assert.NotNil(t, msg.client, "expected the originating client to be attached")
		assert.False(t, msg.Timestamp.IsZero(), "expected a timestamp to be stamped")
	case <-time.After(time.Second):
		t.Fatal("expected chat frame on relay channel")
	}
}

func TestClientRead_StatusUpdateFrame(t *testing.T) {
	cs := newTestChatServer(t, &database.MockDMRepository{}, &mailbox.MockMailbox{})
	conn := dialTestClient(t, cs, types.User{Id: 1, Username: "alice"})

	err := conn.WriteJSON(map[string]any{"type": "status_update", "status": "online"})
	require.NoError(t, err, "failed to write status frame")

	select {
	case msg := <-cs.relayChan:
		assert.True(t, msg.isStatusUpdate(), "expected a status update")
		assert.Equal(t, 1, msg.UserId, "expected user id defaulted to the session's user")
		assert.Equal(t, StatusOnline, msg.Status, "expected status from the frame")
	case <-time.After(time.Second):
		t.Fatal("expected status frame on relay channel")
	}
}

func TestClientRead_InvalidFrames(t *testing.T) {
	tcases := []struct {
		name  string
		frame string
	}{
		{
			name:  "malformed json",
			frame: "{not-json",
		},
		{
			name:  "chat frame without receiver",
			frame: `{"content":"hello"}`,
		},
		{
			name:  "chat frame without content",
			frame: `{"receiver_id":2}`,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			cs := newTestChatServer(t, &database.MockDMRepository{}, &mailbox.MockMailbox{})
			conn := dialTestClient(t, cs, types.User{Id: 1, Username: "alice"})

			err := conn.WriteMessage(websocket.TextMessage, []byte(tc.frame))
			require.NoError(t, err, "failed to write frame")

			conn.SetReadDeadline(time.Now().Add(time.Second))
			_, raw, err := conn.ReadMessage()
			require.NoError(t, err, "expected an error frame back")

			var msg ServerMessage
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, TypeError, msg.Type, "expected an error frame")
			assert.Equal(t, "invalid message format", msg.Error, "expected invalid message error")

			select {
			case relayed := <-cs.relayChan:
				t.Errorf("expected nothing on relay channel, got %+v", relayed)
			default:
			}
		})
	}
}

func TestClientCleanup_DeRegisters(t *testing.T) {
	cs := newTestChatServer(t, &database.MockDMRepository{}, &mailbox.MockMailbox{})
	conn := dialTestClient(t, cs, types.User{Id: 1, Username: "alice"})

	require.NoError(t, conn.Close())

	select {
	case c := <-cs.DeRegisterChan:
		assert.Equal(t, 1, c.user.Id, "expected the closed session's client to deregister")
	case <-time.After(time.Second):
		t.Fatal("expected client on deregister channel")
	}
}

func TestClientCleanup_AfterStopDoesNotBlock(t *testing.T) {
	cs := newTestChatServer(t, &database.MockDMRepository{}, &mailbox.MockMailbox{})
	// run loop never started: nothing drains DeRegisterChan

	c := newTestClient(types.User{Id: 1, Username: "alice"}, cs)
	c.stopClient()

	done := make(chan struct{})
	go func() {
		c.cleanup()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected cleanup to return once the client is stopped")
	}
}

func TestQueueMessage_FullChannel(t *testing.T) {
	c := &Client{
		log:  testutil.TestLogger(t),
		send: make(chan *ServerMessage, 1),
	}

	assert.True(t, c.queueMessage(StatusUpdate(1, StatusOnline)), "expected queue to succeed with capacity")
	assert.False(t, c.queueMessage(StatusUpdate(1, StatusOnline)), "expected queue to fail when channel is full")
}
