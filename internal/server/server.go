package server

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/dmchat/dmserver/internal/database"
	"github.com/dmchat/dmserver/internal/mailbox"
	"github.com/dmchat/dmserver/internal/stats"
)

const (
	metricActiveConnections = "ActiveConnections"
	metricOnlineUsers       = "OnlineUsers"
	metricMessagesDelivered = "MessagesDelivered"
	metricMessagesQueued    = "MessagesQueued"
)

const mailboxOpTimeout = 5 * time.Second

type stopReq struct {
	done chan struct{}
}

// ChatServer owns the session registry. All registry and mailbox mutation
// happens on the Run goroutine, which serializes concurrent sessions for the
// same user.
type ChatServer struct {
	log     *log.Logger
	db      database.DMRepository
	mailbox mailbox.Mailbox
	stats   stats.StatsProvider

	clients map[*Client]struct{}
	userMap map[int]map[*Client]struct{}

	RegisterChan   chan *Client
	DeRegisterChan chan *Client
	relayChan      chan *ClientMessage
	stop           chan stopReq
}

func NewChatServer(logger *log.Logger, db database.DMRepository, mbox mailbox.Mailbox, su stats.StatsProvider) (*ChatServer, error) {
	cs := &ChatServer{
		log:            logger,
		db:             db,
		mailbox:        mbox,
		stats:          su,
		clients:        make(map[*Client]struct{}),
		userMap:        make(map[int]map[*Client]struct{}),
		RegisterChan:   make(chan *Client),
		DeRegisterChan: make(chan *Client),
		relayChan:      make(chan *ClientMessage, 256),
		stop:           make(chan stopReq),
	}

	for _, name := range []string{
		metricActiveConnections,
		metricOnlineUsers,
		metricMessagesDelivered,
		metricMessagesQueued,
	} {
		cs.stats.RegisterMetric(name)
	}

	return cs, nil
}

func (cs *ChatServer) Run() {
	for {
		select {
		case client := <-cs.RegisterChan:
			cs.log.Printf("adding connection from %q", client.user.Username)
			cs.handleRegister(client)
		case client := <-cs.DeRegisterChan:
			cs.log.Printf("removing connection from %q", client.user.Username)
			cs.handleDeRegister(client)
		case msg := <-cs.relayChan:
			cs.handleInbound(msg)
		case req := <-cs.stop:
			cs.log.Println("closing client connections")
			for c := range cs.clients {
				c.stopClient()
			}
			close(req.done)
			return
		}
	}
}

// RegisterClient hands a freshly upgraded session to the run loop. The
// channel is unbuffered so the session is registered before its read pump
// can produce a deregister.
func (cs *ChatServer) RegisterClient(c *Client) {
	cs.RegisterChan <- c
}

func (cs *ChatServer) Shutdown(ctx context.Context) error {
	req := stopReq{done: make(chan struct{})}

	select {
	case cs.stop <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (cs *ChatServer) addSession(c *Client) {
	cs.clients[c] = struct{}{}
	if cs.userMap[c.user.Id] == nil {
		cs.userMap[c.user.Id] = make(map[*Client]struct{})
	}
	cs.userMap[c.user.Id][c] = struct{}{}
}

// removeSession deletes the session and drops the user key entirely once the
// last session is gone. It reports whether the user went offline.
func (cs *ChatServer) removeSession(c *Client) bool {
	if _, ok := cs.clients[c]; !ok {
		return false
	}
	delete(cs.clients, c)

	userClients, ok := cs.userMap[c.user.Id]
	if !ok {
		return false
	}

	delete(userClients, c)
	if len(userClients) == 0 {
		delete(cs.userMap, c.user.Id)
		return true
	}

	return false
}

func (cs *ChatServer) isOnline(userId int) bool {
	return len(cs.userMap[userId]) > 0
}

func (cs *ChatServer) sessionsFor(userId int) map[*Client]struct{} {
	return cs.userMap[userId]
}

func (cs *ChatServer) handleRegister(c *Client) {
	firstSession := !cs.isOnline(c.user.Id)
	cs.addSession(c)
	cs.stats.Incr(metricActiveConnections)
	if firstSession {
		cs.stats.Incr(metricOnlineUsers)
	}

	cs.broadcastStatus(c.user.Id, StatusOnline)
	cs.drainMailbox(c)
}

func (cs *ChatServer) handleDeRegister(c *Client) {
	if _, ok := cs.clients[c]; !ok {
		return
	}

	wentOffline := cs.removeSession(c)
	cs.stats.Decr(metricActiveConnections)

	if wentOffline {
		cs.stats.Decr(metricOnlineUsers)
		cs.broadcastStatus(c.user.Id, StatusOffline)
	}
}

// drainMailbox empties the user's offline mailbox into the newly registered
// session, preserving enqueue order. Entries queued to a session that dies
// before flushing are lost, not requeued.
func (cs *ChatServer) drainMailbox(c *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), mailboxOpTimeout)
	defer cancel()

	entries, err := cs.mailbox.Drain(ctx, c.user.Id)
	if err != nil {
		cs.log.Printf("drain mailbox for user %d: %v", c.user.Id, err)
		return
	}

	for _, entry := range entries {
		if !c.queueMessage(ChatPayload(entry.SenderId, entry.ReceiverId, entry.Content)) {
			cs.log.Printf("failed to deliver queued message to user %d", c.user.Id)
			continue
		}
		cs.stats.Incr(metricMessagesDelivered)
	}
}

func (cs *ChatServer) handleInbound(msg *ClientMessage) {
	if msg.isStatusUpdate() {
		cs.broadcastStatus(msg.UserId, msg.Status)
		return
	}

	cs.relayMessage(msg)
}

// relayMessage persists the message, then delivers it to the receiver's
// active sessions or queues it in the offline mailbox. Persistence always
// precedes transport.
func (cs *ChatServer) relayMessage(msg *ClientMessage) {
	if _, err := cs.db.GetUserById(msg.ReceiverId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			msg.client.queueMessage(ErrUserNotFound(msg.ReceiverId))
		} else {
			cs.log.Println("lookup receiver:", err)
			msg.client.queueMessage(ErrInternalError())
		}
		return
	}

	if _, err := cs.db.CreateMessage(database.Message{
		SenderId:   msg.UserId,
		ReceiverId: msg.ReceiverId,
		Content:    msg.Content,
		CreatedAt:  msg.Timestamp,
	}); err != nil {
		cs.log.Println("error saving message:", err)
		msg.client.queueMessage(ErrInternalError())
		return
	}

	if cs.isOnline(msg.ReceiverId) {
		payload := ChatPayload(msg.UserId, msg.ReceiverId, msg.Content)
		for c := range cs.sessionsFor(msg.ReceiverId) {
			if !c.queueMessage(payload) {
				cs.log.Printf("failed to deliver message to a session of user %d", msg.ReceiverId)
				continue
			}
			cs.stats.Incr(metricMessagesDelivered)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), mailboxOpTimeout)
	defer cancel()

	if err := cs.mailbox.Enqueue(ctx, msg.ReceiverId, mailbox.Entry{
		SenderId:   msg.UserId,
		ReceiverId: msg.ReceiverId,
		Content:    msg.Content,
	}); err != nil {
		cs.log.Printf("enqueue message for user %d: %v", msg.ReceiverId, err)
		msg.client.queueMessage(ErrInternalError())
		return
	}
	cs.stats.Incr(metricMessagesQueued)
}

// broadcastStatus sends a status update to every session of every other user.
func (cs *ChatServer) broadcastStatus(userId int, status string) {
	update := StatusUpdate(userId, status)
	for otherId, sessions := range cs.userMap {
		if otherId == userId {
			continue
		}
		for c := range sessions {
			if !c.queueMessage(update) {
				cs.log.Printf("failed to send status update to a session of user %d", otherId)
			}
		}
	}
}
