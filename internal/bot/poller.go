package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dmchat/dmserver/internal/mailbox"
	"github.com/dmchat/dmserver/internal/types"
)

// SubscriberSource lists the users who opted into bot notifications.
type SubscriberSource interface {
	ListSubscribedUsers(ctx context.Context) ([]types.User, error)
}

// Poller periodically checks each subscribed user's offline-mailbox depth
// and notifies when the count changes. It is a coarse diff notifier: it
// reports how many messages are waiting, not which ones are new, and a
// drain-and-refill to the same count between polls goes unnoticed.
type Poller struct {
	log      *log.Logger
	subs     SubscriberSource
	mbox     mailbox.Mailbox
	notifier Notifier
	interval time.Duration

	// lastSeen holds the last observed mailbox length per user id. It is
	// process-local; a poller restart starts from a clean slate.
	lastSeen map[int]int64
}

func NewPoller(logger *log.Logger, subs SubscriberSource, mbox mailbox.Mailbox, notifier Notifier, interval time.Duration) *Poller {
	return &Poller{
		log:      logger,
		subs:     subs,
		mbox:     mbox,
		notifier: notifier,
		interval: interval,
		lastSeen: make(map[int]int64),
	}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Printf("poller running every %s", p.interval)
	for {
		select {
		case <-ctx.Done():
			p.log.Println("poller exiting")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	users, err := p.subs.ListSubscribedUsers(ctx)
	if err != nil {
		p.log.Println("list subscribed users:", err)
		return
	}

	for _, user := range users {
		if user.ChatId == 0 {
			continue
		}

		count, err := p.mbox.Len(ctx, user.Id)
		if err != nil {
			p.log.Printf("mailbox length for user %d: %v", user.Id, err)
			continue
		}

		if count == 0 {
			// drained: a later refill to the old count should notify again
			p.lastSeen[user.Id] = 0
			continue
		}

		if count == p.lastSeen[user.Id] {
			continue
		}

		text := fmt.Sprintf("You have %d unread messages", count)
		if err := p.notifier.Notify(ctx, user.ChatId, text); err != nil {
			p.log.Printf("notify user %d: %v", user.Id, err)
			continue
		}

		p.lastSeen[user.Id] = count
	}
}
