package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailbox(t *testing.T) (*RedisMailbox, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)

	mbox, err := NewRedisMailbox("redis://" + srv.Addr())
	require.NoError(t, err, "failed to create mailbox")
	t.Cleanup(func() { mbox.Close() })

	return mbox, srv
}

func TestNewRedisMailbox_InvalidURL(t *testing.T) {
	_, err := NewRedisMailbox("not-a-url")
	assert.Error(t, err, "expected error for invalid redis URL")
}

func TestEnqueue(t *testing.T) {
	mbox, srv := newTestMailbox(t)

	entry := Entry{SenderId: 1, ReceiverId: 2, Content: "hello"}
	err := mbox.Enqueue(context.Background(), 2, entry)
	assert.NoError(t, err, "expected no error enqueueing")

	raw, err := srv.List("unsent_messages:2")
	require.NoError(t, err, "expected mailbox key to exist")
	require.Len(t, raw, 1, "expected one entry in the mailbox")

	var stored Entry
	require.NoError(t, json.Unmarshal([]byte(raw[0]), &stored))
	assert.Equal(t, entry, stored, "expected entry to round-trip byte-for-byte")
}

func TestDrain_FIFOOrderAndEmpty(t *testing.T) {
	mbox, srv := newTestMailbox(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := mbox.Enqueue(ctx, 7, Entry{SenderId: 1, ReceiverId: 7, Content: fmt.Sprintf("msg-%d", i)})
		require.NoError(t, err, "expected no error enqueueing")
	}

	entries, err := mbox.Drain(ctx, 7)
	assert.NoError(t, err, "expected no error draining")
	require.Len(t, entries, 3, "expected all entries to be drained")
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), e.Content, "expected FIFO order")
	}

	assert.False(t, srv.Exists("unsent_messages:7"), "expected mailbox key to be deleted after drain")

	n, err := mbox.Len(ctx, 7)
	assert.NoError(t, err, "expected no error reading length")
	assert.Zero(t, n, "expected empty mailbox after drain")
}

func TestDrain_EmptyMailbox(t *testing.T) {
	mbox, _ := newTestMailbox(t)

	entries, err := mbox.Drain(context.Background(), 99)
	assert.NoError(t, err, "expected no error draining empty mailbox")
	assert.Empty(t, entries, "expected no entries")
}

func TestLen(t *testing.T) {
	mbox, _ := newTestMailbox(t)
	ctx := context.Background()

	n, err := mbox.Len(ctx, 3)
	assert.NoError(t, err, "expected no error on missing key")
	assert.Zero(t, n, "expected zero length for missing key")

	require.NoError(t, mbox.Enqueue(ctx, 3, Entry{SenderId: 1, ReceiverId: 3, Content: "a"}))
	require.NoError(t, mbox.Enqueue(ctx, 3, Entry{SenderId: 1, ReceiverId: 3, Content: "b"}))

	n, err = mbox.Len(ctx, 3)
	assert.NoError(t, err, "expected no error reading length")
	assert.Equal(t, int64(2), n, "expected two queued entries")
}
