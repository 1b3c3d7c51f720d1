package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famlinkhq/notifykit/pkg/channel"
	"github.com/famlinkhq/notifykit/pkg/deliverylog"
	"github.com/famlinkhq/notifykit/pkg/notification"
)

func dispatchTwo(t *testing.T, d *Dispatcher) (*Result, *Result) {
	t.Helper()
	ctx := context.Background()
	first, err := d.Dispatch(ctx, "u1", notification.TypeMessage, Content{Title: "a", Message: "a"}, nil)
	require.NoError(t, err)
	second, err := d.Dispatch(ctx, "u1", notification.TypeMessage, Content{Title: "b", Message: "b"}, nil)
	require.NoError(t, err)
	return first, second
}

func TestMarkAsRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	storage := notification.NewMemoryStorage()
	publisher := &stubPublisher{}
	d := New(storage, notification.NewMemoryPreferenceStore(), deliverylog.NewMemoryStore(nil), publisher)

	first, _ := dispatchTwo(t, d)

	require.NoError(t, d.MarkAsRead(ctx, first.Notification.ID, "u1"))

	stored, err := storage.Get(ctx, "u1", first.Notification.ID)
	require.NoError(t, err)
	assert.True(t, stored.Read)

	// Two dispatches plus the read mutation republish the counter: 1, 2, 1.
	counts := publisher.eventsFor("u1", channel.EventUnreadCount)
	require.Len(t, counts, 3)
	assert.Equal(t, map[string]int{"unread": 1}, counts[2].Payload)
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	storage := notification.NewMemoryStorage()
	d := New(storage, notification.NewMemoryPreferenceStore(), deliverylog.NewMemoryStore(nil), &stubPublisher{})
	first, _ := dispatchTwo(t, d)

	require.NoError(t, d.MarkAsRead(ctx, first.Notification.ID, "u1"))
	stored, err := storage.Get(ctx, "u1", first.Notification.ID)
	require.NoError(t, err)
	readAt := *stored.ReadAt

	require.NoError(t, d.MarkAsRead(ctx, first.Notification.ID, "u1"))
	stored, err = storage.Get(ctx, "u1", first.Notification.ID)
	require.NoError(t, err)
	assert.Equal(t, readAt, *stored.ReadAt)
}

func TestMarkAllAsRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	storage := notification.NewMemoryStorage()
	publisher := &stubPublisher{}
	d := New(storage, notification.NewMemoryPreferenceStore(), deliverylog.NewMemoryStore(nil), publisher)

	dispatchTwo(t, d)

	require.NoError(t, d.MarkAllAsRead(ctx, "u1"))

	count, err := storage.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	// The counter lands on zero and the all-read event fires exactly once
	// with the number of notifications it marked.
	counts := publisher.eventsFor("u1", channel.EventUnreadCount)
	require.NotEmpty(t, counts)
	assert.Equal(t, map[string]int{"unread": 0}, counts[len(counts)-1].Payload)

	allRead := publisher.eventsFor("u1", channel.EventAllRead)
	require.Len(t, allRead, 1)
	assert.Equal(t, map[string]int{"marked": 2}, allRead[0].Payload)
}

func TestMarkAllAsReadWhenNothingUnread(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	publisher := &stubPublisher{}
	d := New(notification.NewMemoryStorage(), notification.NewMemoryPreferenceStore(),
		deliverylog.NewMemoryStore(nil), publisher)

	require.NoError(t, d.MarkAllAsRead(ctx, "u1"))

	allRead := publisher.eventsFor("u1", channel.EventAllRead)
	require.Len(t, allRead, 1)
	assert.Equal(t, map[string]int{"marked": 0}, allRead[0].Payload)
}
