package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/famlinkhq/notifykit/pkg/channel"
	"github.com/famlinkhq/notifykit/pkg/logger"
)

// MarkAsRead marks one notification as read, then recomputes and
// republishes the recipient's unread counter. Marking an already-read
// notification is a no-op. Storage errors propagate: the read/unread badge
// must be correct, unlike the best-effort broadcast that follows it.
func (d *Dispatcher) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	if err := d.storage.MarkRead(ctx, userID, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	d.broadcastUnreadCount(ctx, userID)
	return nil
}

// MarkAllAsRead marks every unread notification for the user as read,
// republishes the unread counter, and publishes a single "all read" event
// so connected clients can clear their feed without refetching every item.
func (d *Dispatcher) MarkAllAsRead(ctx context.Context, userID string) error {
	marked, err := d.storage.MarkAllRead(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	d.broadcastUnreadCount(ctx, userID)

	if err := d.publisher.Publish(ctx, userID, channel.EventAllRead, map[string]int{"marked": marked}); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "failed to broadcast all-read event",
			logger.UserID(userID),
			logger.Error(err),
		)
	}
	return nil
}

func (d *Dispatcher) broadcastUnreadCount(ctx context.Context, userID string) {
	count, err := d.storage.CountUnread(ctx, userID)
	if err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "failed to recompute unread count",
			logger.UserID(userID),
			logger.Error(err),
		)
		return
	}
	if err := d.publisher.Publish(ctx, userID, channel.EventUnreadCount, map[string]int{"unread": count}); err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "failed to broadcast unread count",
			logger.UserID(userID),
			logger.Error(err),
		)
	}
}
