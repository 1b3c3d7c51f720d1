package channel

import (
	"context"
)

// Event names published on a user's channel.
const (
	// EventNotificationNew carries a freshly created notification.
	EventNotificationNew = "notification:new"
	// EventUnreadCount carries the recipient's recomputed unread counter.
	EventUnreadCount = "notification:count"
	// EventAllRead tells connected clients to clear their entire feed
	// without refetching every item.
	EventAllRead = "notification:all_read"
	// EventEmailDeferred is a diagnostic event emitted when a companion
	// email was deferred past quiet hours.
	EventEmailDeferred = "email:deferred"
)

// Event is one message on a user's channel.
type Event struct {
	Name    string `json:"name"`
	Payload any    `json:"payload,omitempty"`
}

// Publisher abstracts the real-time pub/sub provider. One publish attempt
// per call; implementations never retry internally.
type Publisher interface {
	// Publish sends an event to the recipient's channel.
	Publish(ctx context.Context, userID, event string, payload any) error

	// Connected reports whether the user currently has at least one open
	// connection. The answer is a best-effort presence hint.
	Connected(ctx context.Context, userID string) (bool, error)

	// ConnectedUsers returns the identifiers of currently connected users.
	ConnectedUsers(ctx context.Context) ([]string, error)

	// Close releases publisher resources.
	Close() error
}
