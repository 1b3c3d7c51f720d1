package deliverylog

import (
	"time"
)

// Status is the delivery state of one real-time dispatch attempt.
type Status string

const (
	// StatusPending is the initial state, set when the log row is created.
	StatusPending Status = "PENDING"
	// StatusDelivered means the real-time publish was acknowledged.
	StatusDelivered Status = "DELIVERED"
	// StatusFailed means the real-time publish raised an error.
	StatusFailed Status = "FAILED"
	// StatusPolled means the client later fetched the notification through a
	// fallback pull path, confirming receipt without a confirmed push.
	StatusPolled Status = "POLLED"
)

// transitions is the legal state graph. PENDING can move to any terminal
// state; FAILED can still be overwritten by POLLED when a client polls after
// a failed push. Nothing ever returns to PENDING and nothing exits DELIVERED.
var transitions = map[Status]map[Status]bool{
	StatusPending: {StatusDelivered: true, StatusFailed: true, StatusPolled: true},
	StatusFailed:  {StatusPolled: true},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	return transitions[s][next]
}

// Terminal reports whether s is a terminal state for the happy path.
// FAILED is terminal unless later overwritten by POLLED.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusFailed || s == StatusPolled
}

// Success reports whether s counts as a successful delivery.
func (s Status) Success() bool {
	return s == StatusDelivered || s == StatusPolled
}

// Log is one delivery-attempt record per (notification, recipient) pair.
// It is written once at dispatch time and updated at most once more with the
// terminal outcome.
type Log struct {
	ID             string `json:"id" bson:"_id"`
	NotificationID string `json:"notification_id" bson:"notification_id"`
	UserID         string `json:"user_id" bson:"user_id"`
	Status         Status `json:"status" bson:"status"`

	// WasConnected is a best-effort presence hint captured at dispatch time.
	// It is advisory only; the channel provider owns actual connection
	// semantics and the publish outcome is the ground truth.
	WasConnected bool   `json:"was_connected" bson:"was_connected"`
	ConnectionID string `json:"connection_id,omitempty" bson:"connection_id,omitempty"`

	// Error is set only when Status is FAILED.
	Error *string `json:"error,omitempty" bson:"error,omitempty"`
	// LatencyMS is set only when Status is DELIVERED.
	LatencyMS *int64 `json:"latency_ms,omitempty" bson:"latency_ms,omitempty"`

	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	DispatchedAt time.Time  `json:"dispatched_at" bson:"dispatched_at"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty" bson:"delivered_at,omitempty"`
}
