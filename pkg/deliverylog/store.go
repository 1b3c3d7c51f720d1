package deliverylog

import (
	"context"
	"time"
)

// CreateInput is the data recorded when a dispatch attempt begins.
type CreateInput struct {
	NotificationID string
	UserID         string
	WasConnected   bool
	ConnectionID   string
}

// UpdateOptions carries the optional fields of a status update. Error is
// accepted only with StatusFailed; LatencyMS only with StatusDelivered.
type UpdateOptions struct {
	Error     *string
	LatencyMS *int64
}

// Metrics aggregates delivery outcomes since a point in time.
type Metrics struct {
	Total     int64 `json:"total"`
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
	Polled    int64 `json:"polled"`
	Pending   int64 `json:"pending"`

	// SuccessRate is (delivered + polled) / total; 0 when total is 0.
	SuccessRate float64 `json:"success_rate"`

	// Latency aggregates over rows with a recorded latency.
	LatencySamples int64   `json:"latency_samples"`
	AvgLatencyMS   float64 `json:"avg_latency_ms"`
	MinLatencyMS   int64   `json:"min_latency_ms"`
	MaxLatencyMS   int64   `json:"max_latency_ms"`
}

// RecentOptions filters the recent-log query.
type RecentOptions struct {
	Limit  int        // maximum rows to return, 0 means the store default
	Since  *time.Time // only rows dispatched after this time
	Status *Status    // only rows in this status
}

// Entry is a delivery-log row joined with its notification's type and title
// for operational inspection.
type Entry struct {
	Log
	NotificationType  string `json:"notification_type"`
	NotificationTitle string `json:"notification_title"`
}

// Lookup resolves a notification's type and title for joining into Entry
// rows. Stores call it per row; a failed lookup leaves the fields empty
// rather than failing the whole query.
type Lookup func(ctx context.Context, userID, notificationID string) (typ, title string, err error)

// Store persists delivery-attempt records and their status state machine.
type Store interface {
	// Create inserts a new PENDING log row and returns it.
	Create(ctx context.Context, input CreateInput) (Log, error)

	// UpdateStatus transitions the row to the given status. Illegal
	// transitions return ErrIllegalTransition; field/status mismatches in
	// opts return ErrInvariantViolation.
	UpdateStatus(ctx context.Context, id string, status Status, opts UpdateOptions) error

	// Get returns a single log row.
	Get(ctx context.Context, id string) (*Log, error)

	// Metrics aggregates delivery outcomes for rows dispatched at or after since.
	Metrics(ctx context.Context, since time.Time) (Metrics, error)

	// Recent returns the most recent rows, newest first, joined with their
	// notification's type and title.
	Recent(ctx context.Context, opts RecentOptions) ([]Entry, error)

	// Cleanup deletes rows in a terminal success state (DELIVERED or POLLED)
	// older than the given age and returns the count removed. FAILED and
	// PENDING rows are retained for diagnosis.
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

// validateUpdate enforces the shared state-machine and field invariants for
// every Store implementation.
func validateUpdate(current Status, next Status, opts UpdateOptions) error {
	if !current.CanTransitionTo(next) {
		return ErrIllegalTransition
	}
	if opts.LatencyMS != nil && next != StatusDelivered {
		return ErrInvariantViolation
	}
	if opts.Error != nil && next != StatusFailed {
		return ErrInvariantViolation
	}
	return nil
}

// applyUpdate mutates a log row for a validated transition. Moving off
// FAILED clears the stale error so the error-only-on-FAILED invariant holds;
// terminal success states record the delivery timestamp.
func applyUpdate(l *Log, next Status, opts UpdateOptions, now time.Time) {
	l.Status = next
	if opts.Error != nil {
		l.Error = opts.Error
	}
	if opts.LatencyMS != nil {
		l.LatencyMS = opts.LatencyMS
	}
	if next != StatusFailed {
		l.Error = nil
	}
	if next.Success() {
		at := now
		l.DeliveredAt = &at
	}
}
