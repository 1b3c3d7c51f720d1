package channel

import "errors"

var (
	// ErrPublisherClosed is returned when publishing through a closed publisher.
	ErrPublisherClosed = errors.New("channel publisher is closed")

	// ErrPublishFailed wraps a provider error raised during publish.
	ErrPublishFailed = errors.New("failed to publish event")

	// ErrPresenceQueryFailed wraps a provider error raised during a presence query.
	ErrPresenceQueryFailed = errors.New("failed to query channel presence")
)
