package deliverylog

import "errors"

var (
	// ErrNotFound is returned when a delivery log row does not exist.
	ErrNotFound = errors.New("delivery log not found")

	// ErrIllegalTransition is returned when a status update does not follow
	// the delivery state machine.
	ErrIllegalTransition = errors.New("illegal delivery status transition")

	// ErrInvariantViolation is returned when latency is supplied without
	// DELIVERED or an error string without FAILED.
	ErrInvariantViolation = errors.New("delivery log field does not match status")

	// ErrMissingNotificationID is returned when a log row is created without
	// its notification reference.
	ErrMissingNotificationID = errors.New("notification ID is required")

	// ErrMissingUserID is returned when a log row is created without a recipient.
	ErrMissingUserID = errors.New("user ID is required")
)
