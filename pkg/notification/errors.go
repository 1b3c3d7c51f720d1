package notification

import "errors"

var (
	// ErrNotFound is returned when a notification is not found.
	ErrNotFound = errors.New("notification not found")

	// ErrMissingID is returned when a notification is created without an identifier.
	ErrMissingID = errors.New("notification ID is required")

	// ErrMissingUserID is returned when a notification is created without a recipient.
	ErrMissingUserID = errors.New("user ID is required")
)
