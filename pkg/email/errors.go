package email

import "errors"

var (
	// ErrFailedToSend is returned when the provider rejects or fails a send.
	ErrFailedToSend = errors.New("email.errors.failed_to_send")

	// ErrInvalidConfig is returned when sender configuration is incomplete.
	ErrInvalidConfig = errors.New("email.errors.invalid_config")

	// ErrInvalidRecipient is returned when the payload's address is missing or malformed.
	ErrInvalidRecipient = errors.New("email.errors.invalid_recipient")

	// ErrInvalidPayload is returned when required payload fields are missing.
	ErrInvalidPayload = errors.New("email.errors.invalid_payload")
)
