package dispatch

import "errors"

var (
	// ErrNoEmailSender is recorded when an email context was supplied but no
	// sender is configured.
	ErrNoEmailSender = errors.New("email sender not configured")
)
