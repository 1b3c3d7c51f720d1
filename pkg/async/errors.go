package async

import "errors"

var (
	// ErrTimeout is returned by AwaitWithTimeout when the future does not complete in time.
	ErrTimeout = errors.New("async operation timed out")

	// ErrPanicked wraps a recovered panic from an asynchronous function.
	ErrPanicked = errors.New("async operation panicked")
)
