package pg

import "errors"

var (
	ErrFailedToConnect     = errors.New("failed to open db connection")
	ErrFailedToParseConfig = errors.New("failed to parse db config")
	ErrHealthcheckFailed   = errors.New("healthcheck failed, connection is not available")
)
