package stream

import "errors"

var (
	// ErrStoreUnavailable terminates a session after the consecutive-failure
	// threshold is exceeded.
	ErrStoreUnavailable = errors.New("trade store unavailable")

	ErrInvalidInterval = errors.New("invalid poll interval")
)
