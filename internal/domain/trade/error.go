package trade

import "errors"

// Domain errors
var (
	ErrInvalidWindow = errors.New("invalid query window: from is after to")
	ErrInvalidLimit  = errors.New("invalid limit: must be positive")

	ErrDatabaseQuery = errors.New("database query failed")
)
