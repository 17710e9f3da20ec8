package dailyprice

import "errors"

// Domain errors
var (
	ErrNotFound      = errors.New("daily price not found")
	ErrDatabaseQuery = errors.New("database query failed")
)
