package dailyprice

import (
	"context"
	"time"
)

// Filter narrows daily price listings. Zero values mean no constraint.
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Year      int
}

// Repository defines read-only access to daily price bars.
type Repository interface {
	// FindBySymbol returns bars for symbol matching filter, newest first,
	// along with the total row count for pagination.
	FindBySymbol(ctx context.Context, symbol string, filter Filter, limit, offset int) ([]DailyPrice, int, error)

	// FindLatestBySymbol returns the most recent bar for symbol, or nil.
	FindLatestBySymbol(ctx context.Context, symbol string) (*DailyPrice, error)
}
