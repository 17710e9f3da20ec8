package trade

import (
	"context"
	"time"
)

// Repository defines read-only access to the time-ordered trade log.
// All queries return trades in descending trade_timestamp order.
type Repository interface {
	// FindInWindow returns trades for symbol with trade_timestamp in [from, to].
	FindInWindow(ctx context.Context, symbol string, from, to time.Time) ([]Trade, error)

	// FindLatestInDay returns the most recent trade at or before dayEnd within
	// [dayStart, dayEnd], or nil when the day holds no trades. Used as the
	// fallback when a window query comes back empty.
	FindLatestInDay(ctx context.Context, symbol string, dayStart, dayEnd time.Time) (*Trade, error)

	// FindLatestN returns the n most recent trades for symbol.
	FindLatestN(ctx context.Context, symbol string, n int) ([]Trade, error)
}
