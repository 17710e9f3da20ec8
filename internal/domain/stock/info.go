package stock

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a stock row does not exist in the store.
var ErrNotFound = errors.New("stock not found")

// Info represents listing metadata for one symbol.
// Maps to the market.stocks table.
type Info struct {
	Symbol        string     `json:"symbol" db:"symbol"`
	Name          string     `json:"name" db:"name"`
	Exchange      string     `json:"exchange" db:"exchange"`
	AssetType     string     `json:"assetType" db:"asset_type"`
	IPODate       *time.Time `json:"ipoDate,omitempty" db:"ipo_date"`
	DelistingDate *time.Time `json:"delistingDate,omitempty" db:"delisting_date"`
	Status        string     `json:"status" db:"status"`
	LastUpdatedAt time.Time  `json:"lastUpdatedAt" db:"last_updated"`
}

// InfoRepository defines read-only access to stock listing metadata.
type InfoRepository interface {
	// FindBySymbol returns listing metadata for a symbol.
	FindBySymbol(ctx context.Context, symbol string) (*Info, error)
}
