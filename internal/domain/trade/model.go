package trade

import (
	"time"

	"github.com/google/uuid"
)

// Trade represents a single executed transaction for a symbol.
// Maps to the market.trades table, keyed by (symbol, trade_timestamp DESC).
// Records are append-only; this service never writes them.
type Trade struct {
	Symbol          string    `json:"symbol" db:"symbol"`
	TradeTimestamp  time.Time `json:"tradeTimestamp" db:"trade_timestamp"` // UTC, part of the natural key
	UUID            uuid.UUID `json:"uuid" db:"uuid"`
	Price           float64   `json:"price" db:"price"`
	Volume          float64   `json:"volume" db:"volume"`
	TradeConditions string    `json:"tradeConditions" db:"trade_conditions"`
	IngestTimestamp time.Time `json:"ingestTimestamp" db:"ingest_timestamp"` // staleness diagnostics only
}
