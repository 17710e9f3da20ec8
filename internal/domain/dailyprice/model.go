package dailyprice

import "time"

// DailyPrice represents one day's OHLCV bar for a symbol.
// Maps to the market.daily_prices table.
type DailyPrice struct {
	ID     int64     `json:"id" db:"id"`
	Symbol string    `json:"symbol" db:"symbol"`
	Date   time.Time `json:"date" db:"date"` // calendar day, midnight UTC
	Open   float64   `json:"open" db:"open"`
	High   float64   `json:"high" db:"high"`
	Low    float64   `json:"low" db:"low"`
	Close  float64   `json:"close" db:"close"`
	Volume int64     `json:"volume" db:"volume"`
}
