package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/domain/trade"
)

// TradeRepository implements trade.Repository using PostgreSQL
type TradeRepository struct {
	pool *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(pool *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{pool: pool}
}

const tradeColumns = `symbol, trade_timestamp, uuid, price, volume, trade_conditions, ingest_timestamp`

// FindInWindow returns trades in [from, to], newest first
func (r *TradeRepository) FindInWindow(ctx context.Context, symbol string, from, to time.Time) ([]trade.Trade, error) {
	if from.After(to) {
		return nil, trade.ErrInvalidWindow
	}

	query := `
		SELECT ` + tradeColumns + `
		FROM market.trades
		WHERE symbol = $1 AND trade_timestamp >= $2 AND trade_timestamp <= $3
		ORDER BY trade_timestamp DESC
	`

	rows, err := r.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", trade.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// FindLatestInDay returns the most recent trade in [dayStart, dayEnd], or nil
func (r *TradeRepository) FindLatestInDay(ctx context.Context, symbol string, dayStart, dayEnd time.Time) (*trade.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM market.trades
		WHERE symbol = $1 AND trade_timestamp >= $2 AND trade_timestamp <= $3
		ORDER BY trade_timestamp DESC
		LIMIT 1
	`

	var t trade.Trade
	err := r.pool.QueryRow(ctx, query, symbol, dayStart, dayEnd).Scan(
		&t.Symbol,
		&t.TradeTimestamp,
		&t.UUID,
		&t.Price,
		&t.Volume,
		&t.TradeConditions,
		&t.IngestTimestamp,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", trade.ErrDatabaseQuery, err)
	}

	return &t, nil
}

// FindLatestN returns the n most recent trades, newest first
func (r *TradeRepository) FindLatestN(ctx context.Context, symbol string, n int) ([]trade.Trade, error) {
	if n <= 0 {
		return nil, trade.ErrInvalidLimit
	}

	query := `
		SELECT ` + tradeColumns + `
		FROM market.trades
		WHERE symbol = $1
		ORDER BY trade_timestamp DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", trade.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

func scanTrades(rows pgx.Rows) ([]trade.Trade, error) {
	var trades []trade.Trade
	for rows.Next() {
		var t trade.Trade
		err := rows.Scan(
			&t.Symbol,
			&t.TradeTimestamp,
			&t.UUID,
			&t.Price,
			&t.Volume,
			&t.TradeConditions,
			&t.IngestTimestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", trade.ErrDatabaseQuery, err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", trade.ErrDatabaseQuery, err)
	}

	return trades, nil
}
