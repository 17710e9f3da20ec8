package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/domain/stock"
)

// StockInfoRepository implements stock.InfoRepository using PostgreSQL
type StockInfoRepository struct {
	pool *pgxpool.Pool
}

// NewStockInfoRepository creates a new StockInfoRepository
func NewStockInfoRepository(pool *pgxpool.Pool) *StockInfoRepository {
	return &StockInfoRepository{pool: pool}
}

// FindBySymbol returns listing metadata for a symbol
func (r *StockInfoRepository) FindBySymbol(ctx context.Context, symbol string) (*stock.Info, error) {
	query := `
		SELECT symbol, name, exchange, asset_type, ipo_date, delisting_date, status, last_updated
		FROM market.stocks
		WHERE symbol = $1
	`

	var info stock.Info
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&info.Symbol,
		&info.Name,
		&info.Exchange,
		&info.AssetType,
		&info.IPODate,
		&info.DelistingDate,
		&info.Status,
		&info.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, stock.ErrNotFound
		}
		return nil, fmt.Errorf("stock info query failed: %w", err)
	}

	return &info, nil
}
