package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/domain/dailyprice"
)

// DailyPriceRepository implements dailyprice.Repository using PostgreSQL
type DailyPriceRepository struct {
	pool *pgxpool.Pool
}

// NewDailyPriceRepository creates a new DailyPriceRepository
func NewDailyPriceRepository(pool *pgxpool.Pool) *DailyPriceRepository {
	return &DailyPriceRepository{pool: pool}
}

// FindBySymbol returns bars matching filter, newest first, with total count
func (r *DailyPriceRepository) FindBySymbol(ctx context.Context, symbol string, filter dailyprice.Filter, limit, offset int) ([]dailyprice.DailyPrice, int, error) {
	where := `WHERE symbol = $1`
	args := []interface{}{symbol}

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += fmt.Sprintf(` AND date >= $%d`, len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += fmt.Sprintf(` AND date <= $%d`, len(args))
	}
	if filter.Year > 0 {
		args = append(args, filter.Year)
		where += fmt.Sprintf(` AND EXTRACT(YEAR FROM date) = $%d`, len(args))
	}

	countQuery := `SELECT COUNT(*) FROM market.daily_prices ` + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", dailyprice.ErrDatabaseQuery, err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT id, symbol, date, open, high, low, close, volume
		FROM market.daily_prices
		%s
		ORDER BY date DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", dailyprice.ErrDatabaseQuery, err)
	}
	defer rows.Close()

	var prices []dailyprice.DailyPrice
	for rows.Next() {
		var p dailyprice.DailyPrice
		err := rows.Scan(
			&p.ID,
			&p.Symbol,
			&p.Date,
			&p.Open,
			&p.High,
			&p.Low,
			&p.Close,
			&p.Volume,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", dailyprice.ErrDatabaseQuery, err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", dailyprice.ErrDatabaseQuery, err)
	}

	return prices, total, nil
}

// FindLatestBySymbol returns the most recent bar, or nil
func (r *DailyPriceRepository) FindLatestBySymbol(ctx context.Context, symbol string) (*dailyprice.DailyPrice, error) {
	query := `
		SELECT id, symbol, date, open, high, low, close, volume
		FROM market.daily_prices
		WHERE symbol = $1
		ORDER BY date DESC
		LIMIT 1
	`

	var p dailyprice.DailyPrice
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&p.ID,
		&p.Symbol,
		&p.Date,
		&p.Open,
		&p.High,
		&p.Low,
		&p.Close,
		&p.Volume,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", dailyprice.ErrDatabaseQuery, err)
	}

	return &p, nil
}
