package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog/log"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/pkg/config"
	applogger "github.com/HwanGonJang/stock-streaming-data-pipeline/internal/pkg/logger"
)

// Pool wraps pgxpool.Pool
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new PostgreSQL connection pool.
// SSOT: all connection info comes from config.Database.URL.
func NewPool(ctx context.Context, cfg *config.Config) (*Pool, error) {
	log.Info().Msg("Connecting to PostgreSQL...")

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns
	poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	// Query logging goes to its own rotating file when file logging is on
	if cfg.Logging.FileEnabled {
		queryLogger := applogger.NewQueryLogger(
			cfg.Logging.FilePath,
			cfg.Logging.RotationSize,
			cfg.Logging.RetentionDays,
		)

		logLevel := tracelog.LogLevelDebug
		if cfg.Logging.Level == "info" {
			logLevel = tracelog.LogLevelInfo
		} else if cfg.Logging.Level == "warn" {
			logLevel = tracelog.LogLevelWarn
		}
		poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   NewPgxZerologAdapter(queryLogger),
			LogLevel: logLevel,
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("✅ PostgreSQL connected successfully")

	if err := checkSchema(ctx, pool); err != nil {
		log.Warn().Err(err).Msg("Schema check failed, but continuing...")
	}

	return &Pool{Pool: pool}, nil
}

// checkSchema verifies the market schema exists
func checkSchema(ctx context.Context, pool *pgxpool.Pool) error {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM pg_namespace WHERE nspname = 'market'
		)
	`
	if err := pool.QueryRow(ctx, query).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check market schema: %w", err)
	}

	if !exists {
		log.Warn().Msg("⚠️  market schema does not exist (will be created by migrations)")
	}
	return nil
}

// Close closes the connection pool
func (p *Pool) Close() {
	log.Info().Msg("Closing PostgreSQL connection pool...")
	p.Pool.Close()
}
