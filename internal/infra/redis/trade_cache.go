package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/domain/trade"
)

// TradeCache is a short-TTL read cache in front of the latest-trades query.
// The pull endpoint is the dashboard's hot path; one second of staleness is
// acceptable there while the stream stays uncached.
type TradeCache struct {
	client *redis.Client
	store  trade.Repository
	ttl    time.Duration
}

// NewTradeCache creates a new TradeCache. A nil client disables caching and
// every read goes straight to the store.
func NewTradeCache(client *redis.Client, store trade.Repository, ttl time.Duration) *TradeCache {
	if ttl <= 0 {
		ttl = 1 * time.Second
	}
	return &TradeCache{
		client: client,
		store:  store,
		ttl:    ttl,
	}
}

// LatestN returns the n most recent trades, served from cache when fresh.
// Cache failures degrade to direct store reads.
func (c *TradeCache) LatestN(ctx context.Context, symbol string, n int) ([]trade.Trade, error) {
	if c.client == nil {
		return c.store.FindLatestN(ctx, symbol, n)
	}

	key := fmt.Sprintf("trades:latest:%s:%d", symbol, n)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var trades []trade.Trade
		if err := json.Unmarshal([]byte(cached), &trades); err == nil {
			return trades, nil
		}
		// Corrupt entry, fall through to the store
		c.client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Str("symbol", symbol).Msg("Redis read failed, falling back to store")
	}

	trades, err := c.store.FindLatestN(ctx, symbol, n)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(trades); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("Redis write failed")
		}
	}

	return trades, nil
}
