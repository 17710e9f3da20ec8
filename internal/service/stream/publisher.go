package stream

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/domain/trade"
)

// PublishPredicate gates simulated emissions for a wall-clock instant.
// The session skips the whole tick when it returns false.
type PublishPredicate func(now time.Time) bool

// AlwaysOpen permits streaming around the clock. Placeholder for a future
// market-hours policy; swapping it in does not touch the tick loop.
func AlwaysOpen(time.Time) bool { return true }

// Config holds publisher defaults applied to every session.
type Config struct {
	// FailureThreshold is the number of consecutive store failures after
	// which a session terminates with ErrStoreUnavailable.
	FailureThreshold int
	// BufferSize is the outbound channel capacity per session.
	BufferSize int
}

// DefaultConfig returns default publisher configuration.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		BufferSize:       64,
	}
}

// Publisher creates per-connection trade stream sessions over a read-only
// trade store.
type Publisher struct {
	store trade.Repository
	cfg   Config
	gate  PublishPredicate
}

// NewPublisher creates a new publisher.
func NewPublisher(store trade.Repository, cfg Config) *Publisher {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultConfig().FailureThreshold
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	return &Publisher{
		store: store,
		cfg:   cfg,
		gate:  AlwaysOpen,
	}
}

// Session is one client's live subscription to a symbol's trade feed.
//
// Lifecycle: Subscribe starts a single goroutine that ticks at the poll
// interval, queries the store once per tick and pushes events to C. The loop
// runs one query at a time, so ticks arriving while a slow query is still
// outstanding are coalesced rather than queued. C is closed when the session
// ends; Err reports why.
type Session struct {
	ID       uuid.UUID
	Symbol   string
	Interval time.Duration

	// C delivers trades until the session ends, then is closed.
	C chan trade.Trade

	store            trade.Repository
	mt               *MarketTime
	gate             PublishPredicate
	failureThreshold int

	cancel    context.CancelFunc
	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

// Subscribe opens a stream session bound to ctx. Cancelling ctx or calling
// Close stops the session; both are safe to use together.
func (p *Publisher) Subscribe(ctx context.Context, symbol string, interval time.Duration, simulation bool) (*Session, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	mt, err := NewMarketTime(simulation)
	if err != nil {
		return nil, err
	}
	return p.subscribe(ctx, symbol, interval, mt), nil
}

// subscribe wires a session around an already-built mapper. Split out so
// tests can inject a pinned clock.
func (p *Publisher) subscribe(ctx context.Context, symbol string, interval time.Duration, mt *MarketTime) *Session {
	ctx, cancel := context.WithCancel(ctx)

	s := &Session{
		ID:               uuid.New(),
		Symbol:           symbol,
		Interval:         interval,
		C:                make(chan trade.Trade, p.cfg.BufferSize),
		store:            p.store,
		mt:               mt,
		gate:             p.gate,
		failureThreshold: p.cfg.FailureThreshold,
		cancel:           cancel,
	}

	log.Info().
		Str("session_id", s.ID.String()).
		Str("symbol", symbol).
		Dur("interval", interval).
		Bool("simulation", mt.Simulation()).
		Msg("Stream session started")

	go s.run(ctx)
	return s
}

// Close stops the session. Idempotent; no events are delivered after the
// channel closes.
func (s *Session) Close() {
	s.closeOnce.Do(s.cancel)
}

// Err returns the terminal error, if any, once C is closed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *Session) run(ctx context.Context) {
	defer close(s.C)
	defer s.cancel()

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	failures := 0

	for {
		select {
		case <-ctx.Done():
			log.Info().
				Str("session_id", s.ID.String()).
				Str("symbol", s.Symbol).
				Msg("Stream session closed")
			return

		case <-ticker.C:
			if s.mt.Simulation() && !s.gate(s.mt.Now()) {
				continue
			}

			if err := s.poll(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				failures++
				log.Warn().
					Err(err).
					Str("session_id", s.ID.String()).
					Str("symbol", s.Symbol).
					Int("consecutive_failures", failures).
					Msg("Tick query failed, continuing stream")

				if failures >= s.failureThreshold {
					s.setErr(ErrStoreUnavailable)
					log.Error().
						Str("session_id", s.ID.String()).
						Str("symbol", s.Symbol).
						Int("consecutive_failures", failures).
						Msg("Failure threshold exceeded, terminating stream")
					return
				}
				continue
			}
			failures = 0
		}
	}
}

// poll runs one tick: query the window, fall back to the latest trade of the
// session day when the window is empty, and emit everything through C with
// display-mapped timestamps.
func (s *Session) poll(ctx context.Context) error {
	// Bound each store query by the poll interval; a timeout counts as a
	// query failure.
	qctx, cancel := context.WithTimeout(ctx, s.Interval)
	defer cancel()

	from, to := s.mt.Window(s.Interval)
	trades, err := s.store.FindInWindow(qctx, s.Symbol, from, to)
	if err != nil {
		return err
	}

	if len(trades) == 0 {
		dayStart, dayEnd := s.mt.SessionDay()
		latest, err := s.store.FindLatestInDay(qctx, s.Symbol, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if latest == nil {
			return nil
		}
		trades = []trade.Trade{*latest}
	}

	for _, t := range trades {
		t.TradeTimestamp = s.mt.DisplayInstant(t.TradeTimestamp)
		select {
		case s.C <- t:
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}
