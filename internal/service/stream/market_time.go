package stream

import (
	"fmt"
	"time"
)

// Korean wall clock is a fixed UTC+9 offset, no DST.
const viewerUTCOffset = 9 * time.Hour

// Daily trading window mapped 1:1 between the viewer's clock and the market's
// local clock: 04:00 pre-market open through 20:00 after-hours close.
// Both boundaries are inclusive.
const (
	sessionOpen  = 4 * time.Hour
	sessionClose = 20 * time.Hour
)

const marketTimezone = "America/New_York"

// MarketTime translates wall-clock instants into trade store query instants
// and stored trade timestamps back into display instants.
//
// In real-time mode both directions are the identity. In simulation mode the
// viewer's Korean wall clock is remapped onto the most recent valid US trading
// session so that a closed market appears to be trading live. The mapping is
// pure arithmetic; the only inputs are the clock and the simulation flag.
type MarketTime struct {
	simulation bool
	market     *time.Location
	now        func() time.Time
}

// MarketTimeOption overrides MarketTime defaults.
type MarketTimeOption func(*MarketTime)

// WithClock replaces the wall clock. Tests pin it to a fixed instant.
func WithClock(now func() time.Time) MarketTimeOption {
	return func(m *MarketTime) {
		m.now = now
	}
}

// NewMarketTime creates a mapper for the given mode.
func NewMarketTime(simulation bool, opts ...MarketTimeOption) (*MarketTime, error) {
	loc, err := time.LoadLocation(marketTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load market timezone: %w", err)
	}

	m := &MarketTime{
		simulation: simulation,
		market:     loc,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Simulation reports whether the mapper runs in simulation mode.
func (m *MarketTime) Simulation() bool {
	return m.simulation
}

// Now returns the current wall-clock instant in UTC.
func (m *MarketTime) Now() time.Time {
	return m.now().UTC()
}

// QueryInstant returns the instant the trade store should be queried for.
func (m *MarketTime) QueryInstant() time.Time {
	return m.queryInstantAt(m.Now())
}

// Window returns the [queryInstant-interval, queryInstant] range for one tick.
func (m *MarketTime) Window(interval time.Duration) (from, to time.Time) {
	to = m.QueryInstant()
	return to.Add(-interval), to
}

// SessionDay returns the start and end of the query instant's UTC calendar
// day, used by the empty-window fallback query.
func (m *MarketTime) SessionDay() (dayStart, dayEnd time.Time) {
	qi := m.QueryInstant()
	year, month, day := qi.Date()
	dayStart = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	dayEnd = time.Date(year, month, day, 23, 59, 59, 0, time.UTC)
	return dayStart, dayEnd
}

// DisplayInstant maps a stored UTC trade timestamp to the instant shown to
// the client. Real-time mode returns the timestamp unchanged. Simulation mode
// takes the trade's market-local time of day and re-attaches it to the
// viewer's current local calendar date, so every emitted event appears to
// belong to "today" regardless of which weekday it was recorded on.
func (m *MarketTime) DisplayInstant(tradeTS time.Time) time.Time {
	if !m.simulation {
		return tradeTS
	}

	marketLocal := tradeTS.In(m.market)
	viewerToday := m.Now().Add(viewerUTCOffset)

	year, month, day := viewerToday.Date()
	hour, min, sec := marketLocal.Clock()
	return time.Date(year, month, day, hour, min, sec, marketLocal.Nanosecond(), time.UTC)
}

func (m *MarketTime) queryInstantAt(nowUTC time.Time) time.Time {
	if !m.simulation {
		return nowUTC
	}

	viewer := nowUTC.Add(viewerUTCOffset)
	mapped := mapTimeOfDay(timeOfDay(viewer))
	sessionDate := lastMarketDay(viewer)

	// Resolve as wall-clock time in the market zone so DST days keep the
	// mapped time of day intact.
	year, month, day := sessionDate.Date()
	hour := int(mapped / time.Hour)
	min := int(mapped % time.Hour / time.Minute)
	sec := int(mapped % time.Minute / time.Second)
	nsec := int(mapped % time.Second)
	marketLocal := time.Date(year, month, day, hour, min, sec, nsec, m.market)
	return marketLocal.UTC()
}

// mapTimeOfDay maps the viewer's time of day onto the trading window.
// Before the open it maps to the prior session's close, after the close to
// the next session's open; inside the window (boundaries included) it is the
// identity.
func mapTimeOfDay(tod time.Duration) time.Duration {
	switch {
	case tod < sessionOpen:
		return sessionClose
	case tod > sessionClose:
		return sessionOpen
	default:
		return tod
	}
}

// lastMarketDay returns the most recent US market day strictly before the
// viewer's current date, rolling backward past Saturday and Sunday.
func lastMarketDay(viewer time.Time) time.Time {
	d := viewer.AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// timeOfDay returns the duration since local midnight.
func timeOfDay(t time.Time) time.Duration {
	hour, min, sec := t.Clock()
	return time.Duration(hour)*time.Hour +
		time.Duration(min)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(t.Nanosecond())
}
