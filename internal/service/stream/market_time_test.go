package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustMarketTime(t *testing.T, simulation bool, now time.Time) *MarketTime {
	t.Helper()
	mt, err := NewMarketTime(simulation, WithClock(fixedClock(now)))
	require.NoError(t, err)
	return mt
}

func TestRealTimeModeIsIdentity(t *testing.T) {
	now := time.Date(2024, 6, 12, 1, 30, 0, 0, time.UTC)
	mt := mustMarketTime(t, false, now)

	assert.Equal(t, now, mt.QueryInstant())

	tradeTS := time.Date(2024, 6, 10, 15, 45, 12, 0, time.UTC)
	assert.Equal(t, tradeTS, mt.DisplayInstant(tradeTS))
}

func TestSimulationInsideWindowKeepsTimeOfDay(t *testing.T) {
	// Viewer clock: Wednesday 2024-06-12 10:30 KST
	now := time.Date(2024, 6, 12, 1, 30, 0, 0, time.UTC)
	mt := mustMarketTime(t, true, now)

	// Expect Tuesday 2024-06-11 10:30 America/New_York (EDT, UTC-4)
	expected := time.Date(2024, 6, 11, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, expected, mt.QueryInstant())
}

func TestSimulationBeforeOpenMapsToPriorClose(t *testing.T) {
	// Viewer clock: Monday 2024-06-10 02:00 KST, before the 04:00 open.
	// Session date must roll back past the weekend to Friday 2024-06-07,
	// and the time of day maps to the 20:00 close.
	now := time.Date(2024, 6, 9, 17, 0, 0, 0, time.UTC)
	mt := mustMarketTime(t, true, now)

	expected := time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC) // Fri 20:00 EDT
	qi := mt.QueryInstant()
	assert.Equal(t, expected, qi)

	loc, err := time.LoadLocation(marketTimezone)
	require.NoError(t, err)
	local := qi.In(loc)
	assert.Equal(t, time.Friday, local.Weekday())
	assert.Equal(t, 20, local.Hour())
}

func TestSimulationAfterCloseMapsToOpen(t *testing.T) {
	// Viewer clock: Wednesday 2024-06-12 21:15 KST, after the 20:00 close
	now := time.Date(2024, 6, 12, 12, 15, 0, 0, time.UTC)
	mt := mustMarketTime(t, true, now)

	// Tuesday 2024-06-11 04:00 EDT
	expected := time.Date(2024, 6, 11, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, expected, mt.QueryInstant())
}

func TestSimulationWindowBoundariesAreInclusive(t *testing.T) {
	t.Run("exactly at open", func(t *testing.T) {
		// Viewer clock: Wednesday 2024-06-12 04:00:00 KST
		now := time.Date(2024, 6, 11, 19, 0, 0, 0, time.UTC)
		mt := mustMarketTime(t, true, now)

		// Identity mapping: Tuesday 2024-06-11 04:00 EDT
		expected := time.Date(2024, 6, 11, 8, 0, 0, 0, time.UTC)
		assert.Equal(t, expected, mt.QueryInstant())
	})

	t.Run("exactly at close", func(t *testing.T) {
		// Viewer clock: Wednesday 2024-06-12 20:00:00 KST
		now := time.Date(2024, 6, 12, 11, 0, 0, 0, time.UTC)
		mt := mustMarketTime(t, true, now)

		// Identity mapping: Tuesday 2024-06-11 20:00 EDT
		expected := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, expected, mt.QueryInstant())
	})
}

func TestSessionDateNeverFallsOnWeekend(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for day := 0; day < 30; day++ {
		viewer := start.AddDate(0, 0, day).Add(viewerUTCOffset)
		session := lastMarketDay(viewer)

		assert.NotEqual(t, time.Saturday, session.Weekday(), "viewer date %s", viewer.Format("2006-01-02"))
		assert.NotEqual(t, time.Sunday, session.Weekday(), "viewer date %s", viewer.Format("2006-01-02"))
		assert.True(t, session.Before(viewer), "session date must precede the viewer date")
	}
}

func TestDisplayInstantReattachesViewerDate(t *testing.T) {
	// Viewer today: Wednesday 2024-06-12 KST
	now := time.Date(2024, 6, 12, 1, 30, 0, 0, time.UTC)
	mt := mustMarketTime(t, true, now)

	// Trade recorded Tuesday 2024-06-11 10:30 EDT
	tradeTS := time.Date(2024, 6, 11, 14, 30, 0, 0, time.UTC)
	display := mt.DisplayInstant(tradeTS)

	assert.Equal(t, time.Date(2024, 6, 12, 10, 30, 0, 0, time.UTC), display)
}

func TestForwardInverseRoundTripPreservesTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation(marketTimezone)
	require.NoError(t, err)

	for _, hour := range []int{0, 3, 4, 9, 12, 19, 20, 23} {
		now := time.Date(2024, 6, 11, hour, 17, 42, 0, time.UTC)
		mt := mustMarketTime(t, true, now)

		qi := mt.QueryInstant()
		display := mt.DisplayInstant(qi)

		// Inverse mapping keeps the market-local time of day, only the
		// calendar date is reattached.
		assert.Equal(t, timeOfDay(qi.In(loc)), timeOfDay(display),
			"utc hour %d", hour)
	}
}

func TestWindowSpansOneInterval(t *testing.T) {
	now := time.Date(2024, 6, 12, 1, 30, 0, 0, time.UTC)
	mt := mustMarketTime(t, false, now)

	from, to := mt.Window(5 * time.Second)
	assert.Equal(t, now, to)
	assert.Equal(t, now.Add(-5*time.Second), from)
}

func TestSessionDayCoversQueryInstantDay(t *testing.T) {
	now := time.Date(2024, 6, 12, 1, 30, 0, 0, time.UTC)
	mt := mustMarketTime(t, true, now)

	qi := mt.QueryInstant()
	dayStart, dayEnd := mt.SessionDay()

	assert.Equal(t, qi.Year(), dayStart.Year())
	assert.Equal(t, qi.YearDay(), dayStart.YearDay())
	assert.Equal(t, 0, dayStart.Hour())
	assert.Equal(t, 23, dayEnd.Hour())
	assert.True(t, !qi.Before(dayStart) && !qi.After(dayEnd))
}
