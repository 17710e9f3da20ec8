package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/api/response"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/domain/trade"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/infra/redis"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/service/stream"
)

// stubTradeRepo serves a fixed set of trades for any query
type stubTradeRepo struct {
	trades []trade.Trade
	err    error
}

func (s *stubTradeRepo) FindInWindow(ctx context.Context, symbol string, from, to time.Time) ([]trade.Trade, error) {
	return s.trades, s.err
}

func (s *stubTradeRepo) FindLatestInDay(ctx context.Context, symbol string, dayStart, dayEnd time.Time) (*trade.Trade, error) {
	if s.err != nil || len(s.trades) == 0 {
		return nil, s.err
	}
	return &s.trades[0], nil
}

func (s *stubTradeRepo) FindLatestN(ctx context.Context, symbol string, n int) ([]trade.Trade, error) {
	if s.err != nil {
		return nil, s.err
	}
	if n > len(s.trades) {
		n = len(s.trades)
	}
	return s.trades[:n], nil
}

func stubTrade(symbol string) trade.Trade {
	now := time.Now().UTC()
	return trade.Trade{
		Symbol:          symbol,
		TradeTimestamp:  now,
		UUID:            uuid.New(),
		Price:           231.5,
		Volume:          80,
		TradeConditions: "@",
		IngestTimestamp: now,
	}
}

func newTestRouter(repo trade.Repository) *mux.Router {
	publisher := stream.NewPublisher(repo, stream.DefaultConfig())
	cache := redis.NewTradeCache(nil, repo, time.Second)
	h := NewTradeStreamHandler(publisher, cache, time.Second, 60*time.Second)

	r := mux.NewRouter()
	r.HandleFunc("/v1/stocks/stream/{symbol}/latest", h.GetLatestTrades).Methods("GET")
	r.HandleFunc("/v1/stocks/stream/{symbol}", h.StreamTrades).Methods("GET")
	return r
}

func TestGetLatestTradesReturnsEnvelope(t *testing.T) {
	repo := &stubTradeRepo{trades: []trade.Trade{stubTrade("AAPL"), stubTrade("AAPL")}}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/v1/stocks/stream/AAPL/latest?limit=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Data []trade.Trade `json:"data"`
		Meta response.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.Meta.Count)
	assert.Equal(t, "AAPL", body.Data[0].Symbol)
}

func TestGetLatestTradesUnsupportedSymbol(t *testing.T) {
	router := newTestRouter(&stubTradeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/stocks/stream/ENRON/latest", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, response.ErrCodeNotFound, body.Error.Code)
}

func TestGetLatestTradesRejectsBadLimit(t *testing.T) {
	router := newTestRouter(&stubTradeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/stocks/stream/AAPL/latest?limit=zero", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, response.ErrCodeInvalidParameter, body.Error.Code)
}

func TestStreamTradesUnsupportedSymbol(t *testing.T) {
	router := newTestRouter(&stubTradeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/stocks/stream/ENRON", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStreamTradesRejectsBadInterval(t *testing.T) {
	router := newTestRouter(&stubTradeRepo{})

	for _, raw := range []string{"0", "-1", "abc", "61"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/stocks/stream/AAPL?intervalSeconds="+raw, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "intervalSeconds=%s", raw)
	}
}

func TestStreamTradesRejectsBadSimulationFlag(t *testing.T) {
	router := newTestRouter(&stubTradeRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/stocks/stream/AAPL?useKoreanTimeSimulation=maybe", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStreamTradesEmitsSSEFrames(t *testing.T) {
	repo := &stubTradeRepo{trades: []trade.Trade{stubTrade("AAPL")}}
	router := newTestRouter(repo)

	ctx, cancel := context.WithCancel(context.Background())
	// Long enough for the 1s default poll interval to fire once
	timer := time.AfterFunc(1500*time.Millisecond, cancel)
	defer timer.Stop()
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/v1/stocks/stream/AAPL", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no", rec.Header().Get("X-Accel-Buffering"))

	body := rec.Body.String()
	require.Contains(t, body, "event: trade\n")

	// Each frame carries the trade as a JSON data line
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var tr trade.Trade
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &tr))
		assert.Equal(t, "AAPL", tr.Symbol)
		return
	}
	t.Fatal("no data line found in SSE body")
}
