package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/api/response"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/domain/stock"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/infra/redis"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/service/stream"
)

// TradeStreamHandler exposes the trade stream publisher over HTTP: an SSE
// push stream and a bounded latest-trades pull endpoint.
type TradeStreamHandler struct {
	publisher       *stream.Publisher
	cache           *redis.TradeCache
	defaultInterval time.Duration
	maxInterval     time.Duration
}

// NewTradeStreamHandler creates a new trade stream handler
func NewTradeStreamHandler(publisher *stream.Publisher, cache *redis.TradeCache, defaultInterval, maxInterval time.Duration) *TradeStreamHandler {
	if defaultInterval <= 0 {
		defaultInterval = 1 * time.Second
	}
	if maxInterval <= 0 {
		maxInterval = 60 * time.Second
	}
	return &TradeStreamHandler{
		publisher:       publisher,
		cache:           cache,
		defaultInterval: defaultInterval,
		maxInterval:     maxInterval,
	}
}

// StreamTrades streams trade events for one symbol via SSE.
// GET /v1/stocks/stream/{symbol}?intervalSeconds=1&useKoreanTimeSimulation=false
func (h *TradeStreamHandler) StreamTrades(w http.ResponseWriter, r *http.Request) {
	symbol, err := stock.Parse(mux.Vars(r)["symbol"])
	if err != nil {
		response.NotFound(w, r, fmt.Sprintf("stock symbol %q is not supported", mux.Vars(r)["symbol"]))
		return
	}

	interval := h.defaultInterval
	if raw := r.URL.Query().Get("intervalSeconds"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds < 1 || time.Duration(seconds)*time.Second > h.maxInterval {
			response.BadRequest(w, r, "intervalSeconds must be a positive integer within the allowed range")
			return
		}
		interval = time.Duration(seconds) * time.Second
	}

	simulation := false
	if raw := r.URL.Query().Get("useKoreanTimeSimulation"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, r, "useKoreanTimeSimulation must be a boolean")
			return
		}
		simulation = parsed
	}

	// Setup SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// Closing the request context stops the session and its in-flight query
	sess, err := h.publisher.Subscribe(r.Context(), symbol.String(), interval, simulation)
	if err != nil {
		response.InternalError(w, r, err)
		return
	}
	defer sess.Close()

	log.Info().
		Str("session_id", sess.ID.String()).
		Str("symbol", symbol.String()).
		Str("remote", r.RemoteAddr).
		Msg("SSE: client connected")

	flusher.Flush()

	// Keep-alive comment every 30s to prevent proxy timeouts
	keepAlive := time.NewTicker(30 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Info().
				Str("session_id", sess.ID.String()).
				Str("remote", r.RemoteAddr).
				Msg("SSE: client disconnected")
			return

		case t, ok := <-sess.C:
			if !ok {
				// Session ended; surface a terminal error event if one exists
				if err := sess.Err(); err != nil {
					sendEvent(w, "error", map[string]string{"message": err.Error()})
					flusher.Flush()
				}
				return
			}
			sendEvent(w, "trade", t)
			flusher.Flush()

		case <-keepAlive.C:
			fmt.Fprintf(w, ": keepalive %d\n\n", time.Now().Unix())
			flusher.Flush()
		}
	}
}

// GetLatestTrades returns the most recent trades for one symbol.
// GET /v1/stocks/stream/{symbol}/latest?limit=10
func (h *TradeStreamHandler) GetLatestTrades(w http.ResponseWriter, r *http.Request) {
	symbol, err := stock.Parse(mux.Vars(r)["symbol"])
	if err != nil {
		response.NotFound(w, r, fmt.Sprintf("stock symbol %q is not supported", mux.Vars(r)["symbol"]))
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, r, "limit must be a positive integer")
			return
		}
		limit = parsed
		if limit > 100 {
			limit = 100
		}
	}

	trades, err := h.cache.LatestN(r.Context(), symbol.String(), limit)
	if err != nil {
		response.DatabaseError(w, r, err)
		return
	}

	response.SuccessList(w, r, trades, len(trades))
}

// sendEvent writes one SSE event frame
func sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("SSE: failed to marshal event")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
