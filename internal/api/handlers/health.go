package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/infra/database/postgres"
)

// HealthHandler reports dependency health
type HealthHandler struct {
	pool  *postgres.Pool
	redis *goredis.Client
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(pool *postgres.Pool, redis *goredis.Client) *HealthHandler {
	return &HealthHandler{pool: pool, redis: redis}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := map[string]string{
		"status":   "ok",
		"database": "ok",
		"redis":    "ok",
	}
	code := http.StatusOK

	if err := h.pool.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	if h.redis == nil {
		status["redis"] = "disabled"
	} else if err := h.redis.Ping(ctx).Err(); err != nil {
		// Redis is optional; the service degrades to direct DB reads
		status["redis"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
