package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggingConfig holds configuration for logging middleware
type LoggingConfig struct {
	AccessLogger *zerolog.Logger // Optional separate access logger
	SkipPaths    []string        // Paths to skip logging (e.g., /health)
}

// Logging middleware logs HTTP requests and responses
func Logging(cfg LoggingConfig) func(http.Handler) http.Handler {
	logger := log.Logger
	if cfg.AccessLogger != nil {
		logger = *cfg.AccessLogger
	}

	skipMap := make(map[string]bool)
	for _, path := range cfg.SkipPaths {
		skipMap[path] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipMap[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			path := r.URL.Path
			if raw := r.URL.RawQuery; raw != "" {
				path = path + "?" + raw
			}

			requestID := GetRequestID(r.Context())

			log.Debug().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", path).
				Str("ip", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Msg("→ Request started")

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			duration := time.Since(start)

			event := logger.Info()
			if rec.status >= 500 {
				event = logger.Error()
			} else if rec.status >= 400 {
				event = logger.Warn()
			}

			event.
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", path).
				Int("status", rec.status).
				Dur("duration", duration).
				Msg("← Request completed")
		})
	}
}

// statusRecorder captures the response status code while still exposing
// http.Flusher for streaming handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := r.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, errors.New("response writer does not support hijacking")
}
