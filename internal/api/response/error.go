package response

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/api/middleware"
)

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details
type ErrorDetail struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Error codes
const (
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrCodeInvalidParameter = "INVALID_PARAMETER"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
)

// Error sends an error response
func Error(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	requestID := middleware.GetRequestID(r.Context())

	log.Error().
		Str("request_id", requestID).
		Str("error_code", code).
		Str("message", message).
		Int("status", statusCode).
		Msg("API error response")

	writeJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			RequestID: requestID,
			Timestamp: time.Now(),
		},
	})
}

// BadRequest sends a 400 Bad Request error
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusBadRequest, ErrCodeInvalidParameter, message)
}

// NotFound sends a 404 Not Found error
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError sends a 500 Internal Server Error
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("Internal server error")
	}
	Error(w, r, http.StatusInternalServerError, ErrCodeInternalServer, "An unexpected error occurred")
}

// DatabaseError sends a database error response
func DatabaseError(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", middleware.GetRequestID(r.Context())).
			Msg("Database error")
	}
	Error(w, r, http.StatusInternalServerError, ErrCodeDatabaseError, "Database operation failed")
}
