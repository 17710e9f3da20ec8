package response

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/api/middleware"
)

// SuccessResponse represents a successful API response
type SuccessResponse struct {
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Meta       Meta        `json:"meta"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	TotalCount int  `json:"total_count"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Meta represents metadata in response
type Meta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count,omitempty"`
}

// Success sends a successful response with data
func Success(w http.ResponseWriter, r *http.Request, data interface{}) {
	writeJSON(w, http.StatusOK, SuccessResponse{
		Data: data,
		Meta: Meta{
			RequestID: middleware.GetRequestID(r.Context()),
			Timestamp: time.Now(),
		},
	})
}

// SuccessList sends a successful response with list data and count
func SuccessList(w http.ResponseWriter, r *http.Request, data interface{}, count int) {
	writeJSON(w, http.StatusOK, SuccessResponse{
		Data: data,
		Meta: Meta{
			RequestID: middleware.GetRequestID(r.Context()),
			Timestamp: time.Now(),
			Count:     count,
		},
	})
}

// SuccessWithPagination sends a successful response with pagination
func SuccessWithPagination(w http.ResponseWriter, r *http.Request, data interface{}, pagination *Pagination) {
	writeJSON(w, http.StatusOK, SuccessResponse{
		Data:       data,
		Pagination: pagination,
		Meta: Meta{
			RequestID: middleware.GetRequestID(r.Context()),
			Timestamp: time.Now(),
		},
	})
}

// NewPagination creates a new Pagination object
func NewPagination(page, limit, totalCount int) *Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	totalPages := (totalCount + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	return &Pagination{
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		TotalCount: totalCount,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// GetPaginationParams extracts pagination parameters from the query string
func GetPaginationParams(r *http.Request) (page int, limit int) {
	page = 1
	limit = 20

	if p := r.URL.Query().Get("page"); p != "" {
		if val, err := strconv.Atoi(p); err == nil && val > 0 {
			page = val
		}
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
			if limit > 100 {
				limit = 100
			}
		}
	}

	return page, limit
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
