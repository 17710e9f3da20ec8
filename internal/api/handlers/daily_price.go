package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/api/response"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/domain/dailyprice"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/domain/stock"
)

// DailyPriceHandler serves paginated daily OHLCV bars
type DailyPriceHandler struct {
	repo dailyprice.Repository
}

// NewDailyPriceHandler creates a new DailyPriceHandler
func NewDailyPriceHandler(repo dailyprice.Repository) *DailyPriceHandler {
	return &DailyPriceHandler{repo: repo}
}

// GetDailyPrices handles GET /v1/daily-prices/{symbol}
// Optional filters: startDate/endDate (2006-01-02), year. Paginated.
func (h *DailyPriceHandler) GetDailyPrices(w http.ResponseWriter, r *http.Request) {
	symbol, err := stock.Parse(mux.Vars(r)["symbol"])
	if err != nil {
		response.NotFound(w, r, fmt.Sprintf("stock symbol %q is not supported", mux.Vars(r)["symbol"]))
		return
	}

	filter, err := parseDailyPriceFilter(r)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	page, limit := response.GetPaginationParams(r)
	offset := (page - 1) * limit

	prices, total, err := h.repo.FindBySymbol(r.Context(), symbol.String(), filter, limit, offset)
	if err != nil {
		response.DatabaseError(w, r, err)
		return
	}

	response.SuccessWithPagination(w, r, prices, response.NewPagination(page, limit, total))
}

// GetLatestDailyPrice handles GET /v1/daily-prices/{symbol}/latest
func (h *DailyPriceHandler) GetLatestDailyPrice(w http.ResponseWriter, r *http.Request) {
	symbol, err := stock.Parse(mux.Vars(r)["symbol"])
	if err != nil {
		response.NotFound(w, r, fmt.Sprintf("stock symbol %q is not supported", mux.Vars(r)["symbol"]))
		return
	}

	price, err := h.repo.FindLatestBySymbol(r.Context(), symbol.String())
	if err != nil {
		response.DatabaseError(w, r, err)
		return
	}
	if price == nil {
		response.NotFound(w, r, fmt.Sprintf("no daily prices found for %s", symbol))
		return
	}

	response.Success(w, r, price)
}

func parseDailyPriceFilter(r *http.Request) (dailyprice.Filter, error) {
	var filter dailyprice.Filter
	q := r.URL.Query()

	if raw := q.Get("startDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("startDate must be formatted as 2006-01-02")
		}
		filter.StartDate = &parsed
	}
	if raw := q.Get("endDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, fmt.Errorf("endDate must be formatted as 2006-01-02")
		}
		filter.EndDate = &parsed
	}
	if raw := q.Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1900 {
			return filter, fmt.Errorf("year must be a valid calendar year")
		}
		filter.Year = parsed
	}

	return filter, nil
}
