package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/api/response"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/domain/stock"
)

// StockInfoHandler serves the supported symbol list and per-symbol metadata
type StockInfoHandler struct {
	repo stock.InfoRepository
}

// NewStockInfoHandler creates a new StockInfoHandler
func NewStockInfoHandler(repo stock.InfoRepository) *StockInfoHandler {
	return &StockInfoHandler{repo: repo}
}

// SupportedStock is one entry in the supported symbol listing
type SupportedStock struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"companyName"`
}

// ListStocks handles GET /v1/stocks
func (h *StockInfoHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	symbols := stock.All()
	stocks := make([]SupportedStock, 0, len(symbols))
	for _, s := range symbols {
		stocks = append(stocks, SupportedStock{
			Symbol:      s.String(),
			CompanyName: s.CompanyName(),
		})
	}

	response.SuccessList(w, r, stocks, len(stocks))
}

// GetStock handles GET /v1/stocks/{symbol}
func (h *StockInfoHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol, err := stock.Parse(mux.Vars(r)["symbol"])
	if err != nil {
		response.NotFound(w, r, fmt.Sprintf("stock symbol %q is not supported", mux.Vars(r)["symbol"]))
		return
	}

	info, err := h.repo.FindBySymbol(r.Context(), symbol.String())
	if err != nil {
		if errors.Is(err, stock.ErrNotFound) {
			response.NotFound(w, r, fmt.Sprintf("no listing metadata for %s", symbol))
			return
		}
		response.DatabaseError(w, r, err)
		return
	}

	response.Success(w, r, info)
}
