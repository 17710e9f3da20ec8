package api

import (
	"github.com/gorilla/mux"

	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/api/handlers"
	"github.com/HwanGonJang/stock-streaming-data-pipeline/internal/api/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	TradeStream *handlers.TradeStreamHandler
	DailyPrice  *handlers.DailyPriceHandler
	StockInfo   *handlers.StockInfoHandler
	Health      *handlers.HealthHandler
}

// NewRouter builds the HTTP router with all routes and middleware registered.
func NewRouter(h Handlers, logging middleware.LoggingConfig) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(logging))

	router.HandleFunc("/health", h.Health.Health).Methods("GET")

	v1 := router.PathPrefix("/v1").Subrouter()

	// Trade streaming. The stream prefix must be mounted before the
	// /v1/stocks/{symbol} route so "stream" never parses as a ticker.
	v1.HandleFunc("/stocks/stream/{symbol}/latest", h.TradeStream.GetLatestTrades).Methods("GET")
	v1.HandleFunc("/stocks/stream/{symbol}", h.TradeStream.StreamTrades).Methods("GET")

	// Stock listing metadata
	v1.HandleFunc("/stocks", h.StockInfo.ListStocks).Methods("GET")
	v1.HandleFunc("/stocks/{symbol}", h.StockInfo.GetStock).Methods("GET")

	// Daily prices
	v1.HandleFunc("/daily-prices/{symbol}/latest", h.DailyPrice.GetLatestDailyPrice).Methods("GET")
	v1.HandleFunc("/daily-prices/{symbol}", h.DailyPrice.GetDailyPrices).Methods("GET")

	return router
}
