package stock

import (
	"errors"
	"strings"
)

// ErrUnsupportedSymbol is returned when a symbol is not in the supported set.
var ErrUnsupportedSymbol = errors.New("unsupported stock symbol")

// Symbol is an uppercase ticker from the fixed supported set.
type Symbol string

// Supported symbols and their company names.
// Trade data is ingested only for these tickers.
var supportedSymbols = map[Symbol]string{
	"AAPL":  "Apple Inc.",
	"MSFT":  "Microsoft Corporation",
	"GOOGL": "Alphabet Inc.",
	"AMZN":  "Amazon.com Inc.",
	"TSLA":  "Tesla Inc.",
	"META":  "Meta Platforms Inc.",
	"NVDA":  "NVIDIA Corporation",
	"NFLX":  "Netflix Inc.",
	"CRM":   "Salesforce Inc.",
	"ORCL":  "Oracle Corporation",
	"ADBE":  "Adobe Inc.",
	"AMD":   "Advanced Micro Devices Inc.",
	"INTC":  "Intel Corporation",
	"PYPL":  "PayPal Holdings Inc.",
	"CSCO":  "Cisco Systems Inc.",
	"QCOM":  "Qualcomm Incorporated",
	"TXN":   "Texas Instruments Incorporated",
	"AMAT":  "Applied Materials Inc.",
	"PLTR":  "Palantir Technologies Inc.",
}

// symbolOrder keeps listing output deterministic.
var symbolOrder = []Symbol{
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX", "CRM",
	"ORCL", "ADBE", "AMD", "INTC", "PYPL", "CSCO", "QCOM", "TXN", "AMAT", "PLTR",
}

// Parse normalizes and validates a raw ticker string.
func Parse(raw string) (Symbol, error) {
	s := Symbol(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := supportedSymbols[s]; !ok {
		return "", ErrUnsupportedSymbol
	}
	return s, nil
}

// IsSupported reports whether the raw ticker belongs to the supported set.
func IsSupported(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// CompanyName returns the company name for a supported symbol.
func (s Symbol) CompanyName() string {
	return supportedSymbols[s]
}

func (s Symbol) String() string {
	return string(s)
}

// All returns every supported symbol in listing order.
func All() []Symbol {
	out := make([]Symbol, len(symbolOrder))
	copy(out, symbolOrder)
	return out
}
