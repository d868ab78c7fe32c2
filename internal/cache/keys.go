package cache

import (
	"strconv"
	"strings"
)

// Cache keys shared by readers and invalidators. Keys are colon-delimited
// with the namespace first so that "<namespace>:" patterns evict them.
const (
	KeyStocksAll           = "stocks:all"
	KeyStocksByScore       = "stocks:by-score"
	KeyCryptosAll          = "cryptos:all"
	KeyCryptosByScore      = "cryptos:by-score"
	KeyPositionsAutotrader = "positions:autotrader"
	KeyPositionsManual     = "positions:manual"
	KeyAutotraderSummary   = "autotrader:summary"
	KeyPortfolioOverview   = "portfolio:overview"
	KeyPortfolioComparison = "portfolio:analytics:comparison"
)

// allPlaceholder stands in for an unset optional key component.
const allPlaceholder = "all"

// StockDetailKey is the key of a single stock quote.
func StockDetailKey(symbol string) string {
	return "stock:" + symbol
}

// CryptoDetailKey is the key of a single crypto quote.
func CryptoDetailKey(symbol string) string {
	return "crypto:" + symbol
}

// AutotraderPositionsKey is the key of the autotrader positions list,
// optionally narrowed to one asset type.
func AutotraderPositionsKey(assetType string) string {
	if assetType == "" {
		return KeyPositionsAutotrader
	}
	return KeyPositionsAutotrader + ":" + assetType
}

// PositionAnalysisKey is the key of a position analysis for symbol.
func PositionAnalysisKey(symbol string) string {
	return "position:analysis:" + symbol
}

// PortfolioPositionsKey is the key of a portfolio's open positions.
func PortfolioPositionsKey(kind string) string {
	return "portfolio:" + kind + ":positions"
}

// TransactionsKey is the key of a transaction listing. A zero limit or an
// empty symbol is rendered as "all".
func TransactionsKey(kind string, limit int, symbol string) string {
	l := allPlaceholder
	if limit > 0 {
		l = strconv.Itoa(limit)
	}
	if symbol == "" {
		symbol = allPlaceholder
	}
	return strings.Join([]string{"portfolio", kind, "transactions", l, symbol}, ":")
}

// PerformanceKey is the key of a performance report over days (0 = upstream default).
func PerformanceKey(kind string, days int) string {
	d := "default"
	if days > 0 {
		d = strconv.Itoa(days)
	}
	return "portfolio:" + kind + ":performance:" + d
}

// AlertsKey is the key of the alert list, optionally for one position.
func AlertsKey(positionID string) string {
	if positionID == "" {
		positionID = allPlaceholder
	}
	return "alerts:" + positionID
}
