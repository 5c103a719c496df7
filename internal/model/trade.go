package model

import "time"

// Trade represents one row of an uploaded trading-history file.
// Quantity is signed: positive for a buy, negative for a sell.
// Trades live only for the duration of the request that parsed them.
type Trade struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
	TradeDate time.Time `json:"tradeDate"`
	GainLoss  float64   `json:"gainLoss"`  // Realized gain/loss as reported by the file
	NetAmount float64   `json:"netAmount"` // Net cash amount of the trade
	Line      int       `json:"line"`      // 1-based line number in the source file
}

// IsBuy reports whether the trade added shares.
func (t Trade) IsBuy() bool {
	return t.Quantity > 0
}

// Position is the aggregated, derived view of net holdings in a symbol.
// It is recomputed from the full trade list on every request.
type Position struct {
	Symbol        string  `json:"symbol"`
	TotalShares   float64 `json:"totalShares"`
	AveragePrice  float64 `json:"averagePrice"` // Cost basis from buy-side trades only
	LastPrice     float64 `json:"lastPrice"`
	MarketValue   float64 `json:"marketValue"`
	UnrealizedPnL float64 `json:"unrealizedPnL"`
	PercentChange float64 `json:"percentChange"`
}

// TradeStats summarizes win/loss behaviour over a filtered set of trades.
type TradeStats struct {
	TotalTrades   int     `json:"totalTrades"`
	WinningTrades int     `json:"winningTrades"`
	LosingTrades  int     `json:"losingTrades"`
	WinRate       float64 `json:"winRate"`  // Percentage, 0-100
	TotalPnL      float64 `json:"totalPnL"` // Absolute value of the realized sum
	PnLLabel      string  `json:"pnlLabel"` // "profit" or "loss"
}

// DailyPnL is one point of the realized gain/loss time series.
type DailyPnL struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	GainLoss float64 `json:"gainLoss"`
}

// RowIssue records a field that could not be parsed and was coerced to its zero value.
type RowIssue struct {
	Line  int    `json:"line"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// ParseReport describes how an uploaded trade file was ingested.
type ParseReport struct {
	TotalLines  int        `json:"totalLines"`
	HeaderLines int        `json:"headerLines"`
	BlankLines  int        `json:"blankLines"`
	ParsedRows  int        `json:"parsedRows"`
	CoercedRows int        `json:"coercedRows"`
	Issues      []RowIssue `json:"issues"`
}

// TradeAnalysis is the response payload of a trade file upload.
type TradeAnalysis struct {
	Trades      []Trade     `json:"trades"`
	Positions   []Position  `json:"positions"`
	Stats       *TradeStats `json:"stats,omitempty"`
	DailySeries []DailyPnL  `json:"dailySeries"`
	Months      []string    `json:"months"`
	Report      ParseReport `json:"report"`
}
