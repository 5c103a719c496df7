package model

import "time"

// Quote is the internal view of a finance API quote.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	MarketCap     int64   `json:"marketCap"`
	Exchange      string  `json:"exchange"`
	Currency      string  `json:"currency"`
}

// NewsItem is one headline returned for a symbol.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

// PricePoint is one daily bar of a chart.
type PricePoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Chart is a daily price series for a symbol.
type Chart struct {
	Symbol   string       `json:"symbol"`
	Name     string       `json:"name"`
	Currency string       `json:"currency"`
	Exchange string       `json:"exchange"`
	Points   []PricePoint `json:"points"`
}

// Screen describes one entry of the screener catalog.
type Screen struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ScreenerResult is the display record of an admissible screener quote.
type ScreenerResult struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	MarketCap     int64   `json:"marketCap"`
	Exchange      string  `json:"exchange"`
	PERatio       float64 `json:"peRatio,omitempty"`
}

// ScreenerRun is the response of running one screen.
type ScreenerRun struct {
	Screen  Screen           `json:"screen"`
	Results []ScreenerResult `json:"results"`
	Dropped int              `json:"dropped"` // quotes rejected by the admissibility rule
}

// WatchlistEntry is a client-owned watchlist row. The server refreshes it but never stores it.
type WatchlistEntry struct {
	Symbol         string   `json:"symbol"`
	Price          float64  `json:"price"`
	Change         float64  `json:"change"`
	ChangePercent  float64  `json:"changePercent"`
	Volume         int64    `json:"volume"`
	AlertPrice     *float64 `json:"alertPrice,omitempty"`
	AlertTriggered bool     `json:"alertTriggered"`
}
