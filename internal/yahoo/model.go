package yahoo

import "time"

// APIError is the error object the finance API embeds in otherwise successful responses.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Response represents the raw JSON response of the chart endpoint.
// This type maps directly to the chart API response format,
// containing nested structures for metadata, timestamps, and price indicators.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata (name, currency, exchange)
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Price data arrays (open, close, high, low, volume)
//   - Chart.Error: Optional error from the API
type Response struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *APIError     `json:"error"`
	} `json:"chart"`
}

// ChartResult is one element of Response.Chart.Result.
type ChartResult struct {
	Meta struct {
		Currency         string `json:"currency"`
		Symbol           string `json:"symbol"`
		ExchangeName     string `json:"exchangeName"`
		FullExchangeName string `json:"fullExchangeName"`
		LongName         string `json:"longName"`
		Shortname        string `json:"shortName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []float64 `json:"open"`
			Close  []float64 `json:"close"`
			Volume []int64   `json:"volume"`
			High   []float64 `json:"high"`
			Low    []float64 `json:"low"`
		} `json:"quote"`
	} `json:"indicators"`
}

// PriceChart represents a parsed and structured price chart.
// This is the application's internal representation after parsing the raw Response.
type PriceChart struct {
	Currency         string       `json:"currency"`
	Symbol           string       `json:"symbol"`
	ExchangeName     string       `json:"exchangeName"`
	FullExchangeName string       `json:"fullExchangeName"`
	LongName         string       `json:"longName"`
	Shortname        string       `json:"shortName"`
	Indicators       []Indicators `json:"indicators"`
}

// Indicators represents a single day's OHLCV data for a symbol.
type Indicators struct {
	Date       time.Time
	PriceOpen  float64
	PriceClose float64
	Volume     int64
	PriceHigh  float64
	PriceLow   float64
}

// RawQuote is a quote as returned by the quotes and screener endpoints.
// Numeric fields are pointers because the API omits them for thinly traded or
// delisted symbols, and admission rules need to tell "missing" from zero.
type RawQuote struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
	QuoteType                  string   `json:"quoteType"`
	Exchange                   string   `json:"exchange"`
	FullExchangeName           string   `json:"fullExchangeName"`
	Currency                   string   `json:"currency"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	RegularMarketVolume        *int64   `json:"regularMarketVolume"`
	MarketCap                  *int64   `json:"marketCap"`
	TrailingPE                 *float64 `json:"trailingPE"`
}

// QuoteResponse is the envelope of GET /market/v2/get-quotes.
type QuoteResponse struct {
	QuoteResponse struct {
		Result []RawQuote `json:"result"`
		Error  *APIError  `json:"error"`
	} `json:"quoteResponse"`
}

// ScreenerResponse is the envelope shared by the predefined and custom screener endpoints.
type ScreenerResponse struct {
	Finance struct {
		Result []struct {
			ID          string     `json:"id"`
			Title       string     `json:"title"`
			Description string     `json:"description"`
			Quotes      []RawQuote `json:"quotes"`
		} `json:"result"`
		Error *APIError `json:"error"`
	} `json:"finance"`
}

// NewsResponse is the envelope of GET /news/v2/list-by-symbol.
type NewsResponse struct {
	Items struct {
		Result []struct {
			UUID        string `json:"uuid"`
			Title       string `json:"title"`
			Link        string `json:"link"`
			Publisher   string `json:"publisher"`
			PublishedAt int64  `json:"published_at"`
		} `json:"result"`
	} `json:"items"`
}
