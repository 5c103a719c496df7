package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/yahoo"
)

// MockFinanceClient is a mock implementation of yahoo.Client for testing.
// It returns predefined test data instead of making actual API calls.
// It is safe for concurrent use.
type MockFinanceClient struct {
	mu sync.Mutex

	// Quotes maps upper-case symbols to the quote returned for them
	Quotes map[string]yahoo.RawQuote
	// Charts maps upper-case symbols to the chart response returned for them
	Charts map[string]yahoo.Response
	// NewsItems maps upper-case symbols to their headlines
	NewsItems map[string][]model.NewsItem
	// ScreenerQuotes is returned by both screener calls
	ScreenerQuotes []yahoo.RawQuote
	// MockError is returned from every call when set
	MockError error
	// Block, when set, makes every call wait until it is closed or the context is done
	Block chan struct{}

	calls           map[string]int
	quoteBatches    [][]string
	lastCustomQuery any
	lastSortField   string
}

var _ yahoo.Client = (*MockFinanceClient)(nil)

// NewMockFinanceClient creates a mock finance client with no data.
func NewMockFinanceClient() *MockFinanceClient {
	return &MockFinanceClient{
		Quotes:    map[string]yahoo.RawQuote{},
		Charts:    map[string]yahoo.Response{},
		NewsItems: map[string][]model.NewsItem{},
		calls:     map[string]int{},
	}
}

// WithQuote adds a quote fixture for symbol.
func (m *MockFinanceClient) WithQuote(symbol string, price float64) *MockFinanceClient {
	m.Quotes[strings.ToUpper(symbol)] = CreateRawQuote(symbol, price)
	return m
}

// WithChart adds a chart fixture of days daily bars for symbol.
func (m *MockFinanceClient) WithChart(symbol string, days int) *MockFinanceClient {
	m.Charts[strings.ToUpper(symbol)] = CreateMockChartResponse(symbol, days)
	return m
}

// WithNews adds n headlines for symbol.
func (m *MockFinanceClient) WithNews(symbol string, n int) *MockFinanceClient {
	items := make([]model.NewsItem, n)
	for i := range items {
		items[i] = model.NewsItem{
			ID:          MakeID(),
			Title:       fmt.Sprintf("%s headline %d", symbol, i+1),
			Publisher:   "Test Wire",
			URL:         fmt.Sprintf("https://news.example.com/%s/%d", symbol, i+1),
			PublishedAt: time.Now().UTC().Add(-time.Duration(i) * time.Hour),
		}
	}
	m.NewsItems[strings.ToUpper(symbol)] = items
	return m
}

// WithScreenerQuotes sets the quotes returned by screener calls.
func (m *MockFinanceClient) WithScreenerQuotes(quotes ...yahoo.RawQuote) *MockFinanceClient {
	m.ScreenerQuotes = quotes
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockFinanceClient) WithError(err error) *MockFinanceClient {
	m.MockError = err
	return m
}

// Calls returns how many times the named method was called.
func (m *MockFinanceClient) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// QuoteBatches returns the symbol lists GetQuotes was called with.
func (m *MockFinanceClient) QuoteBatches() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.quoteBatches...)
}

// LastCustomQuery returns the filter and sort field of the last custom screener call.
func (m *MockFinanceClient) LastCustomQuery() (any, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCustomQuery, m.lastSortField
}

func (m *MockFinanceClient) enter(ctx context.Context, method string) error {
	m.mu.Lock()
	m.calls[method]++
	block := m.Block
	err := m.MockError
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (m *MockFinanceClient) GetQuotes(ctx context.Context, symbols []string) ([]yahoo.RawQuote, error) {
	m.mu.Lock()
	m.quoteBatches = append(m.quoteBatches, append([]string(nil), symbols...))
	m.mu.Unlock()

	if err := m.enter(ctx, "GetQuotes"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]yahoo.RawQuote, 0, len(symbols))
	for _, s := range symbols {
		if q, ok := m.Quotes[strings.ToUpper(s)]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *MockFinanceClient) GetChart(ctx context.Context, symbol, _ string) (yahoo.Response, error) {
	if err := m.enter(ctx, "GetChart"); err != nil {
		return yahoo.Response{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	resp, ok := m.Charts[strings.ToUpper(symbol)]
	if !ok {
		return yahoo.Response{}, fmt.Errorf("%w: no results returned for symbol %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return resp, nil
}

// ParseChart delegates to the real ParseChart method since it's pure logic with no side effects.
func (m *MockFinanceClient) ParseChart(yahooResult yahoo.Response) (yahoo.PriceChart, error) {
	return (&yahoo.FinanceClient{}).ParseChart(yahooResult)
}

func (m *MockFinanceClient) PredefinedScreener(ctx context.Context, _ string) ([]yahoo.RawQuote, error) {
	if err := m.enter(ctx, "PredefinedScreener"); err != nil {
		return nil, err
	}
	return m.ScreenerQuotes, nil
}

func (m *MockFinanceClient) CustomScreener(ctx context.Context, query any, sortField string) ([]yahoo.RawQuote, error) {
	m.mu.Lock()
	m.lastCustomQuery = query
	m.lastSortField = sortField
	m.mu.Unlock()

	if err := m.enter(ctx, "CustomScreener"); err != nil {
		return nil, err
	}
	return m.ScreenerQuotes, nil
}

func (m *MockFinanceClient) News(ctx context.Context, symbol string) ([]model.NewsItem, error) {
	if err := m.enter(ctx, "News"); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.NewsItems[strings.ToUpper(symbol)], nil
}

// CreateRawQuote creates an admissible NASDAQ equity quote.
func CreateRawQuote(symbol string, price float64) yahoo.RawQuote {
	change := price * 0.01
	changePct := 1.0
	volume := int64(2500000)
	marketCap := int64(5000000000)
	pe := 25.0

	return yahoo.RawQuote{
		Symbol:                     strings.ToUpper(symbol),
		ShortName:                  strings.ToUpper(symbol),
		LongName:                   strings.ToUpper(symbol) + " Inc.",
		QuoteType:                  "EQUITY",
		Exchange:                   "NMS",
		FullExchangeName:           "NasdaqGS",
		Currency:                   "USD",
		RegularMarketPrice:         &price,
		RegularMarketChange:        &change,
		RegularMarketChangePercent: &changePct,
		RegularMarketVolume:        &volume,
		MarketCap:                  &marketCap,
		TrailingPE:                 &pe,
	}
}

// CreateMockChartResponse creates a chart response with `days` daily bars ending yesterday.
func CreateMockChartResponse(symbol string, days int) yahoo.Response {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	var result yahoo.ChartResult
	result.Meta.Symbol = strings.ToUpper(symbol)
	result.Meta.Currency = "USD"
	result.Meta.ExchangeName = "NMS"
	result.Meta.FullExchangeName = "NasdaqGS"
	result.Meta.LongName = strings.ToUpper(symbol) + " Inc."
	result.Meta.Shortname = strings.ToUpper(symbol)

	result.Timestamp = make([]int64, days)
	result.Indicators.Quote = make([]struct {
		Open   []float64 `json:"open"`
		Close  []float64 `json:"close"`
		Volume []int64   `json:"volume"`
		High   []float64 `json:"high"`
		Low    []float64 `json:"low"`
	}, 1)
	q := &result.Indicators.Quote[0]

	// Simulate price movement
	basePrice := 100.0
	for i := 0; i < days; i++ {
		date := yesterday.AddDate(0, 0, -days+i+1)
		result.Timestamp[i] = date.Unix()

		dayPrice := basePrice + float64(i)*0.5
		q.Open = append(q.Open, dayPrice)
		q.High = append(q.High, dayPrice+1.0)
		q.Low = append(q.Low, dayPrice-0.5)
		q.Close = append(q.Close, dayPrice+0.25)
		q.Volume = append(q.Volume, int64(1000000+i*10000))
	}

	var resp yahoo.Response
	resp.Chart.Result = []yahoo.ChartResult{result}
	return resp
}
