// Package yahoo is the client for the RapidAPI Yahoo Finance proxy.
// Raw responses are decoded into the envelope types in model.go and converted to
// internal model types only after their shape has been checked.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/config"
	"github.com/ndewijer/Stock-Research-Backend/internal/metrics"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

const (
	region         = "US"
	screenerCount  = 25
	headerKey      = "X-RapidAPI-Key"
	headerHost     = "X-RapidAPI-Host"
	endpointQuotes = "/market/v2/get-quotes"
	endpointChart  = "/stock/v3/get-chart"
	endpointPreset = "/screeners/get-symbols-by-predefined"
	endpointCustom = "/screeners/list"
	endpointNews   = "/news/v2/list-by-symbol"
)

// Client is the set of finance API calls the services depend on.
type Client interface {
	GetQuotes(ctx context.Context, symbols []string) ([]RawQuote, error)
	GetChart(ctx context.Context, symbol, rng string) (Response, error)
	ParseChart(yahooResult Response) (PriceChart, error)
	PredefinedScreener(ctx context.Context, screenID string) ([]RawQuote, error)
	CustomScreener(ctx context.Context, query any, sortField string) ([]RawQuote, error)
	News(ctx context.Context, symbol string) ([]model.NewsItem, error)
}

// FinanceClient provides methods for fetching financial data from the finance API.
// Outbound calls share one rate limiter; quotes and charts are cached briefly.
type FinanceClient struct {
	client   *resty.Client
	limiter  *rate.Limiter
	cache    *ristretto.Cache // nil when caching is disabled
	cacheTTL time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

var _ Client = (*FinanceClient)(nil)

// NewFinanceClient creates a finance client from configuration.
// A zero CacheTTL disables the cache.
func NewFinanceClient(cfg config.FinanceConfig, logger *zap.Logger, m *metrics.Metrics) (*FinanceClient, error) {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader(headerKey, cfg.Key).
		SetHeader(headerHost, cfg.Host).
		SetHeader("Accept", "application/json")

	c := &FinanceClient{
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
		metrics:  m,
	}

	if cfg.CacheTTL > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: 10000,
			MaxCost:     1000,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create quote cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

// Close releases the cache goroutines.
func (c *FinanceClient) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Cache keys use the provider's upper-case symbol form so lookups by a caller's
// spelling hit entries written from the response.
func quoteKey(symbol string) string {
	return "quote:" + strings.ToUpper(strings.TrimSpace(symbol))
}

func chartKey(symbol, rng string) string {
	return "chart:" + strings.ToUpper(strings.TrimSpace(symbol)) + ":" + rng
}

func (c *FinanceClient) cacheGet(kind, key string) (any, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(key)
	c.metrics.ObserveCacheLookup(kind, ok)
	return v, ok
}

func (c *FinanceClient) cacheSet(key string, v any) {
	if c.cache == nil {
		return
	}
	c.cache.SetWithTTL(key, v, 1, c.cacheTTL)
	c.cache.Wait()
}

// GetQuotes fetches quotes for the given symbols in one batched call.
// Cached symbols are served from the cache; only the rest go over the wire.
// Symbols unknown to the API are simply absent from the result.
func (c *FinanceClient) GetQuotes(ctx context.Context, symbols []string) ([]RawQuote, error) {
	quotes := make([]RawQuote, 0, len(symbols))
	missing := make([]string, 0, len(symbols))

	for _, s := range symbols {
		if v, ok := c.cacheGet("quote", quoteKey(s)); ok {
			quotes = append(quotes, v.(RawQuote))
			continue
		}
		missing = append(missing, s)
	}
	if len(missing) == 0 {
		return quotes, nil
	}

	var result QuoteResponse
	req := c.client.R().
		SetQueryParam("region", region).
		SetQueryParam("symbols", strings.Join(missing, ","))
	if err := c.get(ctx, "quotes", endpointQuotes, req, &result); err != nil {
		return nil, err
	}
	if result.QuoteResponse.Error != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFinanceAPI, result.QuoteResponse.Error.Description)
	}

	for _, q := range result.QuoteResponse.Result {
		if q.Symbol == "" {
			continue
		}
		c.cacheSet(quoteKey(q.Symbol), q)
		quotes = append(quotes, q)
	}

	return quotes, nil
}

// GetChart fetches daily bars for a symbol over a range such as "1mo" or "1y".
func (c *FinanceClient) GetChart(ctx context.Context, symbol, rng string) (Response, error) {
	if v, ok := c.cacheGet("chart", chartKey(symbol, rng)); ok {
		return v.(Response), nil
	}

	var result Response
	req := c.client.R().
		SetQueryParam("symbol", symbol).
		SetQueryParam("interval", "1d").
		SetQueryParam("range", rng).
		SetQueryParam("region", region)
	if err := c.get(ctx, "chart", endpointChart, req, &result); err != nil {
		return Response{}, err
	}
	if result.Chart.Error != nil {
		return Response{}, fmt.Errorf("%w: %s", apperrors.ErrFinanceAPI, result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: no results returned for symbol %s", apperrors.ErrSymbolNotFound, symbol)
	}

	c.cacheSet(chartKey(symbol, rng), result)
	return result, nil
}

// ParseChart converts a raw chart response into a structured price chart.
//
// The method performs validation to ensure:
//   - Timestamp data is present
//   - Close price data is present
//   - Data arrays have matching lengths
//
// Returns an error wrapping apperrors.ErrInvalidFormat when the response is malformed.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("%w: empty chart result", apperrors.ErrInvalidFormat)
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no price data returned", apperrors.ErrInvalidFormat)
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no close prices returned", apperrors.ErrInvalidFormat)
	}

	q := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(q.Close) != n || len(q.Open) != n || len(q.High) != n || len(q.Low) != n || len(q.Volume) != n {
		return PriceChart{}, fmt.Errorf("%w: mismatched data lengths", apperrors.ErrInvalidFormat)
	}

	indicators := make([]Indicators, n)
	for i, v := range result.Timestamp {
		indicators[i] = Indicators{
			Date:       time.Unix(v, 0).UTC(),
			PriceOpen:  q.Open[i],
			PriceClose: q.Close[i],
			Volume:     q.Volume[i],
			PriceHigh:  q.High[i],
			PriceLow:   q.Low[i],
		}
	}

	return PriceChart{
		Symbol:           result.Meta.Symbol,
		Currency:         result.Meta.Currency,
		ExchangeName:     result.Meta.ExchangeName,
		FullExchangeName: result.Meta.FullExchangeName,
		LongName:         result.Meta.LongName,
		Shortname:        result.Meta.Shortname,
		Indicators:       indicators,
	}, nil
}

// PredefinedScreener runs a named screen (e.g. "day_gainers") on the provider.
func (c *FinanceClient) PredefinedScreener(ctx context.Context, screenID string) ([]RawQuote, error) {
	var result ScreenerResponse
	req := c.client.R().
		SetQueryParam("scrIds", screenID).
		SetQueryParam("count", fmt.Sprint(screenerCount))
	if err := c.get(ctx, "screener_predefined", endpointPreset, req, &result); err != nil {
		return nil, err
	}
	return screenerQuotes(result)
}

// CustomScreener posts a declarative filter body and returns the matching quotes.
func (c *FinanceClient) CustomScreener(ctx context.Context, query any, sortField string) ([]RawQuote, error) {
	var result ScreenerResponse
	req := c.client.R().
		SetQueryParam("quoteType", "EQUITY").
		SetQueryParam("sortField", sortField).
		SetQueryParam("sortType", "DESC").
		SetQueryParam("region", region).
		SetQueryParam("size", fmt.Sprint(screenerCount)).
		SetQueryParam("offset", "0").
		SetHeader("Content-Type", "application/json").
		SetBody([]any{query})
	if err := c.do(ctx, "screener_custom", resty.MethodPost, endpointCustom, req, &result); err != nil {
		return nil, err
	}
	return screenerQuotes(result)
}

func screenerQuotes(result ScreenerResponse) ([]RawQuote, error) {
	if result.Finance.Error != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFinanceAPI, result.Finance.Error.Description)
	}
	if len(result.Finance.Result) == 0 {
		return nil, fmt.Errorf("%w: empty screener result", apperrors.ErrInvalidFormat)
	}
	return result.Finance.Result[0].Quotes, nil
}

// News returns the latest headlines for a symbol.
func (c *FinanceClient) News(ctx context.Context, symbol string) ([]model.NewsItem, error) {
	var result NewsResponse
	req := c.client.R().
		SetQueryParam("s", symbol).
		SetQueryParam("region", region)
	if err := c.get(ctx, "news", endpointNews, req, &result); err != nil {
		return nil, err
	}

	items := make([]model.NewsItem, 0, len(result.Items.Result))
	for _, n := range result.Items.Result {
		if n.Title == "" {
			continue
		}
		items = append(items, model.NewsItem{
			ID:          n.UUID,
			Title:       n.Title,
			Publisher:   n.Publisher,
			URL:         n.Link,
			PublishedAt: time.Unix(n.PublishedAt, 0).UTC(),
		})
	}
	return items, nil
}

func (c *FinanceClient) get(ctx context.Context, name, path string, req *resty.Request, out any) error {
	return c.do(ctx, name, resty.MethodGet, path, req, out)
}

// do waits for the limiter, executes the request and decodes the body into out.
// Transport and HTTP failures wrap apperrors.ErrFinanceAPI; undecodable bodies wrap
// apperrors.ErrInvalidFormat. There are no retries.
func (c *FinanceClient) do(ctx context.Context, name, method, path string, req *resty.Request, out any) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveFinanceCall(name, time.Since(start), err)
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter wait failed: %w", apperrors.ErrFinanceAPI, err)
	}

	c.logger.Debug("Executing finance request", zap.String("method", method), zap.String("path", path))
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		c.logger.Warn("Finance request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %w", apperrors.ErrFinanceAPI, err)
	}
	if resp.IsError() {
		c.logger.Warn("Finance API returned error status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
		)
		return fmt.Errorf("%w: status %d", apperrors.ErrFinanceAPI, resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidFormat, err)
	}
	return nil
}

// ToQuote converts a raw quote into the internal view. Missing numbers become zero.
func ToQuote(q RawQuote) model.Quote {
	name := q.LongName
	if name == "" {
		name = q.ShortName
	}
	exchange := q.FullExchangeName
	if exchange == "" {
		exchange = q.Exchange
	}
	return model.Quote{
		Symbol:        q.Symbol,
		Name:          name,
		Price:         deref(q.RegularMarketPrice),
		Change:        deref(q.RegularMarketChange),
		ChangePercent: deref(q.RegularMarketChangePercent),
		Volume:        deref(q.RegularMarketVolume),
		MarketCap:     deref(q.MarketCap),
		Exchange:      exchange,
		Currency:      q.Currency,
	}
}

// ToChart converts a parsed price chart into the internal daily series.
func ToChart(c PriceChart) model.Chart {
	name := c.LongName
	if name == "" {
		name = c.Shortname
	}
	points := make([]model.PricePoint, len(c.Indicators))
	for i, ind := range c.Indicators {
		points[i] = model.PricePoint{
			Date:   ind.Date.Format("2006-01-02"),
			Open:   ind.PriceOpen,
			High:   ind.PriceHigh,
			Low:    ind.PriceLow,
			Close:  ind.PriceClose,
			Volume: ind.Volume,
		}
	}
	return model.Chart{
		Symbol:   c.Symbol,
		Name:     name,
		Currency: c.Currency,
		Exchange: c.FullExchangeName,
		Points:   points,
	}
}

func deref[T int64 | float64](p *T) T {
	if p == nil {
		return 0
	}
	return *p
}
