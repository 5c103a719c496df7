package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
	"github.com/ndewijer/Stock-Research-Backend/internal/yahoo"
)

// quoteFetchConcurrency bounds the parallel quote calls of one search.
const quoteFetchConcurrency = 4

// SearchService handles stock search: quotes, charts, news and trending symbols.
type SearchService struct {
	financeClient   yahoo.Client
	counterRepo     *repository.SymbolCounterRepository
	activityService *ActivityService
	tracker         *RequestTracker
	logger          *zap.Logger
}

// NewSearchService creates a new SearchService.
func NewSearchService(
	financeClient yahoo.Client,
	counterRepo *repository.SymbolCounterRepository,
	activityService *ActivityService,
	tracker *RequestTracker,
	logger *zap.Logger,
) *SearchService {
	return &SearchService{
		financeClient:   financeClient,
		counterRepo:     counterRepo,
		activityService: activityService,
		tracker:         tracker,
		logger:          logger,
	}
}

// Quotes fetches the latest quotes for already normalized symbols.
//
// Symbols are fetched in parallel, at most four at a time. Symbols the finance API does
// not know are left out of the result; the rest keep the requested order. Each found
// symbol has its search counter bumped and the search is logged for the user.
//
// A newer search by the same user cancels this one, which then returns
// apperrors.ErrSuperseded.
func (s *SearchService) Quotes(ctx context.Context, uid string, symbols []string) (quotes []model.Quote, err error) {
	ctx, finish := s.tracker.Begin(ctx, uid, KindSearch)
	defer func() {
		err = finish(err)
		if err != nil {
			quotes = nil
		}
	}()

	found := make([]*model.Quote, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(quoteFetchConcurrency)

	for i, symbol := range symbols {
		g.Go(func() error {
			raw, err := s.financeClient.GetQuotes(gctx, []string{symbol})
			if err != nil {
				return fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
			}
			for _, q := range raw {
				if strings.EqualFold(q.Symbol, symbol) {
					quote := yahoo.ToQuote(q)
					found[i] = &quote
					return nil
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	quotes = make([]model.Quote, 0, len(symbols))
	now := time.Now().UTC()
	for _, q := range found {
		if q == nil {
			continue
		}
		quotes = append(quotes, *q)
		s.countSearch(ctx, q.Symbol, now)
	}

	s.activityService.Record(ctx, uid, model.ActionSearch, strings.Join(symbols, ","))

	return quotes, nil
}

// Chart returns the daily price series of symbol over rng ("1mo", "1y", ...).
func (s *SearchService) Chart(ctx context.Context, symbol, rng string) (model.Chart, error) {
	resp, err := s.financeClient.GetChart(ctx, symbol, rng)
	if err != nil {
		return model.Chart{}, err
	}

	chart, err := s.financeClient.ParseChart(resp)
	if err != nil {
		return model.Chart{}, err
	}

	return yahoo.ToChart(chart), nil
}

// News returns the latest headlines for symbol.
func (s *SearchService) News(ctx context.Context, symbol string) ([]model.NewsItem, error) {
	return s.financeClient.News(ctx, symbol)
}

// Trending returns the most searched symbols.
func (s *SearchService) Trending(ctx context.Context, limit int) ([]model.SymbolCounter, error) {
	counters, err := s.counterRepo.TopSymbols(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTrending, err)
	}
	return counters, nil
}

// countSearch bumps a symbol counter. Failures only cost popularity data and are logged.
func (s *SearchService) countSearch(ctx context.Context, symbol string, at time.Time) {
	if err := s.counterRepo.IncrementCounter(ctx, strings.ToUpper(symbol), at); err != nil {
		s.logger.Warn("Failed to increment symbol counter", zap.String("symbol", symbol), zap.Error(err))
	}
}
