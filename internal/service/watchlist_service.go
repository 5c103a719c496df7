package service

import (
	"context"
	"strings"

	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/yahoo"
)

// WatchlistService refreshes client-owned watchlists. Nothing is stored server-side.
type WatchlistService struct {
	financeClient yahoo.Client
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(financeClient yahoo.Client) *WatchlistService {
	return &WatchlistService{financeClient: financeClient}
}

// Refresh updates the market fields of every entry with one batched quote call.
//
// An alert fires when the new price crosses the alert price coming from the entry's
// previous price: at or above it for alerts set above the previous price, at or below
// it for alerts set below. Entries the finance API does not know are returned unchanged.
func (s *WatchlistService) Refresh(ctx context.Context, entries []model.WatchlistEntry) ([]model.WatchlistEntry, error) {
	symbols := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !seen[e.Symbol] {
			seen[e.Symbol] = true
			symbols = append(symbols, e.Symbol)
		}
	}

	raw, err := s.financeClient.GetQuotes(ctx, symbols)
	if err != nil {
		return nil, err
	}

	bySymbol := make(map[string]model.Quote, len(raw))
	for _, q := range raw {
		bySymbol[strings.ToUpper(q.Symbol)] = yahoo.ToQuote(q)
	}

	refreshed := make([]model.WatchlistEntry, len(entries))
	for i, e := range entries {
		q, ok := bySymbol[e.Symbol]
		if !ok {
			refreshed[i] = e
			continue
		}
		refreshed[i] = refreshEntry(e, q)
	}

	return refreshed, nil
}

func refreshEntry(e model.WatchlistEntry, q model.Quote) model.WatchlistEntry {
	previous := e.Price

	e.Price = q.Price
	e.Change = q.Change
	e.ChangePercent = q.ChangePercent
	e.Volume = q.Volume
	e.AlertTriggered = false

	if e.AlertPrice != nil {
		alert := *e.AlertPrice
		if alert >= previous {
			e.AlertTriggered = e.Price >= alert
		} else {
			e.AlertTriggered = e.Price <= alert
		}
	}

	return e
}
