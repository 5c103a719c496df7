package screener

import (
	"math"
	"strings"

	"github.com/ndewijer/Stock-Research-Backend/internal/config"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/yahoo"
)

var allowedExchanges = []string{"NYSE", "NASDAQ"}

// Admission is the rule every screener quote must pass before it is shown.
// Thresholds are non-negative; config.Load rejects negative values.
type Admission struct {
	MinVolume           int64
	MinPrice            int64
	MinMarketCap        int64
	MaxAbsChangePercent float64
}

// NewAdmission builds the rule from configuration.
func NewAdmission(cfg config.ScreenerConfig) Admission {
	return Admission{
		MinVolume:           cfg.MinVolume,
		MinPrice:            cfg.MinPrice,
		MinMarketCap:        cfg.MinMarketCap,
		MaxAbsChangePercent: cfg.MaxAbsChangePercent,
	}
}

// Admissible reports whether q is a complete US-listed equity quote within the thresholds.
func (a Admission) Admissible(q yahoo.RawQuote) bool {
	if q.Symbol == "" || q.RegularMarketVolume == nil || q.RegularMarketPrice == nil || q.MarketCap == nil {
		return false
	}
	if *q.RegularMarketVolume < a.MinVolume ||
		*q.RegularMarketPrice < float64(a.MinPrice) ||
		*q.MarketCap < a.MinMarketCap {
		return false
	}
	if !strings.EqualFold(q.QuoteType, "EQUITY") {
		return false
	}
	if !onAllowedExchange(q) {
		return false
	}
	if q.RegularMarketChangePercent != nil && a.MaxAbsChangePercent > 0 &&
		math.Abs(*q.RegularMarketChangePercent) > a.MaxAbsChangePercent {
		return false
	}
	return true
}

func onAllowedExchange(q yahoo.RawQuote) bool {
	name := strings.ToUpper(q.FullExchangeName)
	for _, ex := range allowedExchanges {
		if strings.Contains(name, ex) {
			return true
		}
	}
	return false
}

// Filter keeps the admissible quotes in order and reports how many were dropped.
func (a Admission) Filter(quotes []yahoo.RawQuote) ([]yahoo.RawQuote, int) {
	kept := make([]yahoo.RawQuote, 0, len(quotes))
	for _, q := range quotes {
		if a.Admissible(q) {
			kept = append(kept, q)
		}
	}
	return kept, len(quotes) - len(kept)
}

// Project maps an admissible quote onto its display record.
func Project(q yahoo.RawQuote) model.ScreenerResult {
	quote := yahoo.ToQuote(q)
	r := model.ScreenerResult{
		Symbol:        quote.Symbol,
		Name:          quote.Name,
		Price:         quote.Price,
		ChangePercent: quote.ChangePercent,
		Volume:        quote.Volume,
		MarketCap:     quote.MarketCap,
		Exchange:      quote.Exchange,
	}
	if q.TrailingPE != nil {
		r.PERatio = *q.TrailingPE
	}
	return r
}
