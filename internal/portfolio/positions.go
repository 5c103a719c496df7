// Package portfolio reduces parsed trades into positions, win/loss statistics and
// chart series. Every function is pure and recomputes from the full trade list.
package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

var hundred = decimal.NewFromInt(100)

type accumulator struct {
	totalShares decimal.Decimal
	buyCost     decimal.Decimal
	buyShares   decimal.Decimal
	lastPrice   decimal.Decimal
}

// AggregatePositions groups trades by symbol and returns the open positions sorted by symbol.
//
// The average price is the cost basis of buy-side trades only. The last price is taken from
// the last trade of the symbol in input order, which is only chronological when the input is.
// Symbols whose net share count is zero or negative are left out.
func AggregatePositions(trades []model.Trade) []model.Position {
	bySymbol := make(map[string]*accumulator)

	for _, t := range trades {
		if t.Symbol == "" {
			continue
		}
		acc, ok := bySymbol[t.Symbol]
		if !ok {
			acc = &accumulator{}
			bySymbol[t.Symbol] = acc
		}

		qty := decimal.NewFromFloat(t.Quantity)
		price := decimal.NewFromFloat(t.Price)

		acc.totalShares = acc.totalShares.Add(qty)
		if qty.IsPositive() {
			acc.buyCost = acc.buyCost.Add(qty.Mul(price))
			acc.buyShares = acc.buyShares.Add(qty)
		}
		acc.lastPrice = price
	}

	positions := make([]model.Position, 0, len(bySymbol))
	for symbol, acc := range bySymbol {
		if !acc.totalShares.IsPositive() {
			continue
		}
		positions = append(positions, acc.position(symbol))
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Symbol < positions[j].Symbol
	})

	return positions
}

func (a *accumulator) position(symbol string) model.Position {
	avg := decimal.Zero
	if a.buyShares.IsPositive() {
		avg = a.buyCost.Div(a.buyShares)
	}

	marketValue := a.totalShares.Mul(a.lastPrice)
	unrealized := a.lastPrice.Sub(avg).Mul(a.totalShares)

	percent := decimal.Zero
	if !avg.IsZero() {
		percent = a.lastPrice.Sub(avg).Div(avg).Mul(hundred)
	}

	return model.Position{
		Symbol:        symbol,
		TotalShares:   a.totalShares.InexactFloat64(),
		AveragePrice:  avg.InexactFloat64(),
		LastPrice:     a.lastPrice.InexactFloat64(),
		MarketValue:   marketValue.InexactFloat64(),
		UnrealizedPnL: unrealized.InexactFloat64(),
		PercentChange: percent.InexactFloat64(),
	}
}
