// Package screener holds the stock screen catalog and the admissibility rule applied
// to every quote a screen returns.
package screener

import (
	"fmt"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

// Screen is one entry of the catalog. Exactly one of Predefined or Filter is set:
// Predefined names a screen run by the provider, Filter is posted as a custom query.
type Screen struct {
	ID          string
	Name        string
	Description string
	Predefined  string
	Filter      *Filter
	SortField   string
}

// Info returns the public part of the screen.
func (s Screen) Info() model.Screen {
	return model.Screen{ID: s.ID, Name: s.Name, Description: s.Description}
}

func predefined(id, name, desc string) Screen {
	return Screen{ID: id, Name: name, Description: desc, Predefined: id}
}

func declarative(id, name, desc, sortField string, f Filter) Screen {
	return Screen{ID: id, Name: name, Description: desc, Filter: &f, SortField: sortField}
}

var catalog = []Screen{
	predefined("day_gainers", "Day Gainers", "Stocks with the largest gains today"),
	predefined("day_losers", "Day Losers", "Stocks with the largest losses today"),
	predefined("most_actives", "Most Active", "Stocks with the highest trading volume today"),
	predefined("undervalued_growth_stocks", "Undervalued Growth", "Growth stocks trading at low earnings multiples"),
	predefined("growth_technology_stocks", "Growth Technology", "Technology stocks with strong revenue and earnings growth"),

	declarative("large_cap_value", "Large Cap Value",
		"Companies above $10B market cap with a trailing P/E under 15",
		FieldMarketCap,
		And(
			EQ(FieldRegion, "us"),
			GT(FieldMarketCap, 10_000_000_000),
			Between(FieldPERatio, 0, 15),
		)),
	declarative("small_cap_momentum", "Small Cap Momentum",
		"Companies between $300M and $2B market cap up more than 5% today",
		FieldPercentChange,
		And(
			EQ(FieldRegion, "us"),
			Between(FieldMarketCap, 300_000_000, 2_000_000_000),
			GT(FieldPercentChange, 5),
		)),
	declarative("high_volume_breakouts", "High Volume Breakouts",
		"Stocks trading more than 5M shares and up more than 3% today",
		FieldVolume,
		And(
			EQ(FieldRegion, "us"),
			GT(FieldVolume, 5_000_000),
			GT(FieldPercentChange, 3),
		)),
	declarative("penny_stock_runners", "Penny Stock Runners",
		"Stocks under $5 with heavy volume and a double-digit move in either direction",
		FieldPercentChange,
		And(
			EQ(FieldRegion, "us"),
			LT(FieldPrice, 5),
			GT(FieldVolume, 1_000_000),
			Or(GT(FieldPercentChange, 10), LT(FieldPercentChange, -10)),
		)),
}

// Catalog returns the screens in display order.
func Catalog() []Screen {
	out := make([]Screen, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a screen by id.
func Lookup(id string) (Screen, error) {
	for _, s := range catalog {
		if s.ID == id {
			return s, nil
		}
	}
	return Screen{}, fmt.Errorf("%w: %s", apperrors.ErrScreenNotFound, id)
}
