package portfolio

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

// Tab selects which trades of a month are shown.
type Tab string

const (
	TabAll  Tab = "all"
	TabWin  Tab = "win"
	TabLose Tab = "lose"
)

// ParseTab maps a query value onto a Tab. Empty selects TabAll.
func ParseTab(s string) (Tab, error) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case "", TabAll:
		return TabAll, nil
	case TabWin:
		return TabWin, nil
	case TabLose:
		return TabLose, nil
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"

	LabelProfit = "profit"
	LabelLoss   = "loss"
)

// FilterTrades keeps trades in the given "YYYY-MM" month (empty means every month) that
// match the tab. Trades without a date only survive an unfiltered month.
func FilterTrades(trades []model.Trade, month string, tab Tab) []model.Trade {
	out := make([]model.Trade, 0, len(trades))
	for _, t := range trades {
		if month != "" && (t.TradeDate.IsZero() || t.TradeDate.Format(monthLayout) != month) {
			continue
		}
		switch tab {
		case TabWin:
			if t.GainLoss <= 0 {
				continue
			}
		case TabLose:
			if t.GainLoss >= 0 {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// ComputeStats summarizes a trade subset. It returns nil for an empty subset.
// A trade wins when its realized gain is positive and loses when it is negative;
// break-even trades count towards the total only.
func ComputeStats(trades []model.Trade) *model.TradeStats {
	if len(trades) == 0 {
		return nil
	}

	stats := &model.TradeStats{TotalTrades: len(trades)}
	sum := decimal.Zero
	for _, t := range trades {
		switch {
		case t.GainLoss > 0:
			stats.WinningTrades++
		case t.GainLoss < 0:
			stats.LosingTrades++
		}
		sum = sum.Add(decimal.NewFromFloat(t.GainLoss))
	}

	stats.WinRate = decimal.NewFromInt(int64(stats.WinningTrades)).
		Div(decimal.NewFromInt(int64(stats.TotalTrades))).
		Mul(hundred).
		InexactFloat64()
	stats.TotalPnL = sum.Abs().InexactFloat64()
	stats.PnLLabel = LabelProfit
	if sum.IsNegative() {
		stats.PnLLabel = LabelLoss
	}

	return stats
}

// DailySeries sums realized gain/loss per calendar day, ascending by date.
// Trades without a parseable date are left out.
func DailySeries(trades []model.Trade) []model.DailyPnL {
	byDay := make(map[string]decimal.Decimal)
	for _, t := range trades {
		if t.TradeDate.IsZero() {
			continue
		}
		day := t.TradeDate.Format(dayLayout)
		byDay[day] = byDay[day].Add(decimal.NewFromFloat(t.GainLoss))
	}

	series := make([]model.DailyPnL, 0, len(byDay))
	for day, sum := range byDay {
		series = append(series, model.DailyPnL{Date: day, GainLoss: sum.InexactFloat64()})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})

	return series
}

// MonthsOf returns the distinct "YYYY-MM" months present in trades, newest first.
func MonthsOf(trades []model.Trade) []string {
	seen := make(map[string]struct{})
	months := []string{}
	for _, t := range trades {
		if t.TradeDate.IsZero() {
			continue
		}
		m := t.TradeDate.Format(monthLayout)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// Analyze runs the full reduction pipeline for an upload: positions over every trade,
// statistics and the daily series over the filtered subset.
func Analyze(trades []model.Trade, report model.ParseReport, month string, tab Tab) model.TradeAnalysis {
	filtered := FilterTrades(trades, month, tab)
	return model.TradeAnalysis{
		Trades:      filtered,
		Positions:   AggregatePositions(trades),
		Stats:       ComputeStats(filtered),
		DailySeries: DailySeries(filtered),
		Months:      MonthsOf(trades),
		Report:      report,
	}
}
