package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/ndewijer/Stock-Research-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
	"github.com/ndewijer/Stock-Research-Backend/internal/portfolio"
	"github.com/ndewijer/Stock-Research-Backend/internal/tradefile"
)

// loadTrades parses the trade file named by the first positional argument.
func loadTrades(f *flag.FlagSet) (tradefile.Result, error) {
	if f.NArg() != 1 {
		return tradefile.Result{}, fmt.Errorf("expected exactly one trade file, got %d", f.NArg())
	}
	file, err := os.Open(f.Arg(0))
	if err != nil {
		return tradefile.Result{}, err
	}
	defer file.Close()

	return tradefile.Parse(file)
}

func reportIssues(w io.Writer, report model.ParseReport) {
	if report.CoercedRows == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d of %d rows had unparseable fields:\n", report.CoercedRows, report.ParsedRows)
	for _, issue := range report.Issues {
		fmt.Fprintf(w, "  line %d: %s %q\n", issue.Line, issue.Field, issue.Value)
	}
}

type positionsCmd struct {
	out io.Writer
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list open positions from a trade file" }
func (*positionsCmd) Usage() string {
	return `tradecli positions <file>

  Aggregates the trades of a brokerage export into per-symbol positions.
`
}

func (*positionsCmd) SetFlags(*flag.FlagSet) {}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, err := loadTrades(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	positions := portfolio.AggregatePositions(result.Trades)

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Symbol\tShares\tAvg Price\tLast Price\tValue\tUnrealized\tChange %\t")
	for _, p := range positions {
		fmt.Fprintf(tw, "%s\t%.4f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
			p.Symbol, p.TotalShares, p.AveragePrice, p.LastPrice, p.MarketValue, p.UnrealizedPnL, p.PercentChange)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	reportIssues(c.out, result.Report)
	return subcommands.ExitSuccess
}

type statsCmd struct {
	out   io.Writer
	month string
	tab   string
	daily bool
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "show win/loss statistics for a trade file" }
func (*statsCmd) Usage() string {
	return `tradecli stats [-month YYYY-MM] [-tab all|win|lose] [-daily] <file>

  Computes trade count, win rate and realized profit or loss, optionally
  restricted to one month and to winning or losing trades.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Restrict to trades in this month (YYYY-MM)")
	f.StringVar(&c.tab, "tab", "all", "Trade outcome filter (all, win, lose)")
	f.BoolVar(&c.daily, "daily", false, "Also print the daily realized gain/loss series")
}

func (c *statsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := request.ParseMonth(c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tab, err := portfolio.ParseTab(c.tab)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	result, err := loadTrades(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	analysis := portfolio.Analyze(result.Trades, result.Report, month, tab)
	stats := analysis.Stats
	if stats == nil {
		stats = &model.TradeStats{}
	}

	fmt.Fprintf(c.out, "Trades:   %d\n", stats.TotalTrades)
	fmt.Fprintf(c.out, "Winning:  %d\n", stats.WinningTrades)
	fmt.Fprintf(c.out, "Losing:   %d\n", stats.LosingTrades)
	fmt.Fprintf(c.out, "Win rate: %.2f%%\n", stats.WinRate)
	fmt.Fprintf(c.out, "Total:    %.2f %s\n", stats.TotalPnL, stats.PnLLabel)

	if c.daily {
		fmt.Fprintln(c.out)
		for _, d := range analysis.DailySeries {
			fmt.Fprintf(c.out, "%s  %10.2f\n", d.Date, d.GainLoss)
		}
	}

	reportIssues(c.out, result.Report)
	return subcommands.ExitSuccess
}
