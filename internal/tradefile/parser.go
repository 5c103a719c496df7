// Package tradefile parses uploaded trading-history files into trades.
//
// The expected layout is two header lines followed by one comma-separated trade per line:
//
//	symbol, trade date, quantity, price, realized gain/loss, net amount
//
// Malformed fields never reject a row. They are coerced to their zero value and recorded
// in the ParseReport so callers can decide whether to trust the result.
package tradefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

// HeaderLines is the number of leading lines skipped unconditionally.
const HeaderLines = 2

// Column positions within a trade line.
const (
	colSymbol = iota
	colDate
	colQuantity
	colPrice
	colGainLoss
	colNetAmount
)

// maxLineBytes bounds a single line; longer lines make the whole file unreadable.
const maxLineBytes = 1 << 20

var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"01/02/2006 15:04:05",
	time.RFC3339,
}

// Result holds the parsed trades in file order and the ingestion report.
type Result struct {
	Trades []model.Trade
	Report model.ParseReport
}

// Parse reads a whole trade file.
//
// Returns an error wrapping apperrors.ErrUnreadableTradeFile when the reader fails and
// apperrors.ErrEmptyTradeFile when no data rows remain after the headers.
func Parse(r io.Reader) (Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	res := Result{Trades: []model.Trade{}}
	res.Report.Issues = []model.RowIssue{}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if lineNo <= HeaderLines {
			res.Report.HeaderLines++
			continue
		}
		if strings.TrimSpace(line) == "" {
			res.Report.BlankLines++
			continue
		}

		trade, issues := parseRow(line, lineNo)
		res.Trades = append(res.Trades, trade)
		res.Report.ParsedRows++
		if len(issues) > 0 {
			res.Report.CoercedRows++
			res.Report.Issues = append(res.Report.Issues, issues...)
		}
	}
	res.Report.TotalLines = lineNo

	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", apperrors.ErrUnreadableTradeFile, err)
	}
	if len(res.Trades) == 0 {
		return Result{}, apperrors.ErrEmptyTradeFile
	}

	return res, nil
}

func parseRow(line string, lineNo int) (model.Trade, []model.RowIssue) {
	fields := SplitLine(line)
	var issues []model.RowIssue

	field := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	number := func(i int, name string) float64 {
		raw := field(i)
		v, err := parseNumber(raw)
		if err != nil {
			issues = append(issues, model.RowIssue{Line: lineNo, Field: name, Value: raw})
			return 0
		}
		return v
	}

	trade := model.Trade{
		Symbol:    ExtractSymbol(field(colSymbol)),
		Quantity:  number(colQuantity, "quantity"),
		Price:     number(colPrice, "price"),
		GainLoss:  number(colGainLoss, "gainLoss"),
		NetAmount: number(colNetAmount, "netAmount"),
		Line:      lineNo,
	}

	if trade.Symbol == "" {
		issues = append(issues, model.RowIssue{Line: lineNo, Field: "symbol", Value: field(colSymbol)})
	}

	rawDate := field(colDate)
	date, err := parseDate(rawDate)
	if err != nil {
		issues = append(issues, model.RowIssue{Line: lineNo, Field: "tradeDate", Value: rawDate})
	}
	trade.TradeDate = date

	return trade, issues
}

// SplitLine splits a line on commas outside double quotes.
// Inside a quoted segment a doubled quote ("") is a literal quote. Fields are trimmed.
func SplitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			current.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

// ExtractSymbol returns the ticker held by the last bracket annotation of a field,
// e.g. "Apple Inc. [AAPL]" or "Tesla (TSLA)". Without an annotation the trimmed
// field itself is used. The result is upper-cased.
func ExtractSymbol(field string) string {
	field = strings.TrimSpace(field)

	if inner, ok := lastAnnotation(field); ok {
		return strings.ToUpper(inner)
	}
	return strings.ToUpper(field)
}

func lastAnnotation(field string) (string, bool) {
	closeIdx := strings.LastIndexAny(field, "])")
	for closeIdx >= 0 {
		open := byte('[')
		if field[closeIdx] == ')' {
			open = '('
		}
		openIdx := strings.LastIndexByte(field[:closeIdx], open)
		if openIdx >= 0 {
			if inner := strings.TrimSpace(field[openIdx+1 : closeIdx]); inner != "" {
				return inner, true
			}
		}
		closeIdx = strings.LastIndexAny(field[:closeIdx], "])")
	}
	return "", false
}

var (
	errEmptyNumber    = errors.New("empty number")
	errNonFiniteValue = errors.New("number is not finite")
)

// parseNumber accepts "$1,234.50", "-3", "(12.50)" and similar broker formats.
func parseNumber(raw string) (float64, error) {
	s := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0, errEmptyNumber
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNonFiniteValue
	}
	if negative {
		v = -v
	}
	return v, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// Head returns the first n lines of r verbatim, joined by newlines.
func Head(r io.Reader, n int) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lines := make([]string, 0, n)
	for len(lines) < n && scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrUnreadableTradeFile, err)
	}
	if len(lines) == 0 {
		return "", apperrors.ErrEmptyTradeFile
	}

	return strings.Join(lines, "\n"), nil
}
