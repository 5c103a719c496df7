package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const maxSymbolsPerRequest = 20

// ValidChartRanges contains the chart ranges accepted by the finance API.
var ValidChartRanges = map[string]bool{
	"5d": true, "1mo": true, "3mo": true, "6mo": true, "1y": true, "2y": true, "5y": true, "ytd": true, "max": true,
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-=^]{0,14}$`)

// NormalizeSymbol trims and upper-cases a ticker and checks its shape.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", fmt.Errorf("symbol is required")
	}
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("invalid symbol: %s", symbol)
	}
	return s, nil
}

// ParseSymbols splits a comma-separated symbols parameter, normalizing and de-duplicating it.
// Order of first appearance is kept.
func ParseSymbols(param string) ([]string, error) {
	errors := make(map[string]string)
	seen := make(map[string]bool)
	symbols := []string{}

	for _, raw := range strings.Split(param, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s, err := NormalizeSymbol(raw)
		if err != nil {
			errors["symbols"] = err.Error()
			continue
		}
		if !seen[s] {
			seen[s] = true
			symbols = append(symbols, s)
		}
	}

	if len(symbols) == 0 && len(errors) == 0 {
		errors["symbols"] = "at least one symbol is required"
	} else if len(symbols) > maxSymbolsPerRequest {
		errors["symbols"] = fmt.Sprintf("at most %d symbols per request", maxSymbolsPerRequest)
	}

	if len(errors) > 0 {
		return nil, &Error{Fields: errors}
	}

	return symbols, nil
}

// ValidateChartRange checks the range parameter of a chart request.
func ValidateChartRange(rng string) error {
	if !ValidChartRanges[rng] {
		return &Error{Fields: map[string]string{"range": fmt.Sprintf("invalid range: %s", rng)}}
	}
	return nil
}
