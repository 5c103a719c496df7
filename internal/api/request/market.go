package request

import (
	"fmt"
	"strconv"
	"time"
)

// Defaults for market query parameters.
const (
	DefaultChartRange    = "1mo"
	DefaultTrendingLimit = 10
	MaxTrendingLimit     = 50
)

// ParseTrendingLimit reads the limit parameter of the trending endpoint.
// Empty yields DefaultTrendingLimit; otherwise it must be between 1 and MaxTrendingLimit.
func ParseTrendingLimit(limitParam string) (int, error) {
	if limitParam == "" {
		return DefaultTrendingLimit, nil
	}

	limit, err := strconv.Atoi(limitParam)
	if err != nil {
		return 0, fmt.Errorf("invalid limit: %s", limitParam)
	}
	if limit < 1 || limit > MaxTrendingLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", MaxTrendingLimit)
	}

	return limit, nil
}

// ParseMonth validates an optional "YYYY-MM" month filter.
func ParseMonth(monthParam string) (string, error) {
	if monthParam == "" {
		return "", nil
	}
	if _, err := time.Parse("2006-01", monthParam); err != nil {
		return "", fmt.Errorf("invalid month format, expected YYYY-MM: %s", monthParam)
	}
	return monthParam, nil
}
