package request

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Research-Backend/internal/model"
)

// ParseActivityFilters extracts and validates activity log filters from query parameters.
//
// Validation rules:
//   - actions: comma-separated, each must be a known action (sign_in, search, chat, ...)
//   - limit: must be between 1 and 200 (defaults to 50)
//
// Both parameters are optional.
func ParseActivityFilters(actionsParam, limitParam string) (model.ActivityFilters, error) {
	filters := model.ActivityFilters{Limit: 50}

	if actionsParam != "" {
		for _, action := range strings.Split(actionsParam, ",") {
			action = strings.TrimSpace(strings.ToLower(action))
			if action == "" {
				continue
			}
			if !model.ValidActions[action] {
				return model.ActivityFilters{}, fmt.Errorf("invalid action: %s", action)
			}
			filters.Actions = append(filters.Actions, action)
		}
	}

	if limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil {
			return model.ActivityFilters{}, fmt.Errorf("invalid limit: must be a number")
		}
		if limit < 1 || limit > 200 {
			return model.ActivityFilters{}, fmt.Errorf("invalid limit: must be between 1 and 200")
		}
		filters.Limit = limit
	}

	return filters, nil
}

// ParsePruneBefore parses the cutoff of a log prune request. The parameter is required.
func ParsePruneBefore(beforeParam string) (time.Time, error) {
	if beforeParam == "" {
		return time.Time{}, fmt.Errorf("before is required")
	}
	t, err := parseFilterTime(beforeParam)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid before format: %w", err)
	}
	return t, nil
}

// parseFilterTime parses date strings for filter parameters.
// Accepts YYYY-MM-DD, RFC3339, and RFC3339 with milliseconds formats.
func parseFilterTime(str string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000Z07:00"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
