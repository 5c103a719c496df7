package validation

import (
	"sort"
	"strings"
)

// Error carries per-field validation messages keyed by the JSON field name.
type Error struct {
	Fields map[string]string
}

// Error joins the field messages in field order so the text is stable.
func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, field := range names {
		msgs = append(msgs, field+": "+e.Fields[field])
	}
	return strings.Join(msgs, "; ")
}
