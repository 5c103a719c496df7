package screener

// Filter mirrors the provider's screener query JSON, e.g.
//
//	{"operator":"and","operands":[{"operator":"gt","operands":["dayvolume",1000000]}]}
//
// Leaf operands are a field name followed by one or two values.
type Filter struct {
	Operator string `json:"operator"`
	Operands []any  `json:"operands"`
}

// Screener field names.
const (
	FieldMarketCap     = "intradaymarketcap"
	FieldPrice         = "intradayprice"
	FieldVolume        = "dayvolume"
	FieldPERatio       = "peratio.lasttwelvemonths"
	FieldPercentChange = "percentchange"
	FieldRegion        = "region"
	FieldSector        = "sector"
)

func group(op string, filters []Filter) Filter {
	operands := make([]any, len(filters))
	for i, f := range filters {
		operands[i] = f
	}
	return Filter{Operator: op, Operands: operands}
}

// And matches when every child matches.
func And(filters ...Filter) Filter { return group("and", filters) }

// Or matches when any child matches.
func Or(filters ...Filter) Filter { return group("or", filters) }

// GT matches field > v.
func GT(field string, v float64) Filter {
	return Filter{Operator: "gt", Operands: []any{field, v}}
}

// LT matches field < v.
func LT(field string, v float64) Filter {
	return Filter{Operator: "lt", Operands: []any{field, v}}
}

// Between matches lo <= field <= hi.
func Between(field string, lo, hi float64) Filter {
	return Filter{Operator: "btwn", Operands: []any{field, lo, hi}}
}

// EQ matches field == v.
func EQ(field string, v any) Filter {
	return Filter{Operator: "eq", Operands: []any{field, v}}
}
