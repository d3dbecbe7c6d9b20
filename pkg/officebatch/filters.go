package officebatch

import (
	"strconv"
	"strings"
	"time"
)

// FilterFunc is a pure string transformation applied to a token value.
type FilterFunc func(string) string

// filterRegistry holds the fixed set of named token filters.
// Unknown filter names are ignored during evaluation, never an error.
var filterRegistry = map[string]FilterFunc{
	"trim":  strings.TrimSpace,
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"euros": formatEuros,
	"dmy":   formatDateDMY,
}

// LookupFilter returns the named filter, if registered.
func LookupFilter(name string) (FilterFunc, bool) {
	fn, ok := filterRegistry[name]
	return fn, ok
}

// formatEuros renders a Spanish-style numeral with two decimals, period
// thousands separators, comma decimal separator and a trailing euro sign.
// Values that do not parse as numbers pass through unchanged.
func formatEuros(s string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return s
	}

	formatted := strconv.FormatFloat(v, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign = "-"
		formatted = formatted[1:]
	}

	intPart, decPart, _ := strings.Cut(formatted, ".")
	return sign + groupThousands(intPart, ".") + "," + decPart + " €"
}

// groupThousands inserts sep every three digits from the right.
func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// dmyInputLayouts are the accepted date layouts, tried in order.
var dmyInputLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

// formatDateDMY normalizes a date string to dd/mm/yyyy.
// Values that match none of the accepted layouts pass through unchanged.
func formatDateDMY(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	for _, layout := range dmyInputLayouts {
		if d, err := time.Parse(layout, trimmed); err == nil {
			return d.Format("02/01/2006")
		}
	}
	return s
}
