package officebatch

import (
	"regexp"
	"strings"
)

// Token delimiters in templates: {{FIELD}}, {{FIELD|filter}}, {{FIELD?:default}}.
const (
	TokenPrefix = "{{"
	TokenSuffix = "}}"
)

var (
	// tokenExprRegex matches any token occurrence for substitution.
	// Parsing of the inner expression is total, so the match is permissive.
	tokenExprRegex = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

	// tokenDiscoverRegex matches tokens for preflight discovery. The inner
	// content is restricted to identifier-safe characters plus the filter,
	// default and spacing punctuation the grammar allows.
	tokenDiscoverRegex = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_?:| -]+?)\s*\}\}`)
)

// TokenFor builds the bare token string for a column name.
func TokenFor(column string) string {
	return TokenPrefix + column + TokenSuffix
}

// EvaluateToken evaluates a single token expression against a row.
// It is a total function: it always returns a string and never fails.
//
// Grammar:
//
//	<expr> := <column> ('|' <filter>)* ('?:' <default>)?
//
// A missing or empty column value takes the default when one is given; the
// default itself is not run through the filters. Unknown filter names are
// skipped silently.
func EvaluateToken(expr string, row Row) string {
	inner := expr
	var def string
	hasDefault := false
	if i := strings.Index(inner, "?:"); i >= 0 {
		def = strings.TrimSpace(inner[i+2:])
		inner = strings.TrimSpace(inner[:i])
		hasDefault = true
	}

	pieces := strings.Split(inner, "|")
	column := strings.TrimSpace(pieces[0])

	val := row[column]
	if hasDefault && strings.TrimSpace(val) == "" {
		return def
	}

	for _, name := range pieces[1:] {
		if fn, ok := filterRegistry[strings.TrimSpace(name)]; ok {
			val = fn(val)
		}
	}
	return val
}

// BaseColumn strips filters and default from a token expression, leaving the
// bare column name. Used by preflight to compare tokens against row columns.
//
//	BaseColumn("Campo|upper") == "Campo"
//	BaseColumn("Campo?:N/A") == "Campo"
func BaseColumn(expr string) string {
	base, _, _ := strings.Cut(expr, "?:")
	base, _, _ = strings.Cut(base, "|")
	return strings.TrimSpace(base)
}

// evaluateTokens replaces every token occurrence in text, returning the new
// text and whether anything changed.
func evaluateTokens(text string, row Row) (string, bool) {
	if !strings.Contains(text, TokenPrefix) {
		return text, false
	}
	replaced := tokenExprRegex.ReplaceAllStringFunc(text, func(match string) string {
		inner := tokenExprRegex.FindStringSubmatch(match)[1]
		return EvaluateToken(inner, row)
	})
	return replaced, replaced != text
}

// discoverTokens extracts the trimmed inner expressions of every token
// occurrence in text, in order of appearance.
func discoverTokens(text string) []string {
	if !strings.Contains(text, TokenPrefix) {
		return nil
	}
	var found []string
	for _, m := range tokenDiscoverRegex.FindAllStringSubmatch(text, -1) {
		found = append(found, strings.TrimSpace(m[1]))
	}
	return found
}
