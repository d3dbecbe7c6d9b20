package officebatch

import (
	"strconv"
	"strings"
)

// Distinguished column names in the input table.
const (
	ColumnTemplate = "TEMPLATE"
	ColumnSkip     = "SKIP"
	ColumnOutput   = "OUTPUT"
)

// Row maps column names to trimmed string values for one data record.
// Empty cells normalize to the empty string.
type Row map[string]string

// DataSet holds the rows of the input table together with the column order.
type DataSet struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the data set contains the named column.
func (d *DataSet) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Skipped reports whether the row opted out of processing via the SKIP column.
func (r Row) Skipped() bool {
	switch strings.ToLower(strings.TrimSpace(r[ColumnSkip])) {
	case "1", "true", "sí", "si", "x", "y", "yes":
		return true
	}
	return false
}

// FastMap builds the column-to-value map used for the literal replacement
// phase, excluding the TEMPLATE column. Column filters from the configuration
// are applied to their columns here, before plain token substitution.
func (r Row) FastMap(columnFilters map[string]string) map[string]string {
	mapping := make(map[string]string, len(r))
	for col, val := range r {
		if strings.EqualFold(col, ColumnTemplate) {
			continue
		}
		if name, ok := columnFilters[col]; ok {
			if fn, found := filterRegistry[name]; found {
				val = fn(val)
			}
		}
		mapping[col] = val
	}
	return mapping
}

// unsafeFilenameChars are replaced before a pattern result hits the filesystem.
const unsafeFilenameChars = `<>:"/\|?*`

// SanitizeFilename replaces filesystem-unsafe characters and trims whitespace.
func SanitizeFilename(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, ch := range s {
		if strings.ContainsRune(unsafeFilenameChars, ch) {
			b.WriteByte('_')
		} else {
			b.WriteRune(ch)
		}
	}
	return strings.TrimSpace(b.String())
}

// ExpandPattern expands {Column} references in a filename pattern against a
// row, plus the pseudo-column {index}. A reference to a missing column is a
// configuration error for the affected row.
func ExpandPattern(pattern string, row Row, index int) (string, error) {
	var b strings.Builder
	rest := pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		close := strings.IndexByte(rest[open:], '}')
		if close < 0 {
			b.WriteString(rest)
			break
		}
		close += open

		b.WriteString(rest[:open])
		name := rest[open+1 : close]
		if name == "index" {
			b.WriteString(strconv.Itoa(index))
		} else if val, ok := row[name]; ok {
			b.WriteString(val)
		} else {
			return "", NewPatternError(pattern, name)
		}
		rest = rest[close+1:]
	}
	return b.String(), nil
}
