package officebatch

import (
	"strings"
)

// replaceTokens performs the two-phase replacement on a paragraph's text.
// Phase one is a literal replacement of the bare token form of every fast-map
// column. Phase two evaluates any remaining token expression against the full
// row. Reports whether the text changed.
func replaceTokens(text string, fastMap map[string]string, row Row) (string, bool) {
	replaced := text
	changed := false

	for col, val := range fastMap {
		token := TokenFor(col)
		if strings.Contains(replaced, token) {
			replaced = strings.ReplaceAll(replaced, token, val)
			changed = true
		}
	}

	if evaluated, ok := evaluateTokens(replaced, row); ok {
		replaced = evaluated
		changed = true
	}

	return replaced, changed
}

// Substitute fills every token in the document from the row, visiting all
// text-bearing parts. Units whose text does not change keep their run
// structure and formatting untouched; changed units collapse to a single run
// styled like their first run. Returns the number of changed units.
func (p *DocumentPackage) Substitute(row Row, fastMap map[string]string, scanOptional bool) (int, error) {
	total := 0
	for _, name := range p.TextParts(scanOptional) {
		data, ok := p.Part(name)
		if !ok {
			continue
		}
		rewritten, changed, err := substitutePart(data, p.kind, func(text string) (string, bool) {
			return replaceTokens(text, fastMap, row)
		})
		if err != nil {
			return total, NewDocumentError("substitute", name, err)
		}
		if changed > 0 {
			p.setPart(name, rewritten)
			total += changed
		}
	}
	return total, nil
}

// DiscoverTokens collects every token expression in the document without
// mutating it. The returned set holds raw inner expressions; callers use
// BaseColumn to reduce them to column names for preflight.
func (p *DocumentPackage) DiscoverTokens(scanOptional bool) (map[string]struct{}, error) {
	found := make(map[string]struct{})
	for _, name := range p.TextParts(scanOptional) {
		data, ok := p.Part(name)
		if !ok {
			continue
		}
		if err := collectPartTokens(data, p.kind, found); err != nil {
			return nil, NewDocumentError("discover", name, err)
		}
	}
	return found, nil
}
