package officebatch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Renderer composes the per-row pipeline: normalize the template, substitute
// tokens, export to PDF. It also runs token preflight across the distinct
// templates of a data set.
type Renderer struct {
	cfg        *Config
	normalizer *Normalizer
	exporter   *Exporter
	scratch    string
	logger     *Logger
}

// NewRenderer creates a renderer around an existing normalizer and exporter.
func NewRenderer(cfg *Config, normalizer *Normalizer, exporter *Exporter, scratch string, logger *Logger) *Renderer {
	if logger == nil {
		logger = GetLogger()
	}
	return &Renderer{
		cfg:        cfg,
		normalizer: normalizer,
		exporter:   exporter,
		scratch:    scratch,
		logger:     logger,
	}
}

// ResolveTemplate validates a TEMPLATE cell (bare filename, no directories)
// and returns its path inside the template directory. An empty name falls
// back to the configured default template.
func (r *Renderer) ResolveTemplate(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if r.cfg.DefaultTemplate == "" {
			return "", NewResolveError("", "TEMPLATE cell is empty and no default template is configured")
		}
		name = r.cfg.DefaultTemplate
	}
	if strings.ContainsAny(name, `/\`) {
		return "", NewResolveError(name, "TEMPLATE must be a filename only, without directories")
	}

	path := filepath.Join(r.cfg.TemplateDir, name)
	if _, err := os.Stat(path); err != nil {
		return "", NewResolveError(name, "template file not found: "+path)
	}
	return path, nil
}

// RenderPDF runs one row through normalize, substitute and export. The edited
// document only ever exists in a per-row scratch directory.
func (r *Renderer) RenderPDF(templatePath string, row Row, pdfPath string) error {
	canonical, err := r.normalizer.Normalize(templatePath)
	if err != nil {
		return err
	}

	doc, err := OpenDocument(canonical)
	if err != nil {
		return err
	}

	scanOptional := r.scanOptionalFor(doc.Kind())
	changed, err := doc.Substitute(row, row.FastMap(r.cfg.ColumnFilters), scanOptional)
	if err != nil {
		return err
	}
	r.logger.Debug("substituted %d units in %s", changed, filepath.Base(canonical))

	rowDir, err := os.MkdirTemp(r.scratch, "row-*")
	if err != nil {
		return NewDocumentError("scratch", r.scratch, err)
	}
	defer os.RemoveAll(rowDir)

	edited := filepath.Join(rowDir, "edited"+doc.Kind().Ext())
	if err := doc.Save(edited); err != nil {
		return err
	}

	return r.exporter.Export(edited, pdfPath)
}

func (r *Renderer) scanOptionalFor(kind Kind) bool {
	if kind == KindPptx {
		return r.cfg.ScanMasters
	}
	return r.cfg.ScanHeadersFooters
}

// Preflight compares the tokens used by the data set's templates against its
// columns before any row is processed.
type Preflight struct {
	// Tokens holds every raw token expression found, sorted.
	Tokens []string
	// BaseNames holds the distinct base column names the tokens reference.
	BaseNames []string
	// MissingColumns are base names with no matching column.
	MissingColumns []string
	// UnusedColumns are columns no token references.
	UnusedColumns []string
}

// Preflight collects tokens from every distinct template referenced by the
// data set (normalizing legacy templates as needed, which warms the
// conversion cache) and reports missing and unused columns.
func (r *Renderer) Preflight(ds *DataSet) (*Preflight, error) {
	templates := make(map[string]struct{})
	for _, row := range ds.Rows {
		if name := strings.TrimSpace(row[ColumnTemplate]); name != "" {
			templates[name] = struct{}{}
		}
	}
	if len(templates) == 0 && r.cfg.DefaultTemplate != "" {
		templates[r.cfg.DefaultTemplate] = struct{}{}
	}

	rawTokens := make(map[string]struct{})
	for name := range templates {
		path, err := r.ResolveTemplate(name)
		if err != nil {
			return nil, err
		}
		canonical, err := r.normalizer.Normalize(path)
		if err != nil {
			return nil, err
		}
		doc, err := OpenDocument(canonical)
		if err != nil {
			return nil, err
		}
		found, err := doc.DiscoverTokens(r.scanOptionalFor(doc.Kind()))
		if err != nil {
			return nil, err
		}
		for expr := range found {
			rawTokens[expr] = struct{}{}
		}
	}

	columns := make(map[string]struct{})
	for _, c := range ds.Columns {
		if !strings.EqualFold(c, ColumnTemplate) {
			columns[c] = struct{}{}
		}
	}

	baseNames := make(map[string]struct{})
	for expr := range rawTokens {
		if base := BaseColumn(expr); base != "" {
			baseNames[base] = struct{}{}
		}
	}

	pf := &Preflight{
		Tokens:    sortedKeys(rawTokens),
		BaseNames: sortedKeys(baseNames),
	}
	for base := range baseNames {
		if _, ok := columns[base]; !ok {
			pf.MissingColumns = append(pf.MissingColumns, base)
		}
	}
	for col := range columns {
		if _, ok := baseNames[col]; !ok {
			pf.UnusedColumns = append(pf.UnusedColumns, col)
		}
	}
	sort.Strings(pf.MissingColumns)
	sort.Strings(pf.UnusedColumns)
	return pf, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
