package officebatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Status classifies the outcome of one row.
type Status string

const (
	StatusOK      Status = "OK"
	StatusError   Status = "ERROR"
	StatusSkipped Status = "SKIPPED"
	StatusDryRun  Status = "DRY-RUN"
)

// Result records the outcome of one row. Results are appended to an ordered
// log and never mutated after creation; the log is the authoritative record
// of partial success.
type Result struct {
	Row      int    `json:"row"`
	Status   Status `json:"status"`
	Template string `json:"template,omitempty"`
	Output   string `json:"output,omitempty"`
	Bytes    int64  `json:"bytes,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Batch drives the row-sequential pipeline: preflight once, then one
// normalize-substitute-export pass per row, isolating row failures.
type Batch struct {
	cfg      *Config
	renderer *Renderer
	channel  AutomationChannel
	scratch  string
	logger   *Logger
}

// NewBatch wires up a batch around a conversion engine and an optional
// automation channel. Close releases the scratch directory.
func NewBatch(cfg *Config, engine ConversionEngine, channel AutomationChannel, logger *Logger) (*Batch, error) {
	if logger == nil {
		logger = GetLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	choice, err := ParseEngineChoice(cfg.Engine)
	if err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp("", "officebatch-*")
	if err != nil {
		return nil, NewDocumentError("scratch", "", err)
	}

	normalizer := NewNormalizer(engine, scratch)
	exporter := NewExporter(engine, channel, choice, cfg.ExportRetries, cfg.PDFFilterOpts, scratch, logger)
	renderer := NewRenderer(cfg, normalizer, exporter, scratch, logger)

	return &Batch{
		cfg:      cfg,
		renderer: renderer,
		channel:  channel,
		scratch:  scratch,
		logger:   logger,
	}, nil
}

// Close removes the batch scratch directory, discarding cached conversions
// and any leftover per-row artifacts.
func (b *Batch) Close() error {
	if b.scratch == "" {
		return nil
	}
	err := os.RemoveAll(b.scratch)
	b.scratch = ""
	return err
}

// Run processes every row of the data set in order. A row's failure is
// recorded and the batch continues; only configuration problems that make the
// whole batch meaningless (missing TEMPLATE column, strict-mode preflight
// failure) abort it.
func (b *Batch) Run(ds *DataSet) ([]Result, error) {
	if !ds.HasColumn(ColumnTemplate) {
		return nil, fmt.Errorf("missing required column %q; available: %v", ColumnTemplate, ds.Columns)
	}

	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return nil, NewDocumentError("mkdir", b.cfg.OutputDir, err)
	}

	pf, err := b.renderer.Preflight(ds)
	if err != nil {
		return nil, fmt.Errorf("preflight failed: %w", err)
	}
	b.logger.Info("preflight: tokens %v", pf.Tokens)
	b.logger.Info("preflight: base token names %v", pf.BaseNames)
	if len(pf.MissingColumns) > 0 {
		b.logger.Warn("preflight: tokens without matching columns: %v", pf.MissingColumns)
	}
	if len(pf.UnusedColumns) > 0 {
		b.logger.Info("preflight: columns not used by any token: %v", pf.UnusedColumns)
	}
	if b.cfg.StrictMode && len(pf.MissingColumns) > 0 {
		return nil, fmt.Errorf("strict mode: missing columns for tokens: %v", pf.MissingColumns)
	}

	total := len(ds.Rows)
	b.logger.Info("rows to process: %d", total)

	results := make([]Result, 0, total)
	for i, row := range ds.Rows {
		results = append(results, b.processRow(row, i, total))
	}
	return results, nil
}

// processRow runs a single row to completion, success or recorded failure.
func (b *Batch) processRow(row Row, index, total int) Result {
	if row.Skipped() {
		b.logger.Info("[%d/%d] SKIP set, row skipped", index+1, total)
		return Result{Row: index, Status: StatusSkipped}
	}

	templateName := row[ColumnTemplate]
	templatePath, err := b.renderer.ResolveTemplate(templateName)
	if err != nil {
		b.logger.Error("[%d/%d] template resolve failed: %v", index+1, total, err)
		return Result{Row: index, Status: StatusError, Template: templateName, Error: err.Error()}
	}

	pdfName, err := ExpandPattern(b.cfg.FilenamePattern, row, index)
	if err != nil {
		b.logger.Error("[%d/%d] %v", index+1, total, err)
		return Result{Row: index, Status: StatusError, Template: templateName, Error: err.Error()}
	}
	pdfName = SanitizeFilename(pdfName)
	if !strings.HasSuffix(strings.ToLower(pdfName), ".pdf") {
		pdfName += ".pdf"
	}

	targetDir := b.cfg.OutputDir
	if subdir := strings.TrimSpace(row[ColumnOutput]); subdir != "" {
		targetDir = filepath.Join(targetDir, SanitizeFilename(subdir))
	}
	pdfPath := filepath.Join(targetDir, pdfName)

	if b.cfg.DryRun {
		b.logger.Info("[%d/%d] dry-run: %s -> %s", index+1, total, filepath.Base(templatePath), pdfName)
		return Result{Row: index, Status: StatusDryRun, Template: templateName, Output: pdfPath}
	}

	b.logger.Info("[%d/%d] %s -> %s", index+1, total, filepath.Base(templatePath), pdfName)
	if err := b.renderer.RenderPDF(templatePath, row, pdfPath); err != nil {
		b.logger.Error("[%d/%d] row failed (%s): %v", index+1, total, filepath.Base(templatePath), err)
		return Result{Row: index, Status: StatusError, Template: templateName, Output: pdfPath, Error: err.Error()}
	}

	var size int64
	if info, err := os.Stat(pdfPath); err == nil {
		size = info.Size()
	}
	return Result{Row: index, Status: StatusOK, Template: templateName, Output: pdfPath, Bytes: size}
}
