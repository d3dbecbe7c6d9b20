package officebatch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// newTestBatch wires a batch over temp directories, a template named
// letter.docx with a {{Name}} token, and the fake conversion engine.
func newTestBatch(t *testing.T, mutate func(*Config)) (*Batch, *Config, *fakeEngine) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.TemplateDir = t.TempDir()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Engine = "libreoffice"
	writeTemplate(t, cfg.TemplateDir, "letter.docx",
		buildDocxBytes(t, docxRun("Dear {{Name}}"), nil))
	if mutate != nil {
		mutate(cfg)
	}

	engine := &fakeEngine{content: "%PDF-fake"}
	b, err := NewBatch(cfg, engine, nil, nil)
	if err != nil {
		t.Fatalf("NewBatch() error = %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b, cfg, engine
}

func TestBatchRequiresTemplateColumn(t *testing.T) {
	b, _, _ := newTestBatch(t, nil)
	_, err := b.Run(&DataSet{Columns: []string{"Name"}, Rows: []Row{{"Name": "x"}}})
	if err == nil {
		t.Fatal("Run() without a TEMPLATE column should fail")
	}
	if !strings.Contains(err.Error(), "TEMPLATE") {
		t.Errorf("Run() error = %v, want it to name the missing column", err)
	}
}

func TestBatchRun(t *testing.T) {
	b, _, _ := newTestBatch(t, nil)

	ds := &DataSet{
		Columns: []string{"TEMPLATE", "Name", "SKIP"},
		Rows: []Row{
			{"TEMPLATE": "letter.docx", "Name": "Ana", "SKIP": ""},
			{"TEMPLATE": "letter.docx", "Name": "Bob", "SKIP": "x"},
			{"TEMPLATE": "missing.docx", "Name": "Eve", "SKIP": ""},
			{"TEMPLATE": "letter.docx", "Name": "Dan", "SKIP": ""},
		},
	}
	results, err := b.Run(ds)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("Run() returned %d results, want 4", len(results))
	}

	wantStatus := []Status{StatusOK, StatusSkipped, StatusError, StatusOK}
	for i, want := range wantStatus {
		if results[i].Status != want {
			t.Errorf("results[%d].Status = %s, want %s", i, results[i].Status, want)
		}
	}

	// A failed row does not stop later rows.
	if results[2].Error == "" {
		t.Error("failed row carries no error message")
	}

	// Output names follow the default pattern.
	if base := filepath.Base(results[0].Output); base != "0 - letter.docx.pdf" {
		t.Errorf("results[0].Output = %q, want default pattern name", base)
	}
	if _, err := os.Stat(results[0].Output); err != nil {
		t.Errorf("output PDF missing: %v", err)
	}
	if results[0].Bytes == 0 {
		t.Error("results[0].Bytes = 0, want the artifact size")
	}
}

func TestBatchDryRun(t *testing.T) {
	b, _, engine := newTestBatch(t, func(c *Config) { c.DryRun = true })

	ds := &DataSet{
		Columns: []string{"TEMPLATE", "Name"},
		Rows:    []Row{{"TEMPLATE": "letter.docx", "Name": "Ana"}},
	}
	results, err := b.Run(ds)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].Status != StatusDryRun {
		t.Errorf("results[0].Status = %s, want %s", results[0].Status, StatusDryRun)
	}
	if engine.callCount() != 0 {
		t.Errorf("engine called %d times in dry-run, want 0", engine.callCount())
	}
	if _, err := os.Stat(results[0].Output); !os.IsNotExist(err) {
		t.Error("dry-run produced an output file")
	}
}

func TestBatchOutputSubdirectory(t *testing.T) {
	b, cfg, _ := newTestBatch(t, nil)

	ds := &DataSet{
		Columns: []string{"TEMPLATE", "Name", "OUTPUT"},
		Rows:    []Row{{"TEMPLATE": "letter.docx", "Name": "Ana", "OUTPUT": "madrid"}},
	}
	results, err := b.Run(ds)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].Status != StatusOK {
		t.Fatalf("results[0].Status = %s: %s", results[0].Status, results[0].Error)
	}
	want := filepath.Join(cfg.OutputDir, "madrid")
	if filepath.Dir(results[0].Output) != want {
		t.Errorf("output dir = %q, want %q", filepath.Dir(results[0].Output), want)
	}
	if _, err := os.Stat(results[0].Output); err != nil {
		t.Errorf("output PDF missing in subdirectory: %v", err)
	}
}

func TestBatchCustomPattern(t *testing.T) {
	b, _, _ := newTestBatch(t, func(c *Config) {
		c.FilenamePattern = "{Name}_{Ref}"
	})

	ds := &DataSet{
		Columns: []string{"TEMPLATE", "Name", "Ref"},
		Rows: []Row{
			{"TEMPLATE": "letter.docx", "Name": "Ana/Luz", "Ref": "X-1"},
		},
	}
	results, err := b.Run(ds)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// Unsafe characters are sanitized and the extension is forced.
	if base := filepath.Base(results[0].Output); base != "Ana_Luz_X-1.pdf" {
		t.Errorf("output name = %q, want sanitized name with .pdf", base)
	}
}

func TestBatchPatternMissingColumn(t *testing.T) {
	b, _, _ := newTestBatch(t, func(c *Config) {
		c.FilenamePattern = "{Nope}.pdf"
	})

	ds := &DataSet{
		Columns: []string{"TEMPLATE", "Name"},
		Rows:    []Row{{"TEMPLATE": "letter.docx", "Name": "Ana"}},
	}
	results, err := b.Run(ds)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if results[0].Status != StatusError {
		t.Errorf("results[0].Status = %s, want %s", results[0].Status, StatusError)
	}
}

func TestBatchStrictModeAborts(t *testing.T) {
	b, _, _ := newTestBatch(t, func(c *Config) { c.StrictMode = true })

	// The template references {{Name}} but the data has no Name column.
	ds := &DataSet{
		Columns: []string{"TEMPLATE"},
		Rows:    []Row{{"TEMPLATE": "letter.docx"}},
	}
	_, err := b.Run(ds)
	if err == nil {
		t.Fatal("Run() in strict mode with missing columns should fail")
	}
	if !strings.Contains(err.Error(), "Name") {
		t.Errorf("Run() error = %v, want it to name the missing column", err)
	}
}

func TestNewBatchRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine = "wordperfect"
	if _, err := NewBatch(cfg, &fakeEngine{}, nil, nil); err == nil {
		t.Error("NewBatch() with an invalid engine should fail")
	}

	cfg = DefaultConfig()
	cfg.ColumnFilters = map[string]string{"Amount": "sparkle"}
	if _, err := NewBatch(cfg, &fakeEngine{}, nil, nil); err == nil {
		t.Error("NewBatch() with an unknown column filter should fail")
	}
}

func TestBatchRowFailureIsolated(t *testing.T) {
	// The engine fails permanently, so every non-skipped row errors but the
	// batch itself completes.
	cfg := DefaultConfig()
	cfg.TemplateDir = t.TempDir()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Engine = "libreoffice"
	cfg.ExportRetries = 0
	writeTemplate(t, cfg.TemplateDir, "letter.docx",
		buildDocxBytes(t, docxRun("Dear {{Name}}"), nil))

	b, err := NewBatch(cfg, &fakeEngine{failN: 100}, nil, nil)
	if err != nil {
		t.Fatalf("NewBatch() error = %v", err)
	}
	defer b.Close()

	ds := &DataSet{
		Columns: []string{"TEMPLATE", "Name"},
		Rows: []Row{
			{"TEMPLATE": "letter.docx", "Name": "Ana"},
			{"TEMPLATE": "letter.docx", "Name": "Bob"},
		},
	}
	results, err := b.Run(ds)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for i, r := range results {
		if r.Status != StatusError {
			t.Errorf("results[%d].Status = %s, want %s", i, r.Status, StatusError)
		}
	}
}

func TestBatchCloseRemovesScratch(t *testing.T) {
	b, _, _ := newTestBatch(t, nil)
	scratch := b.scratch
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Error("Close() did not remove the scratch directory")
	}
	// Closing twice is fine.
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
