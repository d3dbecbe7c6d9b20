package officebatch

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// EngineChoice selects how a filled document is exported to PDF.
type EngineChoice int

const (
	// EngineAuto prefers the native-application channel when it is ready,
	// falling back to the conversion engine.
	EngineAuto EngineChoice = iota
	// EngineLibreOffice exports through the conversion engine only.
	EngineLibreOffice
	// EngineMSOffice prefers the native-application channel; the conversion
	// engine remains the backstop when the channel is absent or fails.
	EngineMSOffice
)

// ParseEngineChoice parses an engine name from configuration.
func ParseEngineChoice(s string) (EngineChoice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EngineAuto, nil
	case "libreoffice":
		return EngineLibreOffice, nil
	case "msoffice":
		return EngineMSOffice, nil
	}
	return EngineAuto, NewResolveError("", "unknown export engine: "+s)
}

// Exporter converts a filled canonical document into the fixed-layout output,
// choosing between the automation channel and the conversion engine with
// bounded retries.
type Exporter struct {
	engine     ConversionEngine
	channel    AutomationChannel // nil when no channel is available
	choice     EngineChoice
	retries    int
	filterOpts string
	scratch    string
	logger     *Logger
}

// NewExporter creates an exporter. channel may be nil.
func NewExporter(engine ConversionEngine, channel AutomationChannel, choice EngineChoice, retries int, filterOpts, scratch string, logger *Logger) *Exporter {
	if logger == nil {
		logger = GetLogger()
	}
	return &Exporter{
		engine:     engine,
		channel:    channel,
		choice:     choice,
		retries:    retries,
		filterOpts: filterOpts,
		scratch:    scratch,
		logger:     logger,
	}
}

// exportState is one step of the export state machine. Expressing the
// retry/fallback contract as explicit states keeps it independently testable.
type exportState int

const (
	exportTryAutomation exportState = iota
	exportTryConversion
	exportSucceeded
	exportFailed
)

// Export writes the fixed-layout artifact for inputPath to outputPath.
// The conversion-engine path is the backstop for every engine choice; it is
// attempted up to retries+1 times, and only the final attempt's failure is
// surfaced. Prior failures are logged as warnings.
func (e *Exporter) Export(inputPath, outputPath string) error {
	state := exportTryConversion
	if e.choice == EngineAuto || e.choice == EngineMSOffice {
		state = exportTryAutomation
	}

	attempt := 0
	var lastErr error

	for {
		switch state {
		case exportTryAutomation:
			if e.tryAutomation(inputPath, outputPath) {
				state = exportSucceeded
			} else {
				state = exportTryConversion
			}

		case exportTryConversion:
			attempt++
			if err := e.convertOnce(inputPath, outputPath); err != nil {
				lastErr = err
				if attempt >= e.retries+1 {
					state = exportFailed
				} else {
					e.logger.Warn("PDF export attempt %d failed: %v", attempt, err)
				}
			} else {
				state = exportSucceeded
			}

		case exportSucceeded:
			return nil

		case exportFailed:
			return NewExportError(inputPath, attempt, lastErr)
		}
	}
}

// tryAutomation attempts the native-application channel. Any failure falls
// through to the conversion engine rather than propagating.
func (e *Exporter) tryAutomation(inputPath, outputPath string) bool {
	if e.channel == nil {
		return false
	}
	kind, ok := KindForExtension(filepath.Ext(inputPath))
	if !ok || !e.channel.Ready(kind) {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		e.logger.Warn("cannot create output directory: %v", err)
		return false
	}
	supported, err := e.channel.ExportPDF(inputPath, outputPath)
	if !supported {
		return false
	}
	if err != nil {
		e.logger.Warn("native-application export failed: %v", err)
		return false
	}
	return true
}

// convertOnce runs one conversion-engine export into an isolated scratch
// directory, then promotes the artifact to the destination. Partial output
// never appears at the destination path.
func (e *Exporter) convertOnce(inputPath, outputPath string) error {
	tmpDir, err := os.MkdirTemp(e.scratch, "export-*")
	if err != nil {
		return NewDocumentError("scratch", e.scratch, err)
	}
	defer os.RemoveAll(tmpDir)

	produced, err := e.engine.Convert(inputPath, tmpDir, "pdf", e.filterOpts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return NewDocumentError("mkdir", filepath.Dir(outputPath), err)
	}
	return moveFile(produced, outputPath)
}

// moveFile renames src to dst, copying across filesystems when rename fails.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return NewDocumentError("move", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return NewDocumentError("move", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return NewDocumentError("move", dst, err)
	}
	if err := out.Close(); err != nil {
		return NewDocumentError("move", dst, err)
	}
	return os.Remove(src)
}
