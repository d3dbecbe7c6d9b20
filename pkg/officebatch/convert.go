package officebatch

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ConversionEngine transcodes documents between formats. The production
// implementation shells out to LibreOffice; tests substitute fakes.
type ConversionEngine interface {
	// Convert transcodes inputPath into outDir targeting the given format
	// (e.g. "pdf", "docx", "pptx"), optionally with engine filter options.
	// It returns the path of the produced file and fails if the engine exits
	// non-zero or the expected output does not appear.
	Convert(inputPath, outDir, target, filterOpts string) (string, error)

	// Probe checks whether the engine is operational, returning its version
	// banner.
	Probe() (string, error)
}

// SofficeEngine invokes the LibreOffice command line for conversions.
type SofficeEngine struct {
	// Bin is the soffice binary; empty means "soffice" from PATH.
	Bin string
}

// NewSofficeEngine creates a LibreOffice conversion engine.
func NewSofficeEngine(bin string) *SofficeEngine {
	return &SofficeEngine{Bin: bin}
}

func (e *SofficeEngine) command() string {
	if e.Bin != "" {
		return e.Bin
	}
	return "soffice"
}

// Convert runs soffice --headless --convert-to. Argument order matters:
// --convert-to must come before --outdir, and the input file last.
func (e *SofficeEngine) Convert(inputPath, outDir, target, filterOpts string) (string, error) {
	conv := target
	if filterOpts != "" {
		conv = target + ":" + filterOpts
	}

	cmd := exec.Command(e.command(),
		"--headless",
		"--convert-to", conv,
		"--outdir", outDir,
		inputPath,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		diag := stdout.String()
		if stderr.Len() > 0 {
			diag += "\n" + stderr.String()
		}
		return "", NewConversionError(strings.Join(cmd.Args, " "), diag, err)
	}

	produced := filepath.Join(outDir, producedName(inputPath, target))
	if _, err := os.Stat(produced); err != nil {
		return "", NewMissingArtifactError(produced)
	}
	return produced, nil
}

// Probe runs soffice --version.
func (e *SofficeEngine) Probe() (string, error) {
	cmd := exec.Command(e.command(), "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return strings.TrimSpace(out.String()), err
	}
	return strings.TrimSpace(out.String()), nil
}

// producedName derives the filename soffice writes for an input and target
// format: the input stem plus the target extension. A filter suffix on the
// target ("pdf:writer_pdf_Export") does not affect the extension.
func producedName(inputPath, target string) string {
	ext, _, _ := strings.Cut(target, ":")
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return stem + "." + ext
}
