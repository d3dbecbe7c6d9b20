//go:build windows

package officebatch

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// officeAutomation drives Word and PowerPoint through COM via one-shot
// PowerShell invocations. Each export opens the application, saves as PDF and
// quits, so Close has nothing to tear down beyond the probe state.
type officeAutomation struct {
	wordReady bool
	pptReady  bool
	logger    *Logger
}

// DetectAutomation probes for installed Word and PowerPoint COM servers.
// Returns nil when neither is available.
func DetectAutomation(logger *Logger) AutomationChannel {
	ch := &officeAutomation{
		wordReady: probeCOM("Word.Application"),
		pptReady:  probeCOM("PowerPoint.Application"),
		logger:    logger,
	}
	if !ch.wordReady && !ch.pptReady {
		return nil
	}
	logger.Debug("office automation available: word=%v powerpoint=%v", ch.wordReady, ch.pptReady)
	return ch
}

func probeCOM(progID string) bool {
	script := fmt.Sprintf(
		`$app = New-Object -ComObject %s; $app.Quit(); exit 0`, progID)
	return runPowerShell(script) == nil
}

func (c *officeAutomation) Ready(kind Kind) bool {
	if kind == KindPptx {
		return c.pptReady
	}
	return c.wordReady
}

// ExportPDF exports through Word (wdExportFormatPDF = 17) or PowerPoint
// (ppSaveAsPDF = 32) depending on the input extension.
func (c *officeAutomation) ExportPDF(inputPath, outputPath string) (bool, error) {
	in, err := filepath.Abs(inputPath)
	if err != nil {
		return false, err
	}
	out, err := filepath.Abs(outputPath)
	if err != nil {
		return false, err
	}

	var script string
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".docx":
		if !c.wordReady {
			return false, nil
		}
		script = fmt.Sprintf(`$word = New-Object -ComObject Word.Application
$word.Visible = $false
$doc = $word.Documents.Open(%q)
$doc.SaveAs(%q, 17)
$doc.Close($false)
$word.Quit()`, in, out)
	case ".pptx":
		if !c.pptReady {
			return false, nil
		}
		script = fmt.Sprintf(`$ppt = New-Object -ComObject PowerPoint.Application
$pres = $ppt.Presentations.Open(%q, $true, $true, $false)
$pres.SaveAs(%q, 32)
$pres.Close()
$ppt.Quit()`, in, out)
	default:
		return false, nil
	}

	if err := runPowerShell(script); err != nil {
		return true, err
	}
	return true, nil
}

func (c *officeAutomation) Close() error {
	return nil
}

func runPowerShell(script string) error {
	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("powershell automation failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
