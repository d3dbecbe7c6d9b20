package officebatch

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
)

// Report filenames written into the output directory.
const (
	ReportJSONName = "_report.json"
	ReportCSVName  = "_report.csv"
)

// WriteReports writes the ordered result log as JSON and CSV into the output
// directory. Report failures are warnings, never batch failures.
func WriteReports(outputDir string, results []Result, logger *Logger) {
	if logger == nil {
		logger = GetLogger()
	}

	jsonPath := filepath.Join(outputDir, ReportJSONName)
	if err := writeJSONReport(jsonPath, results); err != nil {
		logger.Warn("could not write JSON report: %v", err)
	} else {
		logger.Info("report saved to %s", jsonPath)
	}

	csvPath := filepath.Join(outputDir, ReportCSVName)
	if err := writeCSVReport(csvPath, results); err != nil {
		logger.Warn("could not write CSV report: %v", err)
	} else {
		logger.Info("report saved to %s", csvPath)
	}
}

func writeJSONReport(path string, results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCSVReport(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"row", "status", "template", "output", "bytes", "error"}); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			strconv.Itoa(r.Row),
			string(r.Status),
			r.Template,
			r.Output,
			strconv.FormatInt(r.Bytes, 10),
			r.Error,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
