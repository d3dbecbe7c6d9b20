package officebatch

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Config contains all configuration options for a batch run
type Config struct {
	// TemplateDir is the directory containing template files
	TemplateDir string `yaml:"templateDir"`
	// DataPath is the input spreadsheet (xlsx or csv, chosen by extension)
	DataPath string `yaml:"data"`
	// OutputDir is where PDFs and reports are written
	OutputDir string `yaml:"outputDir"`
	// Sheet selects the Excel sheet by name or zero-based index (ignored for CSV)
	Sheet string `yaml:"sheet"`
	// FilenamePattern builds the output PDF name from row columns and {index}
	FilenamePattern string `yaml:"filenamePattern"`
	// DefaultTemplate is used when the TEMPLATE cell is empty (empty = error)
	DefaultTemplate string `yaml:"defaultTemplate"`
	// Engine selects the export engine: auto, libreoffice, msoffice
	Engine string `yaml:"engine"`
	// SofficeBin overrides the soffice binary path (empty = from PATH)
	SofficeBin string `yaml:"sofficeBin"`
	// PDFFilterOpts are LibreOffice PDF filter options (empty = defaults)
	PDFFilterOpts string `yaml:"pdfFilterOpts"`
	// ExportRetries is the number of retries on PDF export (total tries = retries+1)
	ExportRetries int `yaml:"exportRetries"`
	// ColumnFilters maps column names to filter names applied before plain substitution
	ColumnFilters map[string]string `yaml:"columnFilters"`
	// StrictMode aborts the batch if a template token has no matching column
	StrictMode bool `yaml:"strict"`
	// DryRun resolves and reports without generating PDFs
	DryRun bool `yaml:"dryRun"`
	// ScanMasters controls whether PPTX masters and layouts are scanned
	ScanMasters bool `yaml:"scanMasters"`
	// ScanHeadersFooters controls whether DOCX headers and footers are scanned
	ScanHeadersFooters bool `yaml:"scanHeadersFooters"`
	// LogLevel controls the verbosity of logging (debug, info, warn, error)
	LogLevel string `yaml:"logLevel"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TemplateDir:        "templates",
		DataPath:           "data.xlsx",
		OutputDir:          "out",
		FilenamePattern:    "{index} - {TEMPLATE}.pdf",
		Engine:             "auto",
		ExportRetries:      2,
		ScanMasters:        true,
		ScanHeadersFooters: true,
		LogLevel:           "info",
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("OFFICEBATCH_TEMPLATE_DIR"); val != "" {
		config.TemplateDir = val
	}
	if val := os.Getenv("OFFICEBATCH_OUTPUT_DIR"); val != "" {
		config.OutputDir = val
	}
	if val := os.Getenv("OFFICEBATCH_SOFFICE_BIN"); val != "" {
		config.SofficeBin = val
	}
	if val := os.Getenv("OFFICEBATCH_ENGINE"); val != "" {
		config.Engine = val
	}
	if val := os.Getenv("OFFICEBATCH_EXPORT_RETRIES"); val != "" {
		if retries, err := strconv.Atoi(val); err == nil {
			config.ExportRetries = retries
		}
	}
	if val := os.Getenv("OFFICEBATCH_STRICT_MODE"); val != "" {
		config.StrictMode = parseBool(val)
	}
	if val := os.Getenv("OFFICEBATCH_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	return config
}

// LoadConfigFile reads a YAML configuration file over the environment defaults
func LoadConfigFile(path string) (*Config, error) {
	config := ConfigFromEnvironment()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ExportRetries < 0 {
		return errors.New("export retries cannot be negative")
	}
	switch c.Engine {
	case "auto", "libreoffice", "msoffice":
	default:
		return fmt.Errorf("unknown export engine %q", c.Engine)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.FilenamePattern == "" {
		return errors.New("filename pattern cannot be empty")
	}
	for col, filter := range c.ColumnFilters {
		if _, ok := filterRegistry[filter]; !ok {
			return fmt.Errorf("column %q references unknown filter %q", col, filter)
		}
	}
	return nil
}

func parseBool(val string) bool {
	switch val {
	case "1", "true", "TRUE", "True", "yes", "YES", "Yes", "on", "ON", "On":
		return true
	default:
		return false
	}
}
