package officebatch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"negative retries", func(c *Config) { c.ExportRetries = -1 }, true},
		{"unknown engine", func(c *Config) { c.Engine = "wordperfect" }, true},
		{"msoffice engine", func(c *Config) { c.Engine = "msoffice" }, false},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"empty pattern", func(c *Config) { c.FilenamePattern = "" }, true},
		{"known column filter", func(c *Config) {
			c.ColumnFilters = map[string]string{"Amount": "euros"}
		}, false},
		{"unknown column filter", func(c *Config) {
			c.ColumnFilters = map[string]string{"Amount": "sparkle"}
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("OFFICEBATCH_TEMPLATE_DIR", "/srv/templates")
	t.Setenv("OFFICEBATCH_OUTPUT_DIR", "/srv/out")
	t.Setenv("OFFICEBATCH_ENGINE", "libreoffice")
	t.Setenv("OFFICEBATCH_EXPORT_RETRIES", "5")
	t.Setenv("OFFICEBATCH_STRICT_MODE", "true")

	cfg := ConfigFromEnvironment()
	if cfg.TemplateDir != "/srv/templates" {
		t.Errorf("TemplateDir = %q", cfg.TemplateDir)
	}
	if cfg.OutputDir != "/srv/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Engine != "libreoffice" {
		t.Errorf("Engine = %q", cfg.Engine)
	}
	if cfg.ExportRetries != 5 {
		t.Errorf("ExportRetries = %d", cfg.ExportRetries)
	}
	if !cfg.StrictMode {
		t.Error("StrictMode = false, want true")
	}
}

func TestConfigFromEnvironmentBadRetries(t *testing.T) {
	t.Setenv("OFFICEBATCH_EXPORT_RETRIES", "many")
	cfg := ConfigFromEnvironment()
	if cfg.ExportRetries != DefaultConfig().ExportRetries {
		t.Errorf("ExportRetries = %d, want the default on a bad value", cfg.ExportRetries)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "officebatch.yaml")
	content := `
templateDir: plantillas
outputDir: salida
filenamePattern: "{Name}.pdf"
engine: libreoffice
exportRetries: 1
strict: true
columnFilters:
  Amount: euros
  Date: dmy
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}
	if cfg.TemplateDir != "plantillas" {
		t.Errorf("TemplateDir = %q", cfg.TemplateDir)
	}
	if cfg.FilenamePattern != "{Name}.pdf" {
		t.Errorf("FilenamePattern = %q", cfg.FilenamePattern)
	}
	if !cfg.StrictMode {
		t.Error("StrictMode = false, want true")
	}
	if cfg.ColumnFilters["Amount"] != "euros" || cfg.ColumnFilters["Date"] != "dmy" {
		t.Errorf("ColumnFilters = %v", cfg.ColumnFilters)
	}
	// Unset keys keep their defaults.
	if !cfg.ScanMasters {
		t.Error("ScanMasters lost its default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config does not validate: %v", err)
	}
}

func TestLoadConfigFileMissing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfigFile() on a missing file should fail")
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("templateDir: [unclosed"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("LoadConfigFile() on invalid YAML should fail")
	}
}
