package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/nicolauroca/officebatch/pkg/officebatch"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if flags.version {
		fmt.Println(Version)
		return
	}

	// Container-aware GOMAXPROCS; the runtime default applies if the env is
	// invalid, so the error can be ignored.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	if err := run(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(flags *cliFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	if flags.verbose {
		cfg.LogLevel = "debug"
	}
	logger := officebatch.NewLogger(os.Stderr, parseLevel(cfg.LogLevel))
	officebatch.SetLogger(logger)

	engine := officebatch.NewSofficeEngine(cfg.SofficeBin)

	if flags.check {
		return checkEnvironment(engine, logger)
	}

	var channel officebatch.AutomationChannel
	if cfg.Engine == "auto" || cfg.Engine == "msoffice" {
		channel = officebatch.DetectAutomation(logger)
		if channel != nil {
			defer channel.Close()
		}
	}

	ds, err := officebatch.ReadDataFile(cfg.DataPath, cfg.Sheet)
	if err != nil {
		return err
	}
	ds = officebatch.FilterRows(ds, officebatch.RowRange{From: flags.from, To: flags.to}, flags.where, logger)

	batch, err := officebatch.NewBatch(cfg, engine, channel, logger)
	if err != nil {
		return err
	}
	defer batch.Close()

	results, err := batch.Run(ds)
	if err != nil {
		return err
	}

	officebatch.WriteReports(cfg.OutputDir, results, logger)
	logger.Info("done: %d rows processed", len(results))
	return nil
}

// loadConfig merges defaults, environment, the optional YAML file and the
// explicitly set command-line flags, in that order.
func loadConfig(flags *cliFlags) (*officebatch.Config, error) {
	var cfg *officebatch.Config
	var err error
	if flags.config != "" {
		cfg, err = officebatch.LoadConfigFile(flags.config)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = officebatch.ConfigFromEnvironment()
	}

	if flags.set["data"] {
		cfg.DataPath = flags.data
	}
	if flags.set["outdir"] {
		cfg.OutputDir = flags.outdir
	}
	if flags.set["templates"] {
		cfg.TemplateDir = flags.templates
	}
	if flags.set["sheet"] {
		cfg.Sheet = flags.sheet
	}
	if flags.set["pattern"] {
		cfg.FilenamePattern = flags.pattern
	}
	if flags.set["engine"] {
		cfg.Engine = flags.engine
	}
	if flags.set["strict"] {
		cfg.StrictMode = flags.strict
	}
	if flags.set["dry-run"] {
		cfg.DryRun = flags.dryRun
	}
	if flags.set["pdf-filter-opts"] {
		cfg.PDFFilterOpts = flags.pdfFilterOpts
	}
	if flags.set["retries"] {
		cfg.ExportRetries = flags.retries
	}
	return cfg, nil
}

func parseLevel(level string) officebatch.LogLevel {
	switch level {
	case "debug":
		return officebatch.LogDebug
	case "warn":
		return officebatch.LogWarn
	case "error":
		return officebatch.LogError
	case "off":
		return officebatch.LogOff
	default:
		return officebatch.LogInfo
	}
}

// checkEnvironment probes the conversion engine and the automation channel
// and reports what a batch run would have available.
func checkEnvironment(engine *officebatch.SofficeEngine, logger *officebatch.Logger) error {
	if banner, err := engine.Probe(); err != nil {
		logger.Warn("LibreOffice: NOT FOUND (%v)", err)
	} else {
		logger.Info("LibreOffice: OK (%s)", banner)
	}

	if channel := officebatch.DetectAutomation(logger); channel != nil {
		defer channel.Close()
		logger.Info("native automation: word=%v powerpoint=%v",
			channel.Ready(officebatch.KindDocx), channel.Ready(officebatch.KindPptx))
	} else {
		logger.Info("native automation: unavailable")
	}
	return nil
}
