package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// cliFlags holds every command-line override. Values default to sentinels so
// only flags the user actually set override the configuration file.
type cliFlags struct {
	config string

	data      string
	outdir    string
	templates string
	sheet     string
	pattern   string
	engine    string

	strict        bool
	dryRun        bool
	pdfFilterOpts string
	retries       int

	from  int
	to    int
	where string

	verbose bool
	version bool
	check   bool

	set map[string]bool // flag name -> explicitly set
}

func parseFlags(args []string) (*cliFlags, error) {
	fs := flag.NewFlagSet("officebatch", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.config, "config", "c", "", "YAML configuration file")
	fs.StringVar(&f.data, "data", "", "input XLSX/CSV path")
	fs.StringVar(&f.outdir, "outdir", "", "output directory")
	fs.StringVar(&f.templates, "templates", "", "templates directory")
	fs.StringVar(&f.sheet, "sheet", "", "Excel sheet name or index (ignored for CSV)")
	fs.StringVar(&f.pattern, "pattern", "", "output filename pattern, e.g. \"{ID}_{Name}.pdf\"")
	fs.StringVar(&f.engine, "engine", "", "export engine: auto, libreoffice, msoffice")
	fs.BoolVar(&f.strict, "strict", false, "fail if any template token has no matching column")
	fs.BoolVar(&f.dryRun, "dry-run", false, "resolve and report without generating PDFs")
	fs.StringVar(&f.pdfFilterOpts, "pdf-filter-opts", "", "LibreOffice PDF filter options")
	fs.IntVar(&f.retries, "retries", -1, "PDF export retries on failure")
	fs.IntVar(&f.from, "from", -1, "start row, inclusive")
	fs.IntVar(&f.to, "to", -1, "end row, inclusive")
	fs.StringVar(&f.where, "where", "", "row filter expression, e.g. 'Curso == \"A\"'")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose logging")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.BoolVar(&f.check, "check", false, "check environment and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Batch office templating ({{TOKENS}}) to PDF.\n\nUsage:\n  officebatch [flags]\n\nFlags:\n%s", fs.FlagUsages())
	}

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})
	return f, nil
}
