// Package officebatch renders office templates (DOCX/PPTX and legacy
// formats) to PDF in batch, filling {{TOKEN}} placeholders from a
// spreadsheet: one output document per data row.
//
// The pipeline per row is normalize -> substitute -> export:
//
//   - legacy templates (.doc, .ppt, .odt, .odp, .rtf) are converted once to
//     the canonical OOXML format and cached for the rest of the process;
//   - every text-bearing structural unit of the document (body paragraphs,
//     tables, headers/footers, slides, grouped shapes, masters/layouts,
//     speaker notes) is walked, tokens are evaluated against the row, and
//     changed paragraphs collapse to a single run styled like their first;
//   - the filled document is exported to PDF through the native office
//     application when available, with LibreOffice as the backstop and
//     bounded retries.
//
// Token syntax supports filters and defaults:
//
//	{{Name}}  {{Name|trim|upper}}  {{Amount|euros}}  {{Date|dmy}}  {{Field?:N/A}}
//
// Basic usage:
//
//	cfg := officebatch.DefaultConfig()
//	cfg.TemplateDir = "templates"
//	cfg.OutputDir = "out"
//
//	ds, err := officebatch.ReadDataFile("data.xlsx", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	batch, err := officebatch.NewBatch(cfg, officebatch.NewSofficeEngine(""), nil, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer batch.Close()
//
//	results, err := batch.Run(ds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	officebatch.WriteReports(cfg.OutputDir, results, nil)
package officebatch
