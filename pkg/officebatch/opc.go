package officebatch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
)

// Kind identifies one of the two canonical document kinds.
type Kind int

const (
	KindDocx Kind = iota
	KindPptx
)

func (k Kind) String() string {
	switch k {
	case KindDocx:
		return "docx"
	case KindPptx:
		return "pptx"
	default:
		return "unknown"
	}
}

// Ext returns the canonical file extension for the kind.
func (k Kind) Ext() string {
	if k == KindPptx {
		return ".pptx"
	}
	return ".docx"
}

// DocumentPackage is an OPC (zip) container holding a canonical document.
// Parts are kept as raw bytes; substitution rewrites individual parts and
// Save repacks the zip preserving every untouched part verbatim.
type DocumentPackage struct {
	kind     Kind
	names    []string          // zip entry order
	parts    map[string][]byte // part name -> content
	modified map[string][]byte // parts rewritten by substitution
}

// OpenDocument reads a canonical document (.docx or .pptx) from disk.
func OpenDocument(path string) (*DocumentPackage, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read", path, err)
	}
	return NewDocumentPackage(bytes.NewReader(content), int64(len(content)))
}

// NewDocumentPackage parses an OPC container from a reader.
func NewDocumentPackage(r io.ReaderAt, size int64) (*DocumentPackage, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	p := &DocumentPackage{
		parts:    make(map[string][]byte, len(zipReader.File)),
		modified: make(map[string][]byte),
	}

	for _, file := range zipReader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open part %s: %w", file.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", file.Name, err)
		}
		p.names = append(p.names, file.Name)
		p.parts[file.Name] = content
	}

	switch {
	case p.hasPart("word/document.xml"):
		p.kind = KindDocx
	case p.hasPart("ppt/presentation.xml"):
		p.kind = KindPptx
	default:
		return nil, fmt.Errorf("not a valid OOXML document: missing word/document.xml and ppt/presentation.xml")
	}

	return p, nil
}

// Kind returns the document kind of the package.
func (p *DocumentPackage) Kind() Kind {
	return p.kind
}

func (p *DocumentPackage) hasPart(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// Part returns the current content of a part, preferring rewritten content.
func (p *DocumentPackage) Part(name string) ([]byte, bool) {
	if content, ok := p.modified[name]; ok {
		return content, true
	}
	content, ok := p.parts[name]
	return content, ok
}

// setPart records rewritten content for a part.
func (p *DocumentPackage) setPart(name string, content []byte) {
	p.modified[name] = content
}

var (
	docxHeaderRegex = regexp.MustCompile(`^word/header(\d+)\.xml$`)
	docxFooterRegex = regexp.MustCompile(`^word/footer(\d+)\.xml$`)
	pptxMasterRegex = regexp.MustCompile(`^ppt/slideMasters/slideMaster(\d+)\.xml$`)
	pptxLayoutRegex = regexp.MustCompile(`^ppt/slideLayouts/slideLayout(\d+)\.xml$`)
	pptxSlideRegex  = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	pptxNotesRegex  = regexp.MustCompile(`^ppt/notesSlides/notesSlide(\d+)\.xml$`)
)

// TextParts enumerates the text-bearing parts of the document in the fixed
// visiting order: masters/layouts (pptx, optional), body content, then
// headers/footers (docx, optional) or slides and speaker notes (pptx).
// Optional regions that are absent are simply not listed.
func (p *DocumentPackage) TextParts(scanOptional bool) []string {
	var names []string
	switch p.kind {
	case KindDocx:
		names = append(names, "word/document.xml")
		if scanOptional {
			names = append(names, p.partsMatching(docxHeaderRegex)...)
			names = append(names, p.partsMatching(docxFooterRegex)...)
		}
	case KindPptx:
		if scanOptional {
			names = append(names, p.partsMatching(pptxMasterRegex)...)
			names = append(names, p.partsMatching(pptxLayoutRegex)...)
		}
		names = append(names, p.partsMatching(pptxSlideRegex)...)
		names = append(names, p.partsMatching(pptxNotesRegex)...)
	}
	return names
}

// partsMatching returns the part names matching the pattern, sorted by the
// numeric suffix the pattern captures.
func (p *DocumentPackage) partsMatching(pattern *regexp.Regexp) []string {
	type numbered struct {
		name string
		n    int
	}
	var found []numbered
	for name := range p.parts {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, numbered{name: name, n: n})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.name
	}
	return names
}

// Save writes the package to disk, copying untouched parts verbatim and
// substituting rewritten ones.
func (p *DocumentPackage) Save(path string) error {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, name := range p.names {
		fw, err := w.Create(name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		content, _ := p.Part(name)
		if _, err := fw.Write(content); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close zip writer: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return NewDocumentError("write", path, err)
	}
	return nil
}
