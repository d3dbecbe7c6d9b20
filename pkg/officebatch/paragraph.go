package officebatch

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XML namespaces of the two canonical document kinds. DOCX paragraphs live in
// the WordprocessingML namespace; PPTX text (slides, masters, layouts, notes,
// tables inside graphic frames, grouped shapes) lives in DrawingML.
const (
	nsWordprocessingML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsDrawingML        = "http://schemas.openxmlformats.org/drawingml/2006/main"
)

// paragraphNamespace returns the namespace whose p elements carry text for
// the given document kind.
func paragraphNamespace(kind Kind) string {
	if kind == KindPptx {
		return nsDrawingML
	}
	return nsWordprocessingML
}

// runSpan locates one run element inside a part, together with the raw bytes
// of its property element and its decoded text.
type runSpan struct {
	start, end int64  // byte range of the whole run element
	tag        string // element name as written, e.g. "w:r" or "a:r"
	props      []byte // raw rPr element, nil if the run has none
	text       string // concatenated content of the run's text elements
}

// paragraphSpan locates one paragraph element and its direct runs.
type paragraphSpan struct {
	start, end int64
	runs       []runSpan
}

// text returns the paragraph's visible text: the concatenation of all run
// texts in order.
func (p *paragraphSpan) text() string {
	var b strings.Builder
	for _, r := range p.runs {
		b.WriteString(r.text)
	}
	return b.String()
}

// scanParagraphs walks a part's XML and locates every paragraph element in
// the given namespace, recording byte ranges for the paragraph, its direct
// run children and each run's property element. Byte ranges let the caller
// splice rewritten paragraphs into the raw part without re-serializing
// anything it did not touch.
func scanParagraphs(data []byte, ns string) ([]paragraphSpan, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var paras []paragraphSpan
	var para *paragraphSpan
	var run *runSpan
	var runText strings.Builder

	depth := 0
	paraDepth := -1
	runDepth := -1
	propsStart := int64(-1)
	inText := false

	for {
		tokStart := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan part: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Space != ns {
				continue
			}
			switch t.Name.Local {
			case "p":
				if para == nil {
					para = &paragraphSpan{start: tokStart}
					paraDepth = depth
				}
			case "r":
				if para != nil && run == nil && depth == paraDepth+1 {
					run = &runSpan{start: tokStart, tag: rawTagName(data[tokStart:])}
					runDepth = depth
					runText.Reset()
				}
			case "rPr":
				if run != nil && depth == runDepth+1 {
					propsStart = tokStart
				}
			case "t":
				if run != nil {
					inText = true
				}
			}

		case xml.EndElement:
			if t.Name.Space == ns {
				switch t.Name.Local {
				case "rPr":
					if run != nil && propsStart >= 0 && depth == runDepth+1 {
						run.props = data[propsStart:dec.InputOffset()]
						propsStart = -1
					}
				case "t":
					inText = false
				case "r":
					if run != nil && depth == runDepth {
						run.end = dec.InputOffset()
						run.text = runText.String()
						para.runs = append(para.runs, *run)
						run = nil
					}
				case "p":
					if para != nil && depth == paraDepth {
						para.end = dec.InputOffset()
						paras = append(paras, *para)
						para = nil
					}
				}
			}
			depth--

		case xml.CharData:
			if inText {
				runText.Write(t)
			}
		}
	}

	return paras, nil
}

// rawTagName reads the element name as written from the raw bytes of a start
// tag, e.g. "<w:r w:rsidR=...>" yields "w:r". The name is reused when the
// consolidated run is rebuilt so the original namespace prefix is kept.
func rawTagName(tag []byte) string {
	end := 1
	for end < len(tag) {
		c := tag[end]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '>' || c == '/' {
			break
		}
		end++
	}
	return string(tag[1:end])
}

// buildRun renders the single consolidated run for a rewritten paragraph:
// the first run's property element verbatim, followed by one text element
// holding the full replacement text.
func buildRun(first runSpan, text string, kind Kind) []byte {
	var b bytes.Buffer
	b.WriteByte('<')
	b.WriteString(first.tag)
	b.WriteByte('>')
	b.Write(first.props)

	textTag := first.tag[:len(first.tag)-1] + "t"
	b.WriteByte('<')
	b.WriteString(textTag)
	if kind == KindDocx {
		// Leading or trailing spaces in replaced values must survive Word's
		// whitespace collapsing.
		b.WriteString(` xml:space="preserve"`)
	}
	b.WriteByte('>')
	_ = xml.EscapeText(&b, []byte(text))
	b.WriteString("</")
	b.WriteString(textTag)
	b.WriteByte('>')

	b.WriteString("</")
	b.WriteString(first.tag)
	b.WriteByte('>')
	return b.Bytes()
}

// substitutePart applies a text replacement function to every paragraph of a
// part. Paragraphs whose text is unchanged are left byte-identical. A changed
// paragraph collapses to a single run carrying the first run's properties;
// non-run children (paragraph properties, bookmarks, hyperlinks, end-of-
// paragraph properties) are preserved in place.
// Returns the new part content, the number of changed paragraphs.
func substitutePart(data []byte, kind Kind, replace func(text string) (string, bool)) ([]byte, int, error) {
	paras, err := scanParagraphs(data, paragraphNamespace(kind))
	if err != nil {
		return nil, 0, err
	}

	var out bytes.Buffer
	pos := int64(0)
	changed := 0

	for _, para := range paras {
		if len(para.runs) == 0 {
			continue
		}
		text := para.text()
		if text == "" {
			continue
		}
		newText, ok := replace(text)
		if !ok {
			continue
		}
		changed++

		first := para.runs[0]
		out.Write(data[pos:first.start])
		out.Write(buildRun(first, newText, kind))
		pos = first.end
		for _, r := range para.runs[1:] {
			out.Write(data[pos:r.start])
			pos = r.end
		}
	}

	if changed == 0 {
		return data, 0, nil
	}
	out.Write(data[pos:])
	return out.Bytes(), changed, nil
}

// collectPartTokens extracts all token expressions found in a part's
// paragraphs without mutating anything.
func collectPartTokens(data []byte, kind Kind, found map[string]struct{}) error {
	paras, err := scanParagraphs(data, paragraphNamespace(kind))
	if err != nil {
		return err
	}
	for _, para := range paras {
		for _, expr := range discoverTokens(para.text()) {
			found[expr] = struct{}{}
		}
	}
	return nil
}
