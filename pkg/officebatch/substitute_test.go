package officebatch

import (
	"bytes"
	"reflect"
	"testing"
)

func TestSubstituteVisitsAllParts(t *testing.T) {
	data := buildDocxBytes(t, docxRun("Dear {{NAME}}"), map[string]string{
		"word/header1.xml": docxBody(docxRun("Ref {{REF}}")),
		"word/footer1.xml": docxBody(docxRun("Page footer {{NAME}}")),
	})
	p := openPackage(t, data)

	row := Row{"NAME": "Bob", "REF": "X-42"}
	changed, err := p.Substitute(row, row.FastMap(nil), true)
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if changed != 3 {
		t.Errorf("Substitute() changed %d units, want 3", changed)
	}

	header, _ := p.Part("word/header1.xml")
	if !bytes.Contains(header, []byte("Ref X-42")) {
		t.Errorf("header was not substituted:\n%s", header)
	}
	footer, _ := p.Part("word/footer1.xml")
	if !bytes.Contains(footer, []byte("Page footer Bob")) {
		t.Errorf("footer was not substituted:\n%s", footer)
	}
}

func TestSubstituteSkipsOptionalParts(t *testing.T) {
	data := buildDocxBytes(t, docxRun("Dear {{NAME}}"), map[string]string{
		"word/header1.xml": docxBody(docxRun("Ref {{REF}}")),
	})
	p := openPackage(t, data)

	row := Row{"NAME": "Bob", "REF": "X-42"}
	changed, err := p.Substitute(row, row.FastMap(nil), false)
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if changed != 1 {
		t.Errorf("Substitute() changed %d units, want 1 (body only)", changed)
	}
	header, _ := p.Part("word/header1.xml")
	if !bytes.Contains(header, []byte("{{REF}}")) {
		t.Error("header token was substituted despite optional scan being off")
	}
}

func TestSubstitutePptxSlidesAndNotes(t *testing.T) {
	data := buildPptxBytes(t, []string{pptxRun("{{TITLE}}"), pptxRun("fixed")}, map[string]string{
		"ppt/notesSlides/notesSlide1.xml": pptxSlide(pptxRun("note for {{TITLE}}")),
	})
	p := openPackage(t, data)

	row := Row{"TITLE": "Q3 Review"}
	changed, err := p.Substitute(row, row.FastMap(nil), false)
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if changed != 2 {
		t.Errorf("Substitute() changed %d units, want 2", changed)
	}
	notes, _ := p.Part("ppt/notesSlides/notesSlide1.xml")
	if !bytes.Contains(notes, []byte("note for Q3 Review")) {
		t.Errorf("speaker notes were not substituted:\n%s", notes)
	}
	slide2, _ := p.Part("ppt/slides/slide2.xml")
	if !bytes.Equal(slide2, []byte(pptxSlide(pptxRun("fixed")))) {
		t.Error("slide without tokens was modified")
	}
}

func TestDocumentDiscoverTokens(t *testing.T) {
	data := buildDocxBytes(t, docxRun("{{A}} and {{B|upper}}")+docxRun("{{A}} again"), map[string]string{
		"word/header1.xml": docxBody(docxRun("{{C?:none}}")),
	})
	p := openPackage(t, data)

	found, err := p.DiscoverTokens(true)
	if err != nil {
		t.Fatalf("DiscoverTokens() error = %v", err)
	}
	got := sortedKeys(found)
	want := []string{"A", "B|upper", "C?:none"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiscoverTokens() = %v, want %v", got, want)
	}
}
