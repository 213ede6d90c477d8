package driver

import (
	"context"
	"strings"
	"testing"

	"github.com/Osso/refextract/internal/kb"
	"github.com/Osso/refextract/internal/layout"
	"github.com/Osso/refextract/internal/model"
)

const testJournals = `
Physical Review --- Phys. Rev.
`

func lineChars(text string, x, y, fontSize float64) []model.PositionedChar {
	var out []model.PositionedChar
	cx := x
	for _, r := range text {
		out = append(out, model.PositionedChar{Codepoint: r, X: cx, Y: y, Width: 6, Height: fontSize, FontSize: fontSize})
		cx += 6
	}
	return out
}

func loadTestKB(t *testing.T) *kb.KB {
	t.Helper()
	k, err := kb.Load(strings.NewReader(testJournals), strings.NewReader(""), strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	return k
}

// TestProcessDocumentEndToEnd builds one synthetic page containing a
// reference heading and two numbered references (one journal citation,
// one arXiv-only) and checks the full pipeline produces the expected
// structured output.
func TestProcessDocumentEndToEnd(t *testing.T) {
	var chars []model.PositionedChar
	chars = append(chars, lineChars("REFERENCES", 50, 700, 10)...)
	chars = append(chars, lineChars("[1] A. Smith, Phys. Rev. D31, 3059 (1985).", 50, 690, 10)...)
	chars = append(chars, lineChars("[2] B. Jones, arXiv:1203.45678.", 50, 680, 10)...)

	page := model.PageChars{PageNumber: 1, Width: 600, Height: 800, Chars: chars}
	provider := layout.StaticProvider{PagesData: []model.PageChars{page}}

	refs, err := ProcessDocument(context.Background(), provider, "doc.pdf", loadTestKB(t), Options{SkipDOILookup: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 parsed references, got %d: %+v", len(refs), refs)
	}

	first, second := refs[0], refs[1]
	if first.LineMarker != "1" {
		t.Errorf("first ref line_marker = %q, want 1", first.LineMarker)
	}
	if first.JournalTitle != "Phys. Rev. D" || first.JournalVolume != "31" {
		t.Errorf("unexpected first ref journal fields: %+v", first)
	}
	if second.LineMarker != "2" {
		t.Errorf("second ref line_marker = %q, want 2", second.LineMarker)
	}
	if second.ArxivId != "1203.45678" {
		t.Errorf("second ref arxiv_id = %q, want 1203.45678", second.ArxivId)
	}
}

func TestProcessDocumentEmptyDocumentIsNotAnError(t *testing.T) {
	provider := layout.StaticProvider{}
	refs, err := ProcessDocument(context.Background(), provider, "empty.pdf", loadTestKB(t), Options{SkipDOILookup: true})
	if err != nil {
		t.Fatalf("unexpected error on empty document: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected no references, got %+v", refs)
	}
}

type erroringProvider struct{}

func (erroringProvider) Pages(_ context.Context, _ string) (<-chan model.PageChars, error) {
	return nil, errTestProvider
}

var errTestProvider = errTest("boom")

type errTest string

func (e errTest) Error() string { return string(e) }

func TestProcessDocumentWrapsProviderError(t *testing.T) {
	_, err := ProcessDocument(context.Background(), erroringProvider{}, "x.pdf", loadTestKB(t), Options{})
	if err == nil {
		t.Fatal("expected an error from a failing char provider")
	}
}
