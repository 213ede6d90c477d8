package parse

import (
	"strings"
	"testing"

	"github.com/Osso/refextract/internal/kb"
	"github.com/Osso/refextract/internal/model"
	"github.com/Osso/refextract/internal/tokenizer"
)

const testJournals = `
Physical Review --- Phys. Rev.
Journal of High Energy Physics --- JHEP
`

func newTestTokenizer(t *testing.T) *tokenizer.Tokenizer {
	t.Helper()
	j, err := kb.LoadJournals(strings.NewReader(testJournals))
	if err != nil {
		t.Fatal(err)
	}
	return tokenizer.New(nil, j, nil)
}

func tokenize(t *testing.T, ref model.RawReference) []model.Token {
	t.Helper()
	return newTestTokenizer(t).Tokenize(ref)
}

func TestParseJournalNumerationAuthorsAndTitle(t *testing.T) {
	ref := model.RawReference{
		Text:       `A. Smith, "A Great Title," Phys. Rev. D31, 3059 (1985).`,
		LineMarker: "5",
		Source:     model.SourceReferenceSection,
	}
	refs := Reference(ref, tokenize(t, ref))
	if len(refs) == 0 {
		t.Fatalf("expected at least one parsed reference")
	}
	primary := refs[0]

	if primary.JournalTitle != "Phys. Rev. D" {
		t.Errorf("journal_title = %q, want %q", primary.JournalTitle, "Phys. Rev. D")
	}
	if primary.JournalVolume != "31" {
		t.Errorf("journal_volume = %q, want 31", primary.JournalVolume)
	}
	if primary.JournalPage != "3059" {
		t.Errorf("journal_page = %q, want 3059", primary.JournalPage)
	}
	if primary.JournalYear != "1985" {
		t.Errorf("journal_year = %q, want 1985", primary.JournalYear)
	}
	if primary.Authors != "A Smith" {
		t.Errorf("authors = %q, want %q", primary.Authors, "A Smith")
	}
	if primary.Title != "A Great Title," {
		t.Errorf("title = %q, want %q", primary.Title, "A Great Title,")
	}
	if primary.LineMarker != "5" {
		t.Errorf("line_marker = %q, want 5", primary.LineMarker)
	}
}

func TestParseStandaloneIbidPlaceholder(t *testing.T) {
	ref := model.RawReference{
		Text:       "Ibid. 82 (2010) 15.",
		LineMarker: "6",
		Source:     model.SourceReferenceSection,
	}
	refs := Reference(ref, tokenize(t, ref))
	primary := refs[0]

	if primary.JournalTitle != model.IbidPlaceholder {
		t.Fatalf("journal_title = %q, want ibid placeholder", primary.JournalTitle)
	}
	if primary.JournalVolume != "82" {
		t.Errorf("journal_volume = %q, want 82", primary.JournalVolume)
	}
	if primary.JournalPage != "15" {
		t.Errorf("journal_page = %q, want 15", primary.JournalPage)
	}
	if primary.JournalYear != "2010" {
		t.Errorf("journal_year = %q, want 2010", primary.JournalYear)
	}
}

func TestParseDropsSpuriousJournalWithoutVolume(t *testing.T) {
	// hand-built tokens: a JournalName followed by no numeration at all,
	// so the drop rule must clear the matched journal title.
	tokens := []model.Token{
		{Kind: model.JournalName, Text: "Phys. Rev.", Normalized: "Phys. Rev."},
		{Kind: model.Word_, Text: "reprinted"},
	}
	ref := model.RawReference{Text: "Phys. Rev. reprinted", Source: model.SourceReferenceSection}
	refs := Reference(ref, tokens)
	primary := refs[0]

	if primary.JournalTitle != "" {
		t.Errorf("expected spurious journal_title to be cleared, got %q", primary.JournalTitle)
	}
	if primary.JournalVolume != "" {
		t.Errorf("expected no journal_volume, got %q", primary.JournalVolume)
	}
}

func TestParseMultiJournalProducesSubReference(t *testing.T) {
	ref := model.RawReference{
		Text:   "Phys. Rev. D31, 3059 (1985). JHEP 417(1994)181.",
		Source: model.SourceReferenceSection,
	}
	refs := Reference(ref, tokenize(t, ref))
	if len(refs) != 2 {
		t.Fatalf("expected primary + 1 sub-reference, got %d: %+v", len(refs), refs)
	}

	primary, sub := refs[0], refs[1]
	if primary.JournalTitle != "Phys. Rev. D" || primary.JournalVolume != "31" {
		t.Errorf("unexpected primary journal fields: %+v", primary)
	}
	if sub.JournalTitle != "JHEP" {
		t.Errorf("sub-reference journal_title = %q, want JHEP", sub.JournalTitle)
	}
	if sub.JournalVolume != "417" {
		t.Errorf("sub-reference journal_volume = %q, want 417", sub.JournalVolume)
	}
	if sub.JournalPage != "181" {
		t.Errorf("sub-reference journal_page = %q, want 181", sub.JournalPage)
	}
	if sub.JournalYear != "1994" {
		t.Errorf("sub-reference journal_year = %q, want 1994", sub.JournalYear)
	}
}

func TestParseArxivOnlySubReference(t *testing.T) {
	ref := model.RawReference{
		Text:   "Private communication; see arXiv:1203.45678 and arXiv:1001.23456 for details.",
		Source: model.SourceReferenceSection,
	}
	toks := tokenize(t, ref)

	var sawArxivToken bool
	for _, tok := range toks {
		if tok.Kind == model.ArxivId {
			sawArxivToken = true
		}
	}
	if !sawArxivToken {
		t.Fatalf("expected tokenizer to find an ArxivId token, got %+v", toks)
	}

	refs := Reference(ref, toks)
	if len(refs) != 2 {
		t.Fatalf("expected primary + arxiv-only sub-reference, got %d: %+v", len(refs), refs)
	}

	sub := refs[1]
	if sub.ArxivId != "1001.23456" {
		t.Errorf("sub-reference arxiv_id = %q, want 1001.23456", sub.ArxivId)
	}
	if sub.JournalTitle != "" {
		t.Errorf("expected arxiv-only sub-reference to carry no journal_title, got %q", sub.JournalTitle)
	}
	// the primary binds the first arxiv id and is the only record that
	// carries it; only the second, unclaimed id gets its own sub-reference
	if refs[0].ArxivId != "1203.45678" {
		t.Errorf("expected primary to also bind the first-occurrence arxiv_id, got %q", refs[0].ArxivId)
	}
}

func TestResolveIbidPlaceholdersAcrossReferences(t *testing.T) {
	primaryRef := model.RawReference{
		Text:       "A. Smith, Phys. Rev. D31, 3059 (1985).",
		LineMarker: "3",
		Source:     model.SourceReferenceSection,
	}
	ibidRef := model.RawReference{
		Text:       "Ibid. 85 (1986) 2.",
		LineMarker: "3",
		Source:     model.SourceReferenceSection,
	}
	otherMarkerIbidRef := model.RawReference{
		Text:       "Ibid. 90 (1990) 7.",
		LineMarker: "9",
		Source:     model.SourceReferenceSection,
	}

	tk := newTestTokenizer(t)
	var all []model.ParsedReference
	all = append(all, Reference(primaryRef, tk.Tokenize(primaryRef))...)
	all = append(all, Reference(ibidRef, tk.Tokenize(ibidRef))...)
	all = append(all, Reference(otherMarkerIbidRef, tk.Tokenize(otherMarkerIbidRef))...)

	resolved := ResolveIbidPlaceholders(all)

	var sawResolved, sawUnresolved bool
	for _, r := range resolved {
		if r.LineMarker == "3" && r.JournalVolume == "85" {
			if r.JournalTitle != "Phys. Rev. D" {
				t.Errorf("expected ibid on marker 3 resolved to Phys. Rev. D, got %q", r.JournalTitle)
			}
			sawResolved = true
		}
		if r.LineMarker == "9" && r.JournalVolume == "90" {
			if r.JournalTitle != model.IbidPlaceholder {
				t.Errorf("expected unresolved placeholder left as-is, got %q", r.JournalTitle)
			}
			sawUnresolved = true
		}
	}
	if !sawResolved {
		t.Fatal("did not find the resolved marker-3 ibid reference")
	}
	if !sawUnresolved {
		t.Fatal("did not find the unresolved marker-9 ibid reference")
	}
}

func TestParseNonOverlappingTokenSpansInvariant(t *testing.T) {
	ref := model.RawReference{
		Text:   "A. Smith, Phys. Rev. D31, 3059 (1985), arXiv:1203.45678.",
		Source: model.SourceReferenceSection,
	}
	toks := tokenize(t, ref)

	prevEnd := -1
	for _, tok := range toks {
		if tok.Start == 0 && tok.End == 0 {
			continue // the synthetic LineMarker token carries no span
		}
		if tok.Start < prevEnd {
			t.Fatalf("token spans overlap or are unsorted: %+v", toks)
		}
		prevEnd = tok.End
	}
}
