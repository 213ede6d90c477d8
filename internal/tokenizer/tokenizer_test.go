package tokenizer

import (
	"strings"
	"testing"

	"github.com/Osso/refextract/internal/kb"
	"github.com/Osso/refextract/internal/model"
)

const testJournals = `
Physical Review --- Phys. Rev.
Journal of High Energy Physics --- JHEP
`

const testCollaborations = `
ATLAS Collaboration --- ATLAS
`

func newTestTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	j, err := kb.LoadJournals(strings.NewReader(testJournals))
	if err != nil {
		t.Fatal(err)
	}
	c, err := kb.LoadCollaborations(strings.NewReader(testCollaborations))
	if err != nil {
		t.Fatal(err)
	}
	return New(nil, j, c)
}

func kindsOf(tokens []model.Token) []model.TokenKind {
	out := make([]model.TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeLineMarker(t *testing.T) {
	tk := newTestTokenizer(t)
	ref := model.RawReference{Text: "A. Smith, Phys. Rev. D 82, 2010.", LineMarker: "5"}
	toks := tk.Tokenize(ref)
	if len(toks) == 0 || toks[0].Kind != model.LineMarker || toks[0].Text != "5" {
		t.Fatalf("expected leading LineMarker token, got %+v", toks)
	}
}

func TestTokenizeDoiAndArxivAndUrlAndIsbn(t *testing.T) {
	tk := newTestTokenizer(t)
	ref := model.RawReference{Text: "See 10.1086/305772, arXiv:1001.23456v2, http://example.com/x, ISBN 978-0-12345-678-9."}
	toks := tk.Tokenize(ref)

	var gotDoi, gotArxiv, gotURL, gotISBN bool
	for _, tok := range toks {
		switch tok.Kind {
		case model.Doi:
			gotDoi = tok.Text == "10.1086/305772"
		case model.ArxivId:
			gotArxiv = strings.Contains(tok.Text, "1001.23456")
		case model.Url:
			gotURL = strings.HasPrefix(tok.Text, "http://example.com/x")
		case model.Isbn:
			gotISBN = true
		}
	}
	if !gotDoi {
		t.Errorf("DOI not found or wrong text: %+v", toks)
	}
	if !gotArxiv {
		t.Errorf("arXiv id not found: %+v", toks)
	}
	if !gotURL {
		t.Errorf("URL not found: %+v", toks)
	}
	if !gotISBN {
		t.Errorf("ISBN not found: %+v", toks)
	}
}

func TestTokenizeArxivOldStyleNormalization(t *testing.T) {
	tk := newTestTokenizer(t)
	ref := model.RawReference{Text: "hep-ph/0102030 is the reference."}
	toks := tk.Tokenize(ref)

	found := false
	for _, tok := range toks {
		if tok.Kind == model.ArxivId {
			found = true
			if tok.Normalized != "hep-ph-0102030" {
				t.Errorf("unexpected normalized old-style arxiv id: %q", tok.Normalized)
			}
		}
	}
	if !found {
		t.Fatalf("expected an ArxivId token, got %+v", toks)
	}
}

func TestTokenizeJournalWithSectionLetter(t *testing.T) {
	tk := newTestTokenizer(t)
	ref := model.RawReference{Text: "Phys. Rev. D31, 3059 (1985)."}
	toks := tk.Tokenize(ref)

	var journal *model.Token
	for i := range toks {
		if toks[i].Kind == model.JournalName {
			journal = &toks[i]
		}
	}
	if journal == nil {
		t.Fatalf("expected a JournalName token, got %+v", toks)
	}
	if !strings.HasSuffix(journal.Normalized, "D") {
		t.Errorf("expected section letter absorbed into normalized journal, got %q", journal.Normalized)
	}

	// the volume "31" must follow as its own Number token, not glued to
	// the journal name
	idx := -1
	for i, tok := range toks {
		if tok.Kind == model.JournalName {
			idx = i
		}
	}
	if idx == -1 || idx+1 >= len(toks) || toks[idx+1].Kind != model.Number || toks[idx+1].Text != "31" {
		t.Errorf("expected volume Number(31) right after journal, got %+v", toks)
	}
}

func TestTokenizeCompactVYP(t *testing.T) {
	tk := newTestTokenizer(t)
	ref := model.RawReference{Text: "JHEP 417(1994)181."}
	toks := tk.Tokenize(ref)

	var kinds []model.TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}

	wantSeq := []model.TokenKind{model.JournalName, model.Number, model.Year, model.Number}
	if !containsSubsequence(kinds, wantSeq) {
		t.Fatalf("expected Number,Year,Number decomposition after journal, got %+v", kinds)
	}
}

func TestTokenizeCompactVColonP(t *testing.T) {
	tk := newTestTokenizer(t)
	toks := classifyGap(tk, "70:094505", 0)
	if len(toks) != 2 || toks[0].Kind != model.Number || toks[1].Kind != model.Number {
		t.Fatalf("expected two Number tokens for V:P form, got %+v", toks)
	}
	if toks[0].Text != "70" || toks[1].Text != "094505" {
		t.Fatalf("unexpected V:P token texts: %+v", toks)
	}
}

func TestTokenizeCompactIssueDiscarded(t *testing.T) {
	tk := newTestTokenizer(t)
	toks := classifyGap(tk, "82(25)", 0)
	if len(toks) != 1 || toks[0].Kind != model.Number || toks[0].Text != "82" {
		t.Fatalf("expected issue discarded, volume kept: %+v", toks)
	}
}

func TestTokenizeCompactLetterSuffixDiscarded(t *testing.T) {
	tk := newTestTokenizer(t)
	toks := classifyGap(tk, "111301(R)", 0)
	if len(toks) != 1 || toks[0].Kind != model.Number || toks[0].Text != "111301" {
		t.Fatalf("expected letter suffix discarded: %+v", toks)
	}
}

func TestTokenizeCompactSlashSuffixDiscarded(t *testing.T) {
	tk := newTestTokenizer(t)
	toks := classifyGap(tk, "040404/1", 0)
	if len(toks) != 1 || toks[0].Kind != model.Number || toks[0].Text != "040404" {
		t.Fatalf("expected slash suffix discarded: %+v", toks)
	}
}

func TestTokenizeIbid(t *testing.T) {
	tk := newTestTokenizer(t)
	toks := classifyGap(tk, "ibid. 82 (2010) 1.", 0)
	if len(toks) == 0 || toks[0].Kind != model.Ibid {
		t.Fatalf("expected leading Ibid token, got %+v", toks)
	}
}

func TestTokenizePunctuationAndConnectors(t *testing.T) {
	tk := newTestTokenizer(t)
	toks := classifyGap(tk, "A. Smith and B. Jones et al.", 0)
	var sawAnd, sawEtAl bool
	for _, tok := range toks {
		if tok.Kind == model.Punctuation && tok.Text == "and" {
			sawAnd = true
		}
		if tok.Kind == model.Punctuation && (tok.Text == "et" || tok.Text == "al.") {
			sawEtAl = true
		}
	}
	if !sawAnd || !sawEtAl {
		t.Fatalf("expected connector words classified as Punctuation, got %+v", toks)
	}
}

func TestTokenizeYearAndPageRange(t *testing.T) {
	tk := newTestTokenizer(t)
	toks := classifyGap(tk, "(2010) 120-130", 0)
	if len(toks) != 2 || toks[0].Kind != model.Year || toks[1].Kind != model.PageRange {
		t.Fatalf("expected Year then PageRange, got %+v", toks)
	}
	if toks[0].Normalized != "2010" {
		t.Errorf("unexpected normalized year: %q", toks[0].Normalized)
	}
}

func TestTokenizeCollaborationFallback(t *testing.T) {
	tk := newTestTokenizer(t)
	toks := classifyGap(tk, "ATLAS", 0)
	if len(toks) != 1 || toks[0].Kind != model.Collaboration || toks[0].Normalized != "ATLAS" {
		t.Fatalf("expected Collaboration token, got %+v", toks)
	}
}

func TestTokenizeHyphenRejoinAcrossLineBreak(t *testing.T) {
	tk := newTestTokenizer(t)
	toks := classifyGap(tk, "pp. 120- 130", 0)

	found := false
	for _, tok := range toks {
		if tok.Kind == model.PageRange && tok.Text == "120-130" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected hyphen-broken page range repaired into one PageRange token, got %+v", toks)
	}
}

func TestTokenizeOverlapKeepsLongerSpan(t *testing.T) {
	// a DOI containing digits that could also look like an ISBN prefix;
	// the longer DOI span must win
	spans := resolveOverlaps([]identSpan{
		{Start: 0, End: 5, Kind: model.Isbn},
		{Start: 0, End: 12, Kind: model.Doi},
	})
	if len(spans) != 1 || spans[0].Kind != model.Doi {
		t.Fatalf("expected the longer overlapping span to win, got %+v", spans)
	}
}

func containsSubsequence(haystack, needle []model.TokenKind) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, k := range needle {
			if haystack[i+j] != k {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
