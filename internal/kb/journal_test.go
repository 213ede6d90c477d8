package kb

import "testing"

func TestMatchJournalNameFullTitle(t *testing.T) {
	j, _, _ := newTestKB()

	text := "See Physical Review D 40, 2987 (1989)."
	length, abbrev, ok := j.MatchJournalName(text, 4)
	if !ok {
		t.Fatalf("expected a match")
	}
	if abbrev != "Phys.Rev.D" {
		t.Fatalf("unexpected abbrev: %q", abbrev)
	}
	matched := text[4 : 4+length]
	if matched != "Physical Review D" {
		t.Fatalf("unexpected matched span: %q", matched)
	}
}

func TestMatchJournalNameAbbrev(t *testing.T) {
	j, _, _ := newTestKB()

	text := "Phys. Rev. D 40, 2987 (1989)."
	length, abbrev, ok := j.MatchJournalName(text, 0)
	if !ok {
		t.Fatalf("expected a match")
	}
	if abbrev != "Phys.Rev.D" {
		t.Fatalf("unexpected abbrev: %q", abbrev)
	}
	if length <= 0 {
		t.Fatalf("expected positive length")
	}
}

func TestMatchJournalNameRequiresWordBoundary(t *testing.T) {
	j, _, _ := newTestKB()

	text := "xPhys. Rev. D"
	_, _, ok := j.MatchJournalName(text, 1)
	if ok {
		t.Fatalf("expected no match without a word boundary")
	}
}

func TestMatchJournalNameNoMatch(t *testing.T) {
	j, _, _ := newTestKB()

	text := "Some unrelated text with no journal in it."
	_, _, ok := j.MatchJournalName(text, 0)
	if ok {
		t.Fatalf("expected no match")
	}
}
