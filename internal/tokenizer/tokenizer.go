// Package tokenizer splits a raw reference string into classified
// tokens — the fourth pipeline stage (spec.md §4.6).
package tokenizer

import (
	"github.com/Osso/refextract/internal/kb"
	"github.com/Osso/refextract/internal/model"
)

// Tokenizer extracts identifier spans and classifies the words between
// them, backed by the knowledge-base indices built by the kb package.
type Tokenizer struct {
	Reports  *kb.ReportTrie
	Journals *kb.JournalIndex
	Collabs  *kb.CollabIndex
}

// New builds a Tokenizer from loaded knowledge-base indices. Any of the
// three may be nil, in which case that identifier class is never
// matched.
func New(reports *kb.ReportTrie, journals *kb.JournalIndex, collabs *kb.CollabIndex) *Tokenizer {
	return &Tokenizer{Reports: reports, Journals: journals, Collabs: collabs}
}

// Tokenize runs the full tokenization pipeline over one raw reference:
// a synthetic LineMarker token (the marker was already split out of Text
// by Collect, so it carries no byte span of its own), the non-
// overlapping identifier spans, and word-by-word classification of the
// text between them.
func (t *Tokenizer) Tokenize(ref model.RawReference) []model.Token {
	var tokens []model.Token

	if ref.LineMarker != "" {
		tokens = append(tokens, model.Token{Kind: model.LineMarker, Text: ref.LineMarker})
	}

	spans := t.identifierSpans(ref.Text)

	pos := 0
	for _, sp := range spans {
		if sp.Start > pos {
			tokens = append(tokens, classifyGap(t, ref.Text[pos:sp.Start], pos)...)
		}
		tokens = append(tokens, model.Token{
			Kind: sp.Kind, Text: ref.Text[sp.Start:sp.End], Normalized: sp.Normalized,
			Start: sp.Start, End: sp.End,
		})
		pos = sp.End
	}
	if pos < len(ref.Text) {
		tokens = append(tokens, classifyGap(t, ref.Text[pos:], pos)...)
	}

	return tokens
}
