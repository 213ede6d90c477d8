// Package parse turns a tokenized raw reference into one or more
// structured ParsedReference records — the fifth pipeline stage
// (spec.md §4.7).
package parse

import "github.com/Osso/refextract/internal/model"

// Reference parses one raw reference and its tokens into the primary
// ParsedReference plus any sub-references (additional journals, ibid
// errata, and leftover arXiv ids), per spec.md §4.7. The caller must run
// ResolveIbidPlaceholders over the full, document-wide slice of results
// afterwards — that pass resolves across different raw references and
// can't run per-call.
func Reference(ref model.RawReference, tokens []model.Token) []model.ParsedReference {
	primary := model.ParsedReference{RawRef: ref.Text, LineMarker: ref.LineMarker, Source: ref.Source}

	bindFirstOccurrenceIdentifiers(&primary, tokens)

	journalIdxs := journalNameIndices(tokens)

	if len(journalIdxs) > 0 {
		j := journalIdxs[0]
		primary.JournalTitle = tokens[j].Normalized
		w := scanNumerationWindow(tokens, j+1, &primary.JournalTitle)
		primary.JournalVolume = w.Volume
		primary.JournalPage = w.Page
		primary.JournalYear = w.Year
	} else if ibidIdx, ok := firstIbidIndex(tokens); ok {
		w := scanNumerationWindow(tokens, ibidIdx+1, nil)
		if w.hasVolume() {
			primary.JournalTitle = model.IbidPlaceholder
			primary.JournalVolume = w.Volume
			primary.JournalPage = w.Page
			primary.JournalYear = w.Year
		}
	}

	if primary.JournalYear == "" {
		if y, ok := firstYearAnywhere(tokens); ok {
			primary.JournalYear = y
		}
	}

	if primary.JournalTitle != "" && primary.JournalTitle != model.IbidPlaceholder && primary.JournalVolume == "" {
		primary.JournalTitle = ""
	}

	if title, ok := extractTitle(ref.Text); ok {
		primary.Title = title
	}
	if authors, ok := extractAuthors(tokens); ok {
		primary.Authors = authors
	}

	journalConsumed := make(map[int]bool)
	out := []model.ParsedReference{primary}
	out = append(out, buildJournalSubReferences(ref, tokens, primary, journalIdxs, journalConsumed)...)
	out = append(out, buildIbidSubReferences(ref, tokens, primary, journalIdxs)...)
	// the first ArxivId is already the primary's own arxiv_id
	for i, tok := range tokens {
		if tok.Kind == model.ArxivId {
			journalConsumed[i] = true
			break
		}
	}
	out = append(out, buildArxivOnlySubReferences(ref, tokens, journalConsumed)...)

	return out
}

// bindFirstOccurrenceIdentifiers copies the first occurrence of each
// identifier kind into primary (spec.md §4.7 "Identifier extraction").
// Reference marks the ArxivId token bound here as consumed, so it is not
// emitted a second time as an arxiv-only sub-reference.
func bindFirstOccurrenceIdentifiers(primary *model.ParsedReference, tokens []model.Token) {
	for _, tok := range tokens {
		switch tok.Kind {
		case model.Doi:
			if primary.Doi == "" {
				primary.Doi = tok.Text
			}
		case model.ArxivId:
			if primary.ArxivId == "" {
				primary.ArxivId = tok.Normalized
			}
		case model.Isbn:
			if primary.Isbn == "" {
				primary.Isbn = tok.Text
			}
		case model.ReportNumber:
			if primary.ReportNumber == "" {
				primary.ReportNumber = tok.Normalized
			}
		case model.Url:
			if primary.Url == "" {
				primary.Url = tok.Text
			}
		case model.Collaboration:
			if primary.Collaboration == "" {
				primary.Collaboration = tok.Normalized
			}
		}
	}
}

func journalNameIndices(tokens []model.Token) []int {
	var out []int
	for i, tok := range tokens {
		if tok.Kind == model.JournalName {
			out = append(out, i)
		}
	}
	return out
}

func firstIbidIndex(tokens []model.Token) (int, bool) {
	for i, tok := range tokens {
		if tok.Kind == model.Ibid {
			return i, true
		}
	}
	return 0, false
}

func firstYearAnywhere(tokens []model.Token) (string, bool) {
	for _, tok := range tokens {
		if tok.Kind == model.Year {
			return tok.Normalized, true
		}
	}
	return "", false
}
