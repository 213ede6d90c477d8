package parse

import "github.com/Osso/refextract/internal/model"

// buildJournalSubReferences produces one sub-reference per JournalName
// token after the first (spec.md §4.7 "Sub-references"). Each binds its
// own numeration window and independently claims the first Doi/ArxivId
// token lying between it and the next JournalName (or end of tokens),
// recording the claim in consumed so buildArxivOnlySubReferences doesn't
// reuse it. A sub-reference is only emitted when its window yields a
// volume.
func buildJournalSubReferences(
	ref model.RawReference, tokens []model.Token, primary model.ParsedReference,
	journalIdxs []int, consumed map[int]bool,
) []model.ParsedReference {
	if len(journalIdxs) < 2 {
		return nil
	}

	var out []model.ParsedReference
	for n := 1; n < len(journalIdxs); n++ {
		j := journalIdxs[n]
		end := len(tokens)
		if n+1 < len(journalIdxs) {
			end = journalIdxs[n+1]
		}

		title := tokens[j].Normalized
		w := scanNumerationWindow(tokens, j+1, &title)
		if !w.hasVolume() {
			continue
		}

		sub := model.ParsedReference{
			RawRef:        ref.Text,
			LineMarker:    ref.LineMarker,
			Source:        ref.Source,
			JournalTitle:  title,
			JournalVolume: w.Volume,
			JournalPage:   w.Page,
			JournalYear:   w.Year,
			Authors:       primary.Authors,
		}

		for k := j; k < end; k++ {
			if consumed[k] {
				continue
			}
			switch tokens[k].Kind {
			case model.Doi:
				if sub.Doi == "" {
					sub.Doi = tokens[k].Text
					consumed[k] = true
				}
			case model.ArxivId:
				if sub.ArxivId == "" {
					sub.ArxivId = tokens[k].Normalized
					consumed[k] = true
				}
			}
		}

		out = append(out, sub)
	}
	return out
}

// buildIbidSubReferences produces a sub-reference for each Ibid token
// when the primary reference resolved to a real (non-placeholder)
// journal, inheriting that journal's title and binding a fresh
// numeration window starting after the ibid token.
func buildIbidSubReferences(
	ref model.RawReference, tokens []model.Token, primary model.ParsedReference, journalIdxs []int,
) []model.ParsedReference {
	if primary.JournalTitle == "" || primary.JournalTitle == model.IbidPlaceholder {
		return nil
	}

	var primaryIdx = -1
	if len(journalIdxs) > 0 {
		primaryIdx = journalIdxs[0]
	}

	var out []model.ParsedReference
	for i, tok := range tokens {
		if tok.Kind != model.Ibid || i == primaryIdx {
			continue
		}
		w := scanNumerationWindow(tokens, i+1, nil)
		if !w.hasVolume() {
			continue
		}
		out = append(out, model.ParsedReference{
			RawRef:        ref.Text,
			LineMarker:    ref.LineMarker,
			Source:        ref.Source,
			JournalTitle:  primary.JournalTitle,
			JournalVolume: w.Volume,
			JournalPage:   w.Page,
			JournalYear:   w.Year,
			Authors:       primary.Authors,
		})
	}
	return out
}

// buildArxivOnlySubReferences emits a bare arxiv-id sub-reference for
// every ArxivId token not already in consumed: those claimed by a
// journal sub-reference, and the first one, which the primary reference
// already carries as its ArxivId.
func buildArxivOnlySubReferences(
	ref model.RawReference, tokens []model.Token, consumed map[int]bool,
) []model.ParsedReference {
	var out []model.ParsedReference
	for i, tok := range tokens {
		if tok.Kind != model.ArxivId || consumed[i] {
			continue
		}
		out = append(out, model.ParsedReference{
			RawRef:     ref.Text,
			LineMarker: ref.LineMarker,
			Source:     ref.Source,
			ArxivId:    tok.Normalized,
		})
		consumed[i] = true
	}
	return out
}
