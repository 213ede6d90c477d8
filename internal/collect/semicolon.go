package collect

import (
	"strings"

	"github.com/Osso/refextract/internal/model"
)

// SplitOnSemicolons splits ref.Text on ';' into independent
// sub-references iff at least two of the resulting parts independently
// look citation-like (spec.md §4.5: contain a year, arXiv prefix, DOI,
// or preprint mention) — the same test ContainsCitationContent already
// implements for heading validation. Otherwise the semicolon is
// ordinary punctuation within one reference (e.g. "et al.; private
// communication") and ref is returned unchanged. The driver invokes
// this explicitly after Collect, not automatically, since splitting is
// destructive when a title legitimately contains a semicolon. The line
// marker, source, and page number propagate to every part.
func SplitOnSemicolons(ref model.RawReference) []model.RawReference {
	if !strings.Contains(ref.Text, ";") {
		return []model.RawReference{ref}
	}

	var parts []string
	for _, p := range strings.Split(ref.Text, ";") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return []model.RawReference{ref}
	}

	citationLike := 0
	for _, p := range parts {
		if ContainsCitationContent(p) {
			citationLike++
		}
	}
	if citationLike < 2 {
		return []model.RawReference{ref}
	}

	out := make([]model.RawReference, 0, len(parts))
	for _, p := range parts {
		out = append(out, model.RawReference{
			Text: p, LineMarker: ref.LineMarker, Source: ref.Source, PageNumber: ref.PageNumber,
		})
	}
	return out
}
