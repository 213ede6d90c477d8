package collect

import (
	"github.com/Osso/refextract/internal/model"
	"github.com/Osso/refextract/internal/strutil"
)

// mergeFootnotes appends footRefs to sectionRefs, dropping any footnote
// reference whose alphanumeric-lowercased text already appears among the
// section references (spec.md §4.4's de-duplication rule) — a reference
// cited both in a footnote and in the bibliography proper is reported
// once, keeping the section-harvested copy.
func mergeFootnotes(sectionRefs, footRefs []model.RawReference) []model.RawReference {
	seen := make(map[string]bool, len(sectionRefs))
	for _, r := range sectionRefs {
		seen[strutil.AlnumLower(r.Text)] = true
	}

	out := append([]model.RawReference(nil), sectionRefs...)
	for _, r := range footRefs {
		key := strutil.AlnumLower(r.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
