package parse

import "github.com/Osso/refextract/internal/model"

// ResolveIbidPlaceholders rewrites every ParsedReference whose
// JournalTitle is the IbidPlaceholder sentinel to the nearest preceding
// reference's journal title sharing the same LineMarker (spec.md §4.7's
// final cross-reference resolution pass). Refs are scanned in the order
// given, which must be document order; a placeholder with no matching
// predecessor is left unresolved.
func ResolveIbidPlaceholders(all []model.ParsedReference) []model.ParsedReference {
	out := make([]model.ParsedReference, len(all))
	copy(out, all)

	lastTitleByMarker := make(map[string]string)

	for i := range out {
		marker := out[i].LineMarker
		if out[i].JournalTitle == model.IbidPlaceholder {
			if title, ok := lastTitleByMarker[marker]; ok {
				out[i].JournalTitle = title
			}
			continue
		}
		if out[i].JournalTitle != "" {
			lastTitleByMarker[marker] = out[i].JournalTitle
		}
	}

	return out
}

// Document parses every raw reference of a document in order and runs
// ResolveIbidPlaceholders over the combined result.
func Document(refs []model.RawReference, tokenize func(model.RawReference) []model.Token) []model.ParsedReference {
	var all []model.ParsedReference
	for _, ref := range refs {
		all = append(all, Reference(ref, tokenize(ref))...)
	}
	return ResolveIbidPlaceholders(all)
}
