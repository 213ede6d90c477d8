package collect

import "github.com/Osso/refextract/internal/model"

// harvestFootnotes segments every Footnote-zoned block into raw
// references and keeps only the ones that carry actual citation content
// (spec.md §4.4): a bare footnote like "See the discussion above" is not
// a reference just because it lives in the footnote zone.
func harvestFootnotes(pages []Page) []model.RawReference {
	var refs []model.RawReference
	for _, p := range pages {
		for _, b := range p.Blocks {
			if b.Zone != model.Footnote {
				continue
			}
			segs := segmentLines(blockLines(b), model.SourceFootnote, p.Number)
			for _, s := range segs {
				if ContainsCitationContent(s.Text) {
					refs = append(refs, s)
				}
			}
		}
	}
	return refs
}
