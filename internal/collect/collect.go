// Package collect locates the reference section(s) of a document,
// segments them into individual raw reference strings, harvests footnote
// references, and de-duplicates — the third pipeline stage (spec.md
// §4.4-§4.5).
package collect

import (
	"strings"

	"github.com/Osso/refextract/internal/model"
)

// Page bundles one page's zone-classified blocks, already in reading
// order (as produced by layout+zones), with its page number.
type Page struct {
	Number int
	Blocks []model.ZonedBlock
}

const headingScoreWindow = 15
const headingScoreThreshold = 4

// Collect runs the full reference-discovery pipeline over a document's
// pages and returns the harvested, segmented, de-duplicated raw
// references (spec.md §4.4). An empty result is not an error.
func Collect(pages []Page) []model.RawReference {
	loc, found := discoverHeading(pages)

	var sectionRefs []model.RawReference
	if found {
		sectionRefs = harvest(pages, loc)
	} else {
		sectionRefs = fallback(pages)
	}

	sectionRefs = splitOverlong(sectionRefs)

	footRefs := harvestFootnotes(pages)
	return mergeFootnotes(sectionRefs, footRefs)
}

func nonHeaderPageNumberBlocks(blocks []model.ZonedBlock) []model.ZonedBlock {
	out := make([]model.ZonedBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Zone == model.Header || b.Zone == model.PageNumber {
			continue
		}
		out = append(out, b)
	}
	return out
}

func blockLines(b model.ZonedBlock) []string {
	out := make([]string, 0, len(b.Block.Lines))
	for _, ln := range b.Block.Lines {
		words := make([]string, 0, len(ln.Words))
		for _, w := range ln.Words {
			words = append(words, w.Text)
		}
		out = append(out, strings.Join(words, " "))
	}
	return out
}
