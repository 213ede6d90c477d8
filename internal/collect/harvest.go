package collect

import "github.com/Osso/refextract/internal/model"

// harvest walks forward from a discovered heading, accumulating the
// lines that make up the reference section, then segments them into raw
// references. Two continuation modes apply across page boundaries
// (spec.md §4.4): marker mode tolerates exactly one marker-free
// continuation page before stopping; author-date mode (no markers seen
// at all) continues while a page's citation-content line density stays
// at or above half.
func harvest(pages []Page, loc headingLoc) []model.RawReference {
	var lines []string

	appendBlock := func(b model.ZonedBlock) {
		lines = append(lines, blockLines(b)...)
	}

	first := pages[loc.pageIdx].Blocks[loc.blockIdx]
	firstLines := blockLines(first)
	if loc.lineIdx < len(firstLines) {
		lines = append(lines, firstLines[loc.lineIdx:]...)
	}
	for bi := loc.blockIdx + 1; bi < len(pages[loc.pageIdx].Blocks); bi++ {
		b := pages[loc.pageIdx].Blocks[bi]
		if b.Zone == model.Header || b.Zone == model.PageNumber || b.Zone == model.Footnote {
			continue
		}
		appendBlock(b)
	}

	markerMode := anyLineHasMarker(lines)
	markerFreeStreak := 0

	for pi := loc.pageIdx + 1; pi < len(pages); pi++ {
		page := pages[pi]
		body := nonHeaderPageNumberBlocks(page.Blocks)
		body = excludeFootnotes(body)

		if pageStartsNewHeading(body) {
			break
		}

		pageLines := collectLines(body)
		if len(pageLines) == 0 {
			break
		}

		if markerMode {
			if anyLineHasMarker(pageLines) {
				markerFreeStreak = 0
			} else {
				markerFreeStreak++
				if markerFreeStreak >= 2 {
					break
				}
			}
			lines = append(lines, pageLines...)
			continue
		}

		if citationDensity(pageLines) >= 0.5 {
			lines = append(lines, pageLines...)
			continue
		}
		break
	}

	return segmentLines(lines, model.SourceReferenceSection, pages[loc.pageIdx].Number)
}

func anyLineHasMarker(lines []string) bool {
	for _, ln := range lines {
		if HasLineMarker(ln) {
			return true
		}
	}
	return false
}

func excludeFootnotes(blocks []model.ZonedBlock) []model.ZonedBlock {
	out := make([]model.ZonedBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Zone == model.Footnote {
			continue
		}
		out = append(out, b)
	}
	return out
}

func pageStartsNewHeading(blocks []model.ZonedBlock) bool {
	for _, b := range blocks {
		if b.Zone == model.ReferenceHeading {
			return true
		}
	}
	return false
}

func collectLines(blocks []model.ZonedBlock) []string {
	var out []string
	for _, b := range blocks {
		out = append(out, blockLines(b)...)
	}
	return out
}

func citationDensity(lines []string) float64 {
	if len(lines) == 0 {
		return 0
	}
	n := 0
	for _, ln := range lines {
		if ContainsCitationContent(ln) {
			n++
		}
	}
	return float64(n) / float64(len(lines))
}
