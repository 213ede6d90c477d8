package collect

import (
	"github.com/Osso/refextract/internal/model"
	"github.com/Osso/refextract/internal/zones"
)

// headingLoc pins the start of harvestable reference content: either
// a whole block classified ReferenceHeading (lineIdx == len(lines), skip
// it entirely) or a single heading line discovered inside an otherwise
// ordinary body block (lineIdx is the first line after it).
type headingLoc struct {
	pageIdx  int
	blockIdx int
	lineIdx  int
}

// discoverHeading runs the two-pass search from spec.md §4.4: prefer a
// block already classified ReferenceHeading whose following content
// looks like citations, then fall back to scanning body-block lines for
// a heading-shaped line with the same property.
func discoverHeading(pages []Page) (headingLoc, bool) {
	for pi, p := range pages {
		for bi, b := range p.Blocks {
			if b.Zone != model.ReferenceHeading {
				continue
			}
			loc := headingLoc{pageIdx: pi, blockIdx: bi, lineIdx: len(b.Block.Lines)}
			if isCitationLikeFollowing(pages, loc) {
				return loc, true
			}
		}
	}

	for pi, p := range pages {
		for bi, b := range p.Blocks {
			if b.Zone != model.Body {
				continue
			}
			for li, line := range blockLines(b) {
				if !zones.IsReferenceHeading(line) {
					continue
				}
				loc := headingLoc{pageIdx: pi, blockIdx: bi, lineIdx: li + 1}
				if isCitationLikeFollowing(pages, loc) {
					return loc, true
				}
			}
		}
	}

	return headingLoc{}, false
}

// isCitationLikeFollowing scores up to headingScoreWindow blocks of
// content following loc (skipping Header/PageNumber), plus the first
// page after loc's page if the budget isn't exhausted, and accepts once
// the cumulative per-line score reaches headingScoreThreshold.
func isCitationLikeFollowing(pages []Page, loc headingLoc) bool {
	score := 0
	blocksSeen := 0

	visitLines := func(lines []string) {
		for _, ln := range lines {
			score += ScoreLine(ln)
		}
	}

	if loc.blockIdx < len(pages[loc.pageIdx].Blocks) {
		first := pages[loc.pageIdx].Blocks[loc.blockIdx]
		lines := blockLines(first)
		if loc.lineIdx < len(lines) {
			visitLines(lines[loc.lineIdx:])
			blocksSeen++
		}
	}

	for bi := loc.blockIdx + 1; bi < len(pages[loc.pageIdx].Blocks) && blocksSeen < headingScoreWindow; bi++ {
		b := pages[loc.pageIdx].Blocks[bi]
		if b.Zone == model.Header || b.Zone == model.PageNumber {
			continue
		}
		visitLines(blockLines(b))
		blocksSeen++
	}

	if blocksSeen < headingScoreWindow && loc.pageIdx+1 < len(pages) {
		next := pages[loc.pageIdx+1]
		for _, b := range next.Blocks {
			if blocksSeen >= headingScoreWindow {
				break
			}
			if b.Zone == model.Header || b.Zone == model.PageNumber {
				continue
			}
			visitLines(blockLines(b))
			blocksSeen++
		}
	}

	return score >= headingScoreThreshold
}
