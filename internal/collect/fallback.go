package collect

import "github.com/Osso/refextract/internal/model"

const denseMarkerMinBlocks = 3
const denseMarkerMinRatio = 0.5

// fallback runs when discoverHeading finds no qualifying heading
// (spec.md §4.4 "Fallback strategies"): it tries, in order, a run of
// densely marker-prefixed blocks anywhere in the body, then a trailing
// cluster of marker-prefixed blocks near the end of the document, then
// superscript numeral markers embedded in running text. The first
// strategy that produces anything wins.
func fallback(pages []Page) []model.RawReference {
	if refs := denseMarkerBlocks(pages); len(refs) > 0 {
		return refs
	}
	if refs := trailingMarkerCluster(pages); len(refs) > 0 {
		return refs
	}
	return superscriptMarkers(pages)
}

// denseMarkerBlocks scans every Body block on every page and collects
// maximal contiguous runs of blocks where at least denseMarkerMinRatio of
// lines begin with a recognized marker, provided the run spans at least
// denseMarkerMinBlocks blocks.
func denseMarkerBlocks(pages []Page) []model.RawReference {
	var refs []model.RawReference

	for _, p := range pages {
		var run []string
		runBlocks := 0
		flush := func() {
			if runBlocks >= denseMarkerMinBlocks {
				refs = append(refs, segmentLines(run, model.SourceReferenceSection, p.Number)...)
			}
			run = nil
			runBlocks = 0
		}

		for _, b := range p.Blocks {
			if b.Zone != model.Body {
				flush()
				continue
			}
			lines := blockLines(b)
			if !isDenseMarkerBlock(lines) {
				flush()
				continue
			}
			run = append(run, lines...)
			runBlocks++
		}
		flush()
	}

	return refs
}

func isDenseMarkerBlock(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	n := 0
	for _, ln := range lines {
		if HasLineMarker(ln) {
			n++
		}
	}
	return float64(n)/float64(len(lines)) >= denseMarkerMinRatio
}

// trailingMarkerCluster looks at the last few pages of the document for
// the longest contiguous run of blocks whose first line carries a
// marker, a common shape for short notes/proceedings with no heading at
// all.
func trailingMarkerCluster(pages []Page) []model.RawReference {
	const lookback = 3
	start := len(pages) - lookback
	if start < 0 {
		start = 0
	}

	var best []string
	var bestPage int
	var cur []string
	curPage := 0

	flush := func() {
		if len(best) < len(cur) {
			best = cur
			bestPage = curPage
		}
		cur = nil
	}

	for _, p := range pages[start:] {
		for _, b := range p.Blocks {
			if b.Zone != model.Body {
				flush()
				continue
			}
			lines := blockLines(b)
			if len(lines) == 0 || !HasLineMarker(lines[0]) {
				flush()
				continue
			}
			if len(cur) == 0 {
				curPage = p.Number
			}
			cur = append(cur, lines...)
		}
		flush()
	}

	if len(best) == 0 {
		return nil
	}
	return segmentLines(best, model.SourceReferenceSection, bestPage)
}

// superscriptMarkers treats an isolated superscript numeral inside a
// running Body block as an inline footnote-style marker and harvests
// the text following it up to the next such numeral. This is the
// weakest, most heuristic fallback and only fires when the first two
// strategies find nothing at all.
func superscriptMarkers(pages []Page) []model.RawReference {
	var refs []model.RawReference

	for _, p := range pages {
		for _, b := range p.Blocks {
			if b.Zone != model.Body {
				continue
			}
			for _, ln := range b.Block.Lines {
				refs = append(refs, superscriptRefsInLine(ln, p.Number)...)
			}
		}
	}

	return refs
}

func superscriptRefsInLine(ln model.Line, pageNumber int) []model.RawReference {
	var refs []model.RawReference
	var marker string
	var text []string
	haveMarker := false

	flush := func() {
		if haveMarker && len(text) > 0 {
			joined := joinTexts(text)
			if ContainsCitationContent(joined) {
				refs = append(refs, model.RawReference{
					Text: joined, LineMarker: marker, Source: model.SourceReferenceSection, PageNumber: pageNumber,
				})
			}
		}
		text = nil
	}

	for _, w := range ln.Words {
		if w.IsSuperscript && isSmallNumeral(w.Text) {
			flush()
			marker = w.Text
			haveMarker = true
			continue
		}
		text = append(text, w.Text)
	}
	flush()
	return refs
}

func isSmallNumeral(s string) bool {
	if s == "" || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func joinTexts(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}
