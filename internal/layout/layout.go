// Package layout reconstructs geometric structure — words, lines, and
// column-aware blocks — from a page's stream of positioned characters.
// It is the first stage of the pipeline (spec.md §4.1) and the only one
// that reasons about 2-D page geometry; every later stage consumes Blocks
// in reading order and never looks at raw coordinates again.
package layout

import (
	"context"
	"math"
	"sort"

	"github.com/Osso/refextract/internal/model"
)

// CharProvider yields the positioned-character stream for a document, page
// by page, in page order. Providing an implementation (extracting glyphs
// from a real PDF, falling back to OCR on blank pages) is out of scope for
// this module (spec.md §1/§6); this interface is the seam a caller wires a
// real backend into.
type CharProvider interface {
	Pages(ctx context.Context, path string) (<-chan model.PageChars, error)
}

// StaticProvider is an in-memory CharProvider backed by a fixed slice of
// pages, used by tests and by callers who already have positioned chars
// from some other source.
type StaticProvider struct {
	PagesData []model.PageChars
}

func (p StaticProvider) Pages(ctx context.Context, _ string) (<-chan model.PageChars, error) {
	out := make(chan model.PageChars, len(p.PagesData))
	for _, pg := range p.PagesData {
		select {
		case out <- pg:
		case <-ctx.Done():
			close(out)
			return out, ctx.Err()
		}
	}
	close(out)
	return out, nil
}

const (
	wordGapFactor       = 0.3
	wordBaselineFactor  = 0.5
	superscriptFactor   = 0.75
	lineBaselineFactor  = 0.5
	lineLookback        = 5
	blockGapFactor      = 1.5
	columnBinCount      = 200
	columnScanLo        = 0.30
	columnScanHi        = 0.70
)

// BuildBlocks runs the full Layout stage on one page: word grouping, line
// grouping, two-column detection and reordering, and block grouping.
// Empty pages yield an empty block list — not an error (spec.md §4.1).
func BuildBlocks(page model.PageChars) []model.Block {
	if len(page.Chars) == 0 {
		return nil
	}

	avgCharWidth := averageCharWidth(page.Chars)
	dominant := dominantFontSize(page.Chars)

	words := groupWords(page.Chars, avgCharWidth, dominant)
	if len(words) == 0 {
		return nil
	}

	lines := groupLines(words)
	lines = reorderForColumns(lines, page.Width)

	return groupBlocks(lines)
}

func averageCharWidth(chars []model.PositionedChar) float64 {
	var sum float64
	var n int
	for _, c := range chars {
		if c.Width > 0 {
			sum += c.Width
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return sum / float64(n)
}

// dominantFontSize is the mode of quantized (rounded to nearest 0.5) font
// sizes across the page's characters.
func dominantFontSize(chars []model.PositionedChar) float64 {
	counts := make(map[float64]int)
	for _, c := range chars {
		q := math.Round(c.FontSize*2) / 2
		counts[q]++
	}
	best := 0.0
	bestN := 0
	for size, n := range counts {
		if n > bestN || (n == bestN && size < best) {
			best = size
			bestN = n
		}
	}
	if best == 0 {
		return 10
	}
	return best
}

type wordBuilder struct {
	text     []rune
	x, y     float64 // x of first glyph, baseline y of first glyph
	right    float64 // right edge of last glyph appended
	width    float64
	height   float64
	fontSize float64
}

func groupWords(chars []model.PositionedChar, avgCharWidth, dominantFontSize float64) []model.Word {
	var words []model.Word
	var cur *wordBuilder

	flush := func() {
		if cur == nil || len(cur.text) == 0 {
			cur = nil
			return
		}
		w := model.Word{
			Text:     string(cur.text),
			X:        cur.x,
			Y:        cur.y,
			Width:    cur.right - cur.x,
			Height:   cur.height,
			FontSize: cur.fontSize,
		}
		w.IsSuperscript = w.FontSize < superscriptFactor*dominantFontSize
		words = append(words, w)
		cur = nil
	}

	for _, c := range chars {
		if c.Codepoint == ' ' {
			flush()
			continue
		}

		if cur == nil {
			cur = &wordBuilder{
				text:     []rune{c.Codepoint},
				x:        c.X,
				y:        c.Y,
				right:    c.X + c.Width,
				height:   c.Height,
				fontSize: c.FontSize,
			}
			continue
		}

		gap := c.X - cur.right
		vdelta := math.Abs(c.Y - cur.y)

		if gap > wordGapFactor*avgCharWidth || vdelta > wordBaselineFactor*dominantFontSize {
			flush()
			cur = &wordBuilder{
				text:     []rune{c.Codepoint},
				x:        c.X,
				y:        c.Y,
				right:    c.X + c.Width,
				height:   c.Height,
				fontSize: c.FontSize,
			}
			continue
		}

		cur.text = append(cur.text, c.Codepoint)
		cur.right = c.X + c.Width
		if c.Height > cur.height {
			cur.height = c.Height
		}
	}
	flush()

	return words
}

func groupLines(words []model.Word) []model.Line {
	var lines []model.Line

	for _, w := range words {
		placed := false
		lookback := lineLookback
		if lookback > len(lines) {
			lookback = len(lines)
		}
		for i := 0; i < lookback; i++ {
			idx := len(lines) - 1 - i
			ln := &lines[idx]
			if math.Abs(ln.Y-w.Y) < lineBaselineFactor*w.FontSize {
				ln.Words = append(ln.Words, w)
				if w.FontSize > ln.FontSize {
					ln.FontSize = w.FontSize
				}
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, model.Line{
				Words:    []model.Word{w},
				Y:        w.Y,
				FontSize: w.FontSize,
			})
		}
	}

	for i := range lines {
		sortLineWords(&lines[i])
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Y > lines[j].Y // descending y: top of page first
	})

	return lines
}

func sortLineWords(ln *model.Line) {
	sort.SliceStable(ln.Words, func(i, j int) bool {
		return ln.Words[i].X < ln.Words[j].X
	})
	if len(ln.Words) > 0 {
		ln.XStart = ln.Words[0].X
		last := ln.Words[len(ln.Words)-1]
		ln.XEnd = last.X + last.Width
	}
}

// reorderForColumns detects a two-column gutter via the histogram test in
// spec.md §4.1 and, if found, partitions every line word-wise into a left
// and right half, yielding all left lines (in order) followed by all right
// lines (in order).
func reorderForColumns(lines []model.Line, pageWidth float64) []model.Line {
	if pageWidth <= 0 || len(lines) == 0 {
		return lines
	}

	binWidth := pageWidth / columnBinCount
	if binWidth <= 0 {
		return lines
	}

	coverage := make([]int, columnBinCount)
	for _, ln := range lines {
		for _, w := range ln.Words {
			startBin := int(w.X / binWidth)
			endBin := int((w.X + w.Width) / binWidth)
			for b := startBin; b <= endBin; b++ {
				if b >= 0 && b < columnBinCount {
					coverage[b]++
				}
			}
		}
	}

	numLines := len(lines)
	threshold := float64(numLines) / 10.0

	lo := int(columnScanLo * columnBinCount)
	hi := int(columnScanHi * columnBinCount)

	bestStart, bestEnd, bestLen := -1, -1, 0
	runStart := -1
	for b := lo; b < hi; b++ {
		if float64(coverage[b]) <= threshold {
			if runStart == -1 {
				runStart = b
			}
			if b-runStart+1 > bestLen {
				bestLen = b - runStart + 1
				bestStart = runStart
				bestEnd = b
			}
		} else {
			runStart = -1
		}
	}

	if bestStart == -1 || bestLen < 1 {
		return lines
	}

	boundary := (float64(bestStart+bestEnd+1) / 2.0) * binWidth

	var left, right []model.Line
	for _, ln := range lines {
		var leftWords, rightWords []model.Word
		for _, w := range ln.Words {
			center := w.X + w.Width/2
			if center < boundary {
				leftWords = append(leftWords, w)
			} else {
				rightWords = append(rightWords, w)
			}
		}
		if len(leftWords) > 0 {
			l := model.Line{Words: leftWords, Y: ln.Y, FontSize: ln.FontSize}
			sortLineWords(&l)
			left = append(left, l)
		}
		if len(rightWords) > 0 {
			r := model.Line{Words: rightWords, Y: ln.Y, FontSize: ln.FontSize}
			sortLineWords(&r)
			right = append(right, r)
		}
	}

	return append(left, right...)
}

func groupBlocks(lines []model.Line) []model.Block {
	var blocks []model.Block

	for _, ln := range lines {
		if len(blocks) == 0 {
			blocks = append(blocks, newBlock(ln))
			continue
		}

		last := &blocks[len(blocks)-1]
		prevLine := last.Lines[len(last.Lines)-1]

		gap := prevLine.Y - ln.Y
		overlaps := ln.XStart < prevLine.XEnd && ln.XEnd > prevLine.XStart

		if gap >= 0 && gap < blockGapFactor*ln.FontSize && overlaps {
			last.Lines = append(last.Lines, ln)
			extendBlock(last, ln)
			continue
		}

		blocks = append(blocks, newBlock(ln))
	}

	return blocks
}

func newBlock(ln model.Line) model.Block {
	b := model.Block{
		Lines:    []model.Line{ln},
		X:        ln.XStart,
		Y:        ln.Y,
		Width:    ln.XEnd - ln.XStart,
		Height:   ln.FontSize,
		FontSize: ln.FontSize,
	}
	return b
}

func extendBlock(b *model.Block, ln model.Line) {
	if ln.XStart < b.X {
		b.Width += b.X - ln.XStart
		b.X = ln.XStart
	}
	if ln.XEnd > b.X+b.Width {
		b.Width = ln.XEnd - b.X
	}
	b.Height = b.Lines[0].Y - ln.Y + ln.FontSize
	if ln.FontSize > b.FontSize {
		b.FontSize = ln.FontSize
	}
}
