package tokenizer

import (
	"regexp"
	"strings"

	"github.com/Osso/refextract/internal/model"
)

var (
	doiRe      = regexp.MustCompile(`10\.\d{4,}/[^\s,;]+`)
	urlRe      = regexp.MustCompile(`https?://[^\s,;]+`)
	arxivOldRe = regexp.MustCompile(`(hep|astro|cond|gr|math|nucl|physics|quant|cs|nlin|q-bio|q-fin|stat)(-[a-z]{2,3})?[\s/]+\d{7}(v\d+)?`)
	arxivNewRe = regexp.MustCompile(`\d{4}\.\d{4,5}(v\d+)?`)
	isbnRe     = regexp.MustCompile(`(978|979)[-\s]?\d[-\s]?\d{2,5}[-\s]?\d{2,5}[-\s]?\d`)

	arxivOldSplitRe = regexp.MustCompile(`[\s/]+`)
)

var trailingTrimSet = ".)]}>"

type identSpan struct {
	Start, End int
	Kind       model.TokenKind
	Normalized string
}

// identifierSpans finds every identifier-shaped span in text (spec.md
// §4.6 step 2), resolves overlaps by keeping the longer span (step 3),
// and returns them sorted by Start.
func (t *Tokenizer) identifierSpans(text string) []identSpan {
	var candidates []identSpan

	for _, m := range doiRe.FindAllStringIndex(text, -1) {
		start, end := trimTrailingPunct(text, m[0], m[1])
		candidates = append(candidates, identSpan{Start: start, End: end, Kind: model.Doi})
	}
	for _, m := range urlRe.FindAllStringIndex(text, -1) {
		start, end := trimTrailingPunct(text, m[0], m[1])
		candidates = append(candidates, identSpan{Start: start, End: end, Kind: model.Url})
	}
	for _, m := range arxivOldRe.FindAllStringIndex(text, -1) {
		norm := arxivOldSplitRe.ReplaceAllString(text[m[0]:m[1]], "-")
		candidates = append(candidates, identSpan{Start: m[0], End: m[1], Kind: model.ArxivId, Normalized: norm})
	}
	for _, m := range arxivNewRe.FindAllStringIndex(text, -1) {
		candidates = append(candidates, identSpan{Start: m[0], End: m[1], Kind: model.ArxivId, Normalized: text[m[0]:m[1]]})
	}
	for _, m := range isbnRe.FindAllStringIndex(text, -1) {
		candidates = append(candidates, identSpan{Start: m[0], End: m[1], Kind: model.Isbn})
	}

	candidates = append(candidates, t.reportNumberSpans(text)...)
	candidates = append(candidates, t.journalNameSpans(text)...)

	return resolveOverlaps(candidates)
}

func trimTrailingPunct(text string, start, end int) (int, int) {
	for end > start && strings.IndexByte(trailingTrimSet, text[end-1]) >= 0 {
		end--
	}
	return start, end
}

// reportNumberSpans repeatedly scans the remaining text for the
// longest report-number match, since kb.ReportTrie.FindMatch only
// returns a single best match per call.
func (t *Tokenizer) reportNumberSpans(text string) []identSpan {
	if t.Reports == nil {
		return nil
	}
	var spans []identSpan
	offset := 0
	for offset < len(text) {
		s, e, std, ok := t.Reports.FindMatch(text[offset:])
		if !ok {
			break
		}
		spans = append(spans, identSpan{Start: offset + s, End: offset + e, Kind: model.ReportNumber, Normalized: std})
		if e == 0 {
			break
		}
		offset += e
	}
	return spans
}

// journalNameSpans scans left-to-right outside quoted regions for
// known journal names, extending a match through a trailing section
// letter ("Phys. Rev. D31" -> journal "Phys. Rev. D", volume "31"
// tokenized separately) and absorbing an optional ", " before it.
func (t *Tokenizer) journalNameSpans(text string) []identSpan {
	if t.Journals == nil {
		return nil
	}

	quoted := quotedSpans(text)
	var spans []identSpan
	pos := 0
	for pos < len(text) {
		if insideAnySpan(pos, quoted) {
			pos++
			continue
		}
		length, abbrev, ok := t.Journals.MatchJournalName(text, pos)
		if !ok {
			pos++
			continue
		}
		end := pos + length
		norm := abbrev
		if extra, letter := sectionLetterExtension(text, end); extra > 0 {
			end += extra
			norm = strings.TrimRight(abbrev, " ") + " " + letter
		}
		spans = append(spans, identSpan{Start: pos, End: end, Kind: model.JournalName, Normalized: norm})
		pos = end
	}
	return spans
}

// sectionLetterExtension reports how many extra bytes (and which letter)
// to absorb when a journal match is immediately followed by an optional
// ", " and then a single uppercase letter directly followed by a digit.
func sectionLetterExtension(text string, pos int) (extra int, letter string) {
	j := pos
	for j < len(text) && (text[j] == '.' || text[j] == ',' || text[j] == ' ') {
		j++
	}
	if j+1 < len(text) && isUpperLetter(text[j]) && isDigit(text[j+1]) {
		return j + 1 - pos, text[j : j+1]
	}
	return 0, ""
}

func isUpperLetter(b byte) bool { return b >= 'A' && b <= 'Z' }
func isDigit(b byte) bool       { return b >= '0' && b <= '9' }

// quotedSpans finds every balanced quote-delimited region so journal
// scanning can skip quoted titles; ASCII double quotes and the
// left/right curly double-quote pair are both recognized.
func quotedSpans(text string) [][2]int {
	var spans [][2]int
	var openByte = -1
	var closeRune rune

	for i, r := range text {
		if openByte < 0 {
			switch r {
			case '"':
				openByte, closeRune = i, '"'
			case '“':
				openByte, closeRune = i, '”'
			}
			continue
		}
		if r == closeRune {
			spans = append(spans, [2]int{openByte, i + len(string(r))})
			openByte = -1
		}
	}
	return spans
}

func insideAnySpan(pos int, spans [][2]int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos < s[1] {
			return true
		}
	}
	return false
}

// resolveOverlaps sorts candidates by start (longest first on ties) and
// keeps the longer of any two overlapping spans (spec.md §4.6 step 3).
func resolveOverlaps(candidates []identSpan) []identSpan {
	sortSpans(candidates)

	var out []identSpan
	for _, c := range candidates {
		if len(out) == 0 || c.Start >= out[len(out)-1].End {
			out = append(out, c)
			continue
		}
		last := out[len(out)-1]
		if c.End > last.End && (c.End-c.Start) > (last.End-last.Start) {
			out[len(out)-1] = c
		}
	}
	return out
}

func sortSpans(spans []identSpan) {
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0; j-- {
			a, b := spans[j-1], spans[j]
			if a.Start < b.Start || (a.Start == b.Start && (a.End-a.Start) >= (b.End-b.Start)) {
				break
			}
			spans[j-1], spans[j] = spans[j], spans[j-1]
		}
	}
}
