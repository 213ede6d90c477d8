// Package zones classifies layout Blocks into header/page-number/footnote/
// body zones, and separately detects reference-section headings — the
// second pipeline stage (spec.md §4.2).
package zones

import (
	"regexp"
	"strings"

	"github.com/Osso/refextract/internal/model"
	"github.com/Osso/refextract/internal/strutil"
)

const (
	headerTopFraction      = 0.95
	pageNumberBotFraction  = 0.03
	footnoteBotFraction    = 0.25
	footnoteFontFactor     = 0.9
)

// BodyFontSize computes the process-wide body font size: the mode of
// per-line font sizes across all pages, weighted by word count
// (spec.md §4.2).
func BodyFontSize(pagesBlocks [][]model.Block) float64 {
	weights := make(map[float64]int)
	for _, blocks := range pagesBlocks {
		for _, b := range blocks {
			for _, ln := range b.Lines {
				weights[ln.FontSize] += len(ln.Words)
			}
		}
	}
	best := 0.0
	bestN := 0
	for size, n := range weights {
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

// Classify assigns a ZoneKind to a block given the page height and the
// process-wide body font size, per the decision table in spec.md §4.2.
func Classify(b model.Block, pageHeight, bodyFontSize float64) model.ZoneKind {
	if pageHeight <= 0 {
		return model.Body
	}

	if b.Y/pageHeight > headerTopFraction {
		return model.Header
	}

	bottom := b.Y - b.Height
	if bottom/pageHeight < pageNumberBotFraction && isAllDigitsOrDash(b.Text()) {
		return model.PageNumber
	}

	if bottom/pageHeight < footnoteBotFraction &&
		b.FontSize < footnoteFontFactor*bodyFontSize &&
		firstWordSuperscript(b) {
		return model.Footnote
	}

	return model.Body
}

func isAllDigitsOrDash(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return strutil.IsAllDigitsOrDash(strings.ReplaceAll(trimmed, " ", ""))
}

func firstWordSuperscript(b model.Block) bool {
	for _, ln := range b.Lines {
		if len(ln.Words) > 0 {
			return ln.Words[0].IsSuperscript
		}
	}
	return false
}

// ClassifyPage classifies every block on a page into ZonedBlocks.
func ClassifyPage(blocks []model.Block, pageNumber int, pageHeight, bodyFontSize float64) []model.ZonedBlock {
	out := make([]model.ZonedBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, model.ZonedBlock{
			Block:      b,
			Zone:       Classify(b, pageHeight, bodyFontSize),
			PageNumber: pageNumber,
		})
	}
	return out
}

var headingExact = map[string]bool{
	"REFERENCES":             true,
	"BIBLIOGRAPHY":           true,
	"REFERENCES AND NOTES":   true,
	"LITERATURE CITED":       true,
}

// trailing "(36)-(84)" style parenthesized digit range
var trailingRangeRe = regexp.MustCompile(`\s*\(\d+\)\s*-\s*\(\d+\)\s*$`)

// a prefix of digits/dots/spaces, ending with space or dot, preceding the
// keyword; at most one bare digit unless a separator (dot/space) follows it
var prefixRe = regexp.MustCompile(`^([0-9]+|[IVXLCDM]+)([.\s]+)?[.\s]$|^[.\s]+$`)

var dotLeaderRe = regexp.MustCompile(`\.\s*\.\s*\.|…\s*…|…{2,}`)

const headingMaxLen = 30

// IsReferenceHeading reports whether text (a block's or a single line's
// text) qualifies as a reference-section heading, per spec.md §4.2.
func IsReferenceHeading(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	if hasDotLeader(trimmed) {
		return false
	}

	normalized := strutil.Upper(strings.TrimSpace(trimmed))
	normalized = trailingRangeRe.ReplaceAllString(normalized, "")
	normalized = strings.TrimRight(normalized, " ")
	normalized = strings.TrimSuffix(normalized, ":")
	normalized = strings.TrimSuffix(normalized, ".")
	normalized = strings.TrimSpace(normalized)

	if headingExact[normalized] {
		return true
	}

	if len(normalized) >= headingMaxLen {
		return false
	}

	for _, kw := range []string{"REFERENCES", "BIBLIOGRAPHY"} {
		if idx := strings.Index(normalized, kw); idx >= 0 {
			prefix := normalized[:idx]
			suffix := normalized[idx+len(kw):]

			if acceptablePrefix(prefix) && acceptableSuffix(suffix) {
				return true
			}
		}
	}

	return false
}

func hasDotLeader(text string) bool {
	return dotLeaderRe.MatchString(text)
}

// acceptablePrefix accepts prefixes like "IX. ", "5. ", "1204 " that
// precede REFERENCES/BIBLIOGRAPHY: digits/dots/spaces (or a roman
// numeral), ending with a space or dot. Rejects "1204REFERENCES" (no
// separator at all between the numeral and the keyword). An empty
// prefix is always acceptable (heading with no leading numeral).
func acceptablePrefix(prefix string) bool {
	if prefix == "" {
		return true
	}

	trimmed := strings.TrimRight(prefix, " ")
	if trimmed == prefix && !strings.HasSuffix(prefix, ".") {
		// no trailing space or dot between prefix and keyword: reject
		// constructs like "1204REFERENCES"
		return false
	}

	digitsOnly := strings.Map(func(r rune) rune {
		if r == ' ' || r == '.' {
			return -1
		}
		return r
	}, prefix)

	if digitsOnly == "" {
		return true
	}

	return strutil.IsAllDigits(digitsOnly) || isRoman(digitsOnly)
}

func isRoman(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch r {
		case 'I', 'V', 'X', 'L', 'C', 'D', 'M':
		default:
			return false
		}
	}
	return true
}

// acceptableSuffix accepts REFERENCES/BIBLIOGRAPHY followed by at most one
// digit (a running-header folio number), e.g. "REFERENCES 5".
func acceptableSuffix(suffix string) bool {
	trimmed := strings.TrimSpace(suffix)
	if trimmed == "" {
		return true
	}
	if len(trimmed) == 1 && strutil.IsAllDigits(trimmed) {
		return true
	}
	return false
}
