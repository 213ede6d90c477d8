package collect

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Osso/refextract/internal/model"
)

const overlongThreshold = 200

// an author-name start: "Surname, I." or "Surname, I.-K." (initials with
// an optional hyphenated second initial)
var authorStartRe = regexp.MustCompile(`\p{Lu}[\p{L}'-]+,\s+\p{Lu}\.(?:-?\p{Lu}\.)?`)

// a single-token initial like "J." or "J.-K." — used to avoid
// mis-splitting on "Surname, J. Smith" where "Smith" isn't a new author
var initialTokenRe = regexp.MustCompile(`^\p{Lu}\.(?:-\p{Lu}\.?)?$`)

// splitOverlong re-scans any raw reference longer than overlongThreshold
// characters for embedded author starts (spec.md §4.4 "Author-date
// sub-splitting"), a sign that page-continuation harvesting glued
// multiple author-date references together with no line marker between
// them.
func splitOverlong(refs []model.RawReference) []model.RawReference {
	out := make([]model.RawReference, 0, len(refs))
	for _, r := range refs {
		if len(r.Text) <= overlongThreshold {
			out = append(out, r)
			continue
		}
		out = append(out, splitOneOverlong(r)...)
	}
	return out
}

func splitOneOverlong(r model.RawReference) []model.RawReference {
	positions := authorSplitPositions(r.Text)
	if len(positions) == 0 {
		return []model.RawReference{r}
	}

	var out []model.RawReference
	start := 0
	marker := r.LineMarker
	for _, p := range positions {
		chunk := strings.TrimSpace(r.Text[start:p])
		if chunk != "" {
			out = append(out, model.RawReference{
				Text: chunk, LineMarker: marker, Source: r.Source, PageNumber: r.PageNumber,
			})
		}
		marker = ""
		start = p
	}
	last := strings.TrimSpace(r.Text[start:])
	if last != "" {
		out = append(out, model.RawReference{
			Text: last, LineMarker: marker, Source: r.Source, PageNumber: r.PageNumber,
		})
	}
	return out
}

// authorSplitPositions finds byte offsets where a new author-date
// reference plausibly begins inside text: an author-start match whose
// immediately preceding non-space character is a reference terminator
// (closing bracket, digit, or a sentence-ending period that isn't
// itself part of a bare initial).
func authorSplitPositions(text string) []int {
	matches := authorStartRe.FindAllStringIndex(text, -1)
	var positions []int
	for _, m := range matches {
		start := m[0]
		if start == 0 {
			continue
		}
		prefix := strings.TrimRight(text[:start], " ")
		if prefix == "" {
			continue
		}
		last := prefix[len(prefix)-1]
		switch {
		case last == ')' || last == ']':
			positions = append(positions, start)
		case unicode.IsDigit(rune(last)):
			positions = append(positions, start)
		case last == '.':
			fields := strings.Fields(prefix)
			if len(fields) == 0 {
				continue
			}
			if !initialTokenRe.MatchString(fields[len(fields)-1]) {
				positions = append(positions, start)
			}
		}
	}
	return positions
}
