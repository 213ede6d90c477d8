package parse

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Osso/refextract/internal/model"
)

const windowSize = 8

var (
	wordLetterDigitRe = regexp.MustCompile(`^([A-Z])(\d+)$`)
	wordDigitLetterRe = regexp.MustCompile(`^(\d+)([A-D])$`)
	confCodeRe        = regexp.MustCompile(`^([A-Z]{2,})(\d{4})(?::(\d+))?$`)
)

// windowResult holds the volume/page/year assigned while scanning a
// numeration window, plus the index the scan stopped at so callers can
// resume or track which tokens were consumed.
type windowResult struct {
	Volume, Page, Year string
	EndIdx             int
}

func (w windowResult) hasVolume() bool { return w.Volume != "" }

// scanNumerationWindow implements the token-assignment table from
// spec.md §4.7: up to windowSize following tokens starting at start,
// stopping early at a later JournalName/Doi/ArxivId. journalTitle, if
// non-nil, receives an appended section letter when an old-style
// "31D"/"D31" volume word is found and the title doesn't already end in
// an uppercase letter.
func scanNumerationWindow(tokens []model.Token, start int, journalTitle *string) windowResult {
	var vol, page, year string
	idx := start
	count := 0

	for idx < len(tokens) && count < windowSize {
		tok := tokens[idx]

		switch tok.Kind {
		case model.JournalName, model.Doi, model.ArxivId:
			return windowResult{vol, page, year, idx}

		case model.Number:
			if vol == "" {
				vol = tok.Text
			} else if page == "" {
				page = tok.Text
			}

		case model.Year:
			bare := !strings.ContainsAny(tok.Text, "()")
			if bare && vol == "" {
				vol = tok.Normalized
			}
			if year == "" {
				year = tok.Normalized
			}

		case model.PageRange:
			if vol == "" {
				vol = tok.Text
			} else if page == "" {
				page = tok.Text
			}

		case model.Word_:
			if vol == "" {
				if v, letter, pg, ok := matchWordVolume(tok.Text); ok {
					vol = v
					if pg != "" {
						page = pg
					}
					if letter != "" && journalTitle != nil {
						appendSectionLetter(journalTitle, letter)
					}
				}
			}
		}

		idx++
		count++
	}

	return windowResult{vol, page, year, idx}
}

// matchWordVolume recognizes a handful of non-KB volume notations that
// surface as plain Word tokens: modern "D31"/old-style "31D" section
// letters, and conference-proceedings codes like "LAT2005" or
// "LAT2006:022" (volume/page split on the colon).
func matchWordVolume(text string) (volume, letter, page string, ok bool) {
	if m := wordLetterDigitRe.FindStringSubmatch(text); m != nil {
		return m[2], m[1], "", true
	}
	if m := wordDigitLetterRe.FindStringSubmatch(text); m != nil {
		return m[1], m[2], "", true
	}
	if m := confCodeRe.FindStringSubmatch(text); m != nil {
		return m[1] + m[2], "", m[3], true
	}
	return "", "", "", false
}

func appendSectionLetter(title *string, letter string) {
	t := *title
	if t == "" {
		return
	}
	r := []rune(t)
	if unicode.IsUpper(r[len(r)-1]) {
		return
	}
	*title = t + letter
}
