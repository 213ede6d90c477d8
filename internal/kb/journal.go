package kb

import (
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/Osso/refextract/internal/strutil"
)

type journalEntry struct {
	normalized string // NormalizeKBKey'd full title or abbreviation
	abbrev     string // canonical abbreviation to emit
}

// JournalIndex holds the longest-first full-title and abbreviation lists
// described in spec.md §4.3.
type JournalIndex struct {
	fullTitles []journalEntry
	abbrevs    []journalEntry
}

const minAbbrevLen = 3

// LoadJournals parses "FULL_NAME --- ABBREV" records into a JournalIndex.
func LoadJournals(r io.Reader) (*JournalIndex, error) {
	idx := &JournalIndex{}

	err := scanRecordLines(r, nil, func(line string) {
		full, abbrev, ok := splitRecord(line)
		if !ok {
			return
		}

		normFull := strutil.NormalizeKBKey(full)
		if normFull != "" {
			idx.fullTitles = append(idx.fullTitles, journalEntry{normalized: normFull, abbrev: abbrev})
		}

		normAbbrev := strutil.NormalizeKBKey(abbrev)
		if len(normAbbrev) < minAbbrevLen {
			// too short: dropped to avoid false positives (spec.md §4.3)
			return
		}
		idx.abbrevs = append(idx.abbrevs, journalEntry{normalized: normAbbrev, abbrev: abbrev})
	})
	if err != nil {
		return nil, err
	}

	sortLongestFirst(idx.fullTitles)
	sortLongestFirst(idx.abbrevs)

	return idx, nil
}

func sortLongestFirst(entries []journalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].normalized) > len(entries[j].normalized)
	})
}

// MatchJournalName requires a word boundary at pos (spec.md §4.3) and
// tries the full-title index, then the abbreviation index, returning the
// byte length consumed in the original text and the canonical
// abbreviation on success.
func (idx *JournalIndex) MatchJournalName(text string, pos int) (length int, abbrev string, ok bool) {
	if idx == nil || pos < 0 || pos >= len(text) {
		return 0, "", false
	}
	if !wordBoundaryBefore(text, pos) {
		return 0, "", false
	}

	if end, entry, ok := matchLongestEntry(text, pos, idx.fullTitles); ok {
		return end - pos, entry.abbrev, true
	}
	if end, entry, ok := matchLongestEntry(text, pos, idx.abbrevs); ok {
		return end - pos, entry.abbrev, true
	}
	return 0, "", false
}

func wordBoundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r := lastRune(text[:pos])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func lastRune(s string) rune {
	if s == "" {
		return ' '
	}
	runes := []rune(s)
	return runes[len(runes)-1]
}

func matchLongestEntry(text string, pos int, entries []journalEntry) (end int, match journalEntry, ok bool) {
	for _, e := range entries {
		if candidateEnd, matched := matchNormalizedPrefix(text, pos, e.normalized); matched {
			if isJournalBoundary(text, candidateEnd) {
				return candidateEnd, e, true
			}
		}
	}
	return 0, journalEntry{}, false
}

// matchNormalizedPrefix walks text starting at pos, applying the same
// normalization rule as NormalizeKBKey rune-by-rune, and reports the byte
// offset at which the normalized-so-far text equals target.
func matchNormalizedPrefix(text string, pos int, target string) (end int, ok bool) {
	if target == "" {
		return pos, false
	}

	var buf strings.Builder
	whiteSpace := false

	for i, r := range text[pos:] {
		switch r {
		case '.', ':', ' ', '\t', '\n', '\r':
			if !whiteSpace {
				buf.WriteRune(' ')
			}
			whiteSpace = true
		default:
			buf.WriteRune(unicode.ToUpper(r))
			whiteSpace = false
		}

		cur := buf.String()
		trimmed := strings.TrimRight(cur, " ")

		if trimmed == target {
			return pos + i + len(string(r)), true
		}
		if !strings.HasPrefix(target, trimmed) {
			return pos, false
		}
	}

	return pos, false
}

// isJournalBoundary implements the boundary rule from spec.md §4.3: a
// journal match must end at end-of-string, a non-alphanumeric next char,
// or an uppercase letter immediately followed by a digit (section-letter
// plus volume, e.g. "Phys. Rev. C40").
func isJournalBoundary(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	rest := text[pos:]
	runes := []rune(rest)
	if len(runes) == 0 {
		return true
	}
	if !unicode.IsLetter(runes[0]) && !unicode.IsDigit(runes[0]) {
		return true
	}
	if len(runes) >= 2 && unicode.IsUpper(runes[0]) && unicode.IsDigit(runes[1]) {
		return true
	}
	return false
}
