package collect

import (
	"regexp"
	"strings"

	"github.com/Osso/refextract/internal/model"
)

// a standalone "(2011)." or "(2011)" continuation line: looks like a new
// bracket marker but is in fact a stray year carried onto its own line by
// a page break, and must not start a new reference (spec.md §4.4).
var standaloneYearParenRe = regexp.MustCompile(`^\((?:19|20)\d{2}\)\.?$`)

// segmentLines splits harvested lines into individual raw references on
// line-marker boundaries, treating unmarked lines (and standalone year
// parentheticals) as continuations of the current reference.
func segmentLines(lines []string, source model.RefSource, pageNumber int) []model.RawReference {
	var refs []model.RawReference
	var cur strings.Builder
	var curMarker string
	open := false

	flush := func() {
		if !open {
			return
		}
		text := strings.TrimSpace(cur.String())
		if text != "" {
			refs = append(refs, model.RawReference{
				Text:       text,
				LineMarker: curMarker,
				Source:     source,
				PageNumber: pageNumber,
			})
		}
		cur.Reset()
		curMarker = ""
		open = false
	}

	appendText := func(s string) {
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(s)
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if standaloneYearParenRe.MatchString(line) {
			appendText(line)
			open = true
			continue
		}

		if marker, rest, ok := ExtractLineMarker(line); ok {
			flush()
			curMarker = marker
			open = true
			appendText(strings.TrimSpace(rest))
			continue
		}

		appendText(line)
		open = true
	}
	flush()

	return refs
}
