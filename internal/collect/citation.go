package collect

import "regexp"

var (
	yearContentRe    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	arxivPrefixRe    = regexp.MustCompile(`\b(hep-|astro-|gr-qc|cond-mat|nucl-)`)
	journalMarkRe    = regexp.MustCompile(`\b(Phys\.|Nucl\.|Lett\.|Rev\.|JHEP|JCAP)\b`)
	doiOrArxivWordRe = regexp.MustCompile(`\barXiv\b|\bdoi:|\bDOI:`)
)

// ContainsCitationContent implements the "citation content" test from
// spec.md §4.4/GLOSSARY: a 4-digit year in 1900-2099, a DOI/arXiv literal,
// an arXiv archive prefix, or a journal-abbreviation fragment.
func ContainsCitationContent(text string) bool {
	return yearContentRe.MatchString(text) ||
		arxivPrefixRe.MatchString(text) ||
		journalMarkRe.MatchString(text) ||
		doiOrArxivWordRe.MatchString(text)
}

// ScoreLine implements the per-line scoring rule used by heading
// validation (spec.md §4.4): 2 if the line begins with a marker and the
// post-marker text has citation content, 1 if it merely contains citation
// content, 0 otherwise.
func ScoreLine(text string) int {
	if marker, rest, ok := ExtractLineMarker(text); ok {
		_ = marker
		if ContainsCitationContent(rest) {
			return 2
		}
	}
	if ContainsCitationContent(text) {
		return 1
	}
	return 0
}
