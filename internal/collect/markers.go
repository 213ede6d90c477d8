package collect

import "regexp"

// line-marker regexes (spec.md §4.4 GLOSSARY): [N], (N), N., N), and
// author-year bracketed keys like [Smi+12], [ABG14].
var (
	markerBracketNum = regexp.MustCompile(`^\[(\d{1,4})\]`)
	markerParenNum   = regexp.MustCompile(`^\((\d{1,4})\)`)
	markerBareDot    = regexp.MustCompile(`^(\d{1,3})\.(\s|$)`)
	markerBareClose  = regexp.MustCompile(`^(\d{1,3})\)(\s|$)`)
	markerAuthorYear = regexp.MustCompile(`^\[([A-Za-z]{2,6}\+?\d{2,4})\]`)
)

// ExtractLineMarker strips a leading line marker from text, returning the
// marker (without surrounding brackets/punctuation), the remaining text,
// and whether a marker was found.
func ExtractLineMarker(text string) (marker, rest string, ok bool) {
	if m := markerBracketNum.FindStringSubmatchIndex(text); m != nil {
		return text[m[2]:m[3]], text[m[1]:], true
	}
	if m := markerAuthorYear.FindStringSubmatchIndex(text); m != nil {
		return text[m[2]:m[3]], text[m[1]:], true
	}
	if m := markerParenNum.FindStringSubmatchIndex(text); m != nil {
		return text[m[2]:m[3]], text[m[1]:], true
	}
	if m := markerBareDot.FindStringSubmatchIndex(text); m != nil {
		return text[m[2]:m[3]], text[m[1]:], true
	}
	if m := markerBareClose.FindStringSubmatchIndex(text); m != nil {
		return text[m[2]:m[3]], text[m[1]:], true
	}
	return "", text, false
}

// HasLineMarker reports whether text begins with a recognized line
// marker, without extracting it.
func HasLineMarker(text string) bool {
	_, _, ok := ExtractLineMarker(text)
	return ok
}
