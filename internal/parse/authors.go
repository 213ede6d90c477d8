package parse

import (
	"strings"

	"github.com/Osso/refextract/internal/model"
)

// quotePair is one (open, close) rune pair tried in order for title
// extraction (spec.md §4.7).
type quotePair struct{ open, close rune }

var titleQuotePairs = []quotePair{
	{'“', '”'},
	{'”', '”'},
	{'"', '"'},
}

// extractTitle returns the text of the first balanced quote pair found
// in raw, trying each convention in titleQuotePairs in order.
func extractTitle(raw string) (string, bool) {
	for _, qp := range titleQuotePairs {
		if title, ok := firstBalancedQuote(raw, qp.open, qp.close); ok {
			return title, true
		}
	}
	return "", false
}

func firstBalancedQuote(raw string, open, close rune) (string, bool) {
	start := strings.IndexRune(raw, open)
	if start < 0 {
		return "", false
	}
	after := start + len(string(open))
	end := strings.IndexRune(raw[after:], close)
	if end < 0 {
		return "", false
	}
	return raw[after : after+end], true
}

var quoteRunes = "\"'“”‘’"

func containsQuote(text string) bool {
	return strings.ContainsAny(text, quoteRunes)
}

// stopsAuthorWalk reports whether tok ends the author-word walk
// (spec.md §4.7 "Authors and title").
func stopsAuthorWalk(tok model.Token) bool {
	switch tok.Kind {
	case model.JournalName, model.Doi, model.ArxivId, model.ReportNumber,
		model.Year, model.Number, model.PageRange, model.Ibid:
		return true
	}
	return containsQuote(tok.Text)
}

// extractAuthors walks tokens collecting Word token texts (skipping
// LineMarker) until stopsAuthorWalk fires, joins them with spaces, trims
// a trailing comma, and returns it when longer than 2 characters.
func extractAuthors(tokens []model.Token) (string, bool) {
	var words []string
	for _, tok := range tokens {
		if tok.Kind == model.LineMarker {
			continue
		}
		if stopsAuthorWalk(tok) {
			break
		}
		if tok.Kind == model.Word_ {
			words = append(words, tok.Text)
		}
	}

	joined := strings.TrimSpace(strings.Join(words, " "))
	joined = strings.TrimRight(joined, ",")
	joined = strings.TrimSpace(joined)

	if len(joined) > 2 {
		return joined, true
	}
	return "", false
}
