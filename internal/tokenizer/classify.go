package tokenizer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/Osso/refextract/internal/model"
)

var (
	compactVYP    = regexp.MustCompile(`^(\d+)\((\d{4})\)(\d+)$`)
	compactVColP  = regexp.MustCompile(`^(\d+):(\d+)$`)
	compactVParen = regexp.MustCompile(`^(\d+)\((\d+)\)$`)
	compactPLetr  = regexp.MustCompile(`^(\d+)\(([A-Za-z]+)\)$`)
	compactPSlash = regexp.MustCompile(`^(\d+)/(\d+)$`)

	yearRe      = regexp.MustCompile(`^\(?(19|20)\d{2}[a-z]?\)?$`)
	pageRangeRe = regexp.MustCompile(`^\d+[-–—]\d+$`)
	digitsRe    = regexp.MustCompile(`^\d+$`)
)

var connectorSet = map[string]bool{
	",": true, ".": true, ";": true, ":": true,
	"and": true, "et": true, "al": true, "al.": true,
	"&": true, "-": true, "–": true, "—": true,
}

// classifyGap splits a span of text between identifier spans on
// whitespace, repairs hyphen-broken page ranges, and classifies each
// resulting word (spec.md §4.6 step 4).
func classifyGap(t *Tokenizer, text string, baseOffset int) []model.Token {
	fields := splitFieldsWithOffsets(text, baseOffset)
	fields = rejoinHyphenated(fields)
	fields = peelTrailingPunct(fields)

	var out []model.Token
	for _, f := range fields {
		out = append(out, classifyWord(t, f)...)
	}
	return out
}

// peelTrailingPunct splits a single trailing comma/period/semicolon/
// colon off a field into its own Punctuation field, unless the field as
// a whole is one of the recognized whole-token forms (a compact
// numeration, ibid[.], a bare year, or a connector already in
// connectorSet). Prose attaches this punctuation directly to the
// preceding word ("2010." "181." "Jones,"), so without this step a
// plain Number/Year never classifies correctly.
func peelTrailingPunct(fields []fieldSpan) []fieldSpan {
	var out []fieldSpan
	for _, f := range fields {
		if isWholeFieldException(f.Text) || len(f.Text) <= 1 {
			out = append(out, f)
			continue
		}
		last := f.Text[len(f.Text)-1]
		if last != ',' && last != '.' && last != ';' && last != ':' {
			out = append(out, f)
			continue
		}
		out = append(out,
			fieldSpan{Text: f.Text[:len(f.Text)-1], Start: f.Start, End: f.End - 1},
			fieldSpan{Text: f.Text[len(f.Text)-1:], Start: f.End - 1, End: f.End},
		)
	}
	return out
}

func isWholeFieldException(text string) bool {
	if connectorSet[text] {
		return true
	}
	if compactVYP.MatchString(text) || compactVColP.MatchString(text) ||
		compactVParen.MatchString(text) || compactPLetr.MatchString(text) ||
		compactPSlash.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	if lower == "ibid" || lower == "ibid." {
		return true
	}
	return yearRe.MatchString(text)
}

type fieldSpan struct {
	Text       string
	Start, End int
}

func splitFieldsWithOffsets(text string, baseOffset int) []fieldSpan {
	var out []fieldSpan
	inField := false
	start := 0
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inField {
				out = append(out, fieldSpan{Text: text[start:i], Start: baseOffset + start, End: baseOffset + i})
				inField = false
			}
			continue
		}
		if !inField {
			start = i
			inField = true
		}
	}
	if inField {
		out = append(out, fieldSpan{Text: text[start:], Start: baseOffset + start, End: baseOffset + len(text)})
	}
	return out
}

// rejoinHyphenated merges two adjacent words when the first ends with a
// hyphen/en-dash/em-dash (after trailing-punctuation trim) and the
// second starts with a digit, repairing page ranges broken across
// lines (spec.md §4.6, just before step 4's classification).
func rejoinHyphenated(fields []fieldSpan) []fieldSpan {
	var out []fieldSpan
	i := 0
	for i < len(fields) {
		if i+1 < len(fields) && endsWithHyphen(fields[i].Text) && startsWithDigit(fields[i+1].Text) {
			out = append(out, fieldSpan{
				Text:  fields[i].Text + fields[i+1].Text,
				Start: fields[i].Start, End: fields[i+1].End,
			})
			i += 2
			continue
		}
		out = append(out, fields[i])
		i++
	}
	return out
}

func endsWithHyphen(s string) bool {
	trimmed := strings.TrimRight(s, ".,;:")
	if trimmed == "" {
		return false
	}
	r := []rune(trimmed)
	last := r[len(r)-1]
	return last == '-' || last == '–' || last == '—'
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// classifyWord classifies one already-delimited word, possibly
// decomposing a compact numeration into several Number/Year tokens in
// sequence so Parse's existing window-assignment rules apply uniformly
// (spec.md §4.6 step 4 / §4.7).
func classifyWord(t *Tokenizer, f fieldSpan) []model.Token {
	text := f.Text

	if m := compactVYP.FindStringSubmatch(text); m != nil {
		return []model.Token{
			numberTok(m[1], f), yearTok(m[2], f), numberTok(m[3], f),
		}
	}
	if m := compactVColP.FindStringSubmatch(text); m != nil {
		return []model.Token{numberTok(m[1], f), numberTok(m[2], f)}
	}
	if m := compactVParen.FindStringSubmatch(text); m != nil {
		if y, err := strconv.Atoi(m[2]); err == nil && len(m[2]) == 4 && isPlausibleYear(y) {
			return []model.Token{numberTok(m[1], f), yearTok(m[2], f)}
		}
		// V(issue): issue discarded, volume kept
		return []model.Token{numberTok(m[1], f)}
	}
	if m := compactPLetr.FindStringSubmatch(text); m != nil {
		// letter/suffix discarded
		return []model.Token{numberTok(m[1], f)}
	}
	if m := compactPSlash.FindStringSubmatch(text); m != nil {
		// suffix discarded
		return []model.Token{numberTok(m[1], f)}
	}

	lower := strings.ToLower(text)
	if lower == "ibid" || lower == "ibid." {
		return []model.Token{{Kind: model.Ibid, Text: text, Start: f.Start, End: f.End}}
	}

	if connectorSet[text] {
		return []model.Token{{Kind: model.Punctuation, Text: text, Start: f.Start, End: f.End}}
	}

	if m := yearRe.FindStringSubmatch(text); m != nil {
		if y, err := strconv.Atoi(yearDigitsOf(text)); err == nil && isPlausibleYear(y) {
			return []model.Token{{Kind: model.Year, Text: text, Normalized: yearDigitsOf(text), Start: f.Start, End: f.End}}
		}
	}

	if pageRangeRe.MatchString(text) {
		return []model.Token{{Kind: model.PageRange, Text: text, Start: f.Start, End: f.End}}
	}

	if digitsRe.MatchString(text) {
		return []model.Token{{Kind: model.Number, Text: text, Start: f.Start, End: f.End}}
	}

	if t.Collabs != nil {
		if canonical, ok := t.Collabs.Match(text); ok {
			return []model.Token{{Kind: model.Collaboration, Text: text, Normalized: canonical, Start: f.Start, End: f.End}}
		}
	}

	return []model.Token{{Kind: model.Word_, Text: text, Start: f.Start, End: f.End}}
}

func numberTok(digits string, f fieldSpan) model.Token {
	return model.Token{Kind: model.Number, Text: digits, Start: f.Start, End: f.End}
}

func yearTok(digits string, f fieldSpan) model.Token {
	return model.Token{Kind: model.Year, Text: digits, Normalized: digits, Start: f.Start, End: f.End}
}

func isPlausibleYear(y int) bool {
	return y >= 1900 && y <= 2030
}

func yearDigitsOf(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
