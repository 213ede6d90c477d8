package driver

import (
	"github.com/gedex/inflector"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Reporter formats batch-progress lines with locale-aware thousands
// separators and correctly pluralized nouns.
type Reporter struct {
	printer *message.Printer
}

// NewReporter builds a Reporter using American English formatting
// conventions (thousands-comma grouping).
func NewReporter() *Reporter {
	return &Reporter{printer: message.NewPrinter(language.AmericanEnglish)}
}

// Summary formats a one-line batch summary, e.g. "12 documents
// processed, 1,204 references extracted, 2 failures".
func (r *Reporter) Summary(docsDone, refsExtracted, failures int) string {
	line := r.printer.Sprintf("%d %s processed, %d %s extracted",
		docsDone, countWord(docsDone, "document"),
		refsExtracted, countWord(refsExtracted, "reference"))
	if failures > 0 {
		line += r.printer.Sprintf(", %d %s", failures, countWord(failures, "failure"))
	}
	return line
}

func countWord(n int, singular string) string {
	if n == 1 {
		return singular
	}
	return inflector.Pluralize(singular)
}
