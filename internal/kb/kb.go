// Package kb loads the three read-only knowledge bases — journal
// abbreviations, report-number prefixes, and collaboration names — and
// exposes the three match primitives the Tokenizer stage needs
// (spec.md §4.3). A KB is built once at startup and is safe for
// concurrent reads thereafter (spec.md §5); nothing here mutates KB
// state after Load returns.
package kb

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// KB bundles the three loaded knowledge bases.
type KB struct {
	Journals       *JournalIndex
	ReportNumbers  *ReportTrie
	Collaborations *CollabIndex
}

// Load reads the three KB files and builds the in-memory indices.
func Load(journals, reportNumbers, collaborations io.Reader) (*KB, error) {
	j, err := LoadJournals(journals)
	if err != nil {
		return nil, fmt.Errorf("kb: journals: %w", err)
	}
	r, err := LoadReportNumbers(reportNumbers)
	if err != nil {
		return nil, fmt.Errorf("kb: report numbers: %w", err)
	}
	c, err := LoadCollaborations(collaborations)
	if err != nil {
		return nil, fmt.Errorf("kb: collaborations: %w", err)
	}
	return &KB{Journals: j, ReportNumbers: r, Collaborations: c}, nil
}

// scanRecordLines reads lines from r, skipping blank lines and comment
// lines beginning with '#' (spec.md §6). extraSkip is consulted for
// file-specific extra skip rules (e.g. the report-number file's "*****"
// separator lines).
func scanRecordLines(r io.Reader, extraSkip func(string) bool, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if extraSkip != nil && extraSkip(trimmed) {
			continue
		}
		fn(trimmed)
	}
	return scanner.Err()
}

// splitRecord splits a "FIELD_A --- FIELD_B" KB line into its two
// trimmed fields. ok is false for malformed lines (spec.md §7: silently
// skipped at load time).
func splitRecord(line string) (a, b string, ok bool) {
	idx := strings.Index(line, "---")
	if idx < 0 {
		return "", "", false
	}
	a = strings.TrimSpace(line[:idx])
	b = strings.TrimSpace(line[idx+3:])
	if a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}
