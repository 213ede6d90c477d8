package kb

import (
	"io"
	"strings"

	"github.com/Osso/refextract/internal/strutil"
)

// CollabIndex maps upper-case collaboration names/aliases to their
// canonical form, matched by substring upper-case containment
// (spec.md §4.3).
type CollabIndex struct {
	entries map[string]string // upper-case name -> canonical
	names   []string          // upper-case names, longest-first
}

// LoadCollaborations parses "NAME --- CANONICAL" records.
func LoadCollaborations(r io.Reader) (*CollabIndex, error) {
	idx := &CollabIndex{entries: make(map[string]string)}

	err := scanRecordLines(r, nil, func(line string) {
		name, canonical, ok := splitRecord(line)
		if !ok {
			return
		}
		upper := strutil.Upper(name)
		if upper == "" {
			return
		}
		idx.entries[upper] = canonical
		idx.names = append(idx.names, upper)
	})
	if err != nil {
		return nil, err
	}

	sortLongestFirstStrings(idx.names)

	return idx, nil
}

func sortLongestFirstStrings(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && len(names[j]) > len(names[j-1]); j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// Match reports whether text contains (case-insensitively) a known
// collaboration name, returning its canonical form.
func (idx *CollabIndex) Match(text string) (canonical string, ok bool) {
	if idx == nil {
		return "", false
	}
	upper := strutil.Upper(text)
	for _, name := range idx.names {
		if strings.Contains(upper, name) {
			return idx.entries[name], true
		}
	}
	return "", false
}
