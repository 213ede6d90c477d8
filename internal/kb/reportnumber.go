package kb

import (
	"io"
	"regexp"
	"strings"
	"unicode"
)

// compileNumerationPattern translates one numeration-DSL line (spec.md
// §4.3/GLOSSARY) into a regexp source fragment:
//
//	9    -> \d        9?   -> \d?
//	yyyy -> [12]\d{3} yy   -> \d{2}
//	mm   -> [01]\d    s    -> [\s\-/]+
//	a    -> [A-Za-z]  a?   -> [A-Za-z]?
//	' '  -> [\s\-/]+  (literal space)
//
// regex metacharacters (\ [ ( ) | + * ?) pass through unchanged; every
// other rune is escaped as a literal.
func compileNumerationPattern(dsl string) string {
	var b strings.Builder
	i := 0
	n := len(dsl)

	for i < n {
		switch {
		case strings.HasPrefix(dsl[i:], "9?"):
			b.WriteString(`\d?`)
			i += 2
		case strings.HasPrefix(dsl[i:], "yyyy"):
			b.WriteString(`[12]\d{3}`)
			i += 4
		case strings.HasPrefix(dsl[i:], "yy"):
			b.WriteString(`\d{2}`)
			i += 2
		case strings.HasPrefix(dsl[i:], "mm"):
			b.WriteString(`[01]\d`)
			i += 2
		case strings.HasPrefix(dsl[i:], "a?"):
			b.WriteString(`[A-Za-z]?`)
			i += 2
		case dsl[i] == '9':
			b.WriteString(`\d`)
			i++
		case dsl[i] == 'a':
			b.WriteString(`[A-Za-z]`)
			i++
		case dsl[i] == 's':
			b.WriteString(`[\s\-/]+`)
			i++
		case dsl[i] == ' ':
			b.WriteString(`[\s\-/]+`)
			i++
		case strings.IndexByte(`\[()|+*?`, dsl[i]) >= 0:
			b.WriteByte(dsl[i])
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(dsl[i])))
			i++
		}
	}

	return b.String()
}

// trieNode is one node of the report-number prefix trie. Literal edges
// match one case-folded rune exactly; the space edge greedily consumes a
// run of separators (space/tab/hyphen/slash) on the input side, per
// spec.md §4.3's "edge for a space stands in for one or more separators".
type trieNode struct {
	children   map[rune]*trieNode
	spaceChild *trieNode
	terminals  []reportTerminal
}

type reportTerminal struct {
	standardized string
	numeration   *regexp.Regexp // anchored: `^[\s\-/]*(?:alt1|alt2|...)`
}

// ReportTrie matches report-number prefixes from the compiled DSL
// (spec.md §4.3/§9).
type ReportTrie struct {
	root *trieNode
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

func normalizeTriePrefix(prefix string) string {
	collapsed := strings.Join(strings.Fields(prefix), " ")
	return strings.ToLower(collapsed)
}

func (t *ReportTrie) insert(prefix, standardized string, numerations []string) {
	if t.root == nil {
		t.root = newTrieNode()
	}

	norm := normalizeTriePrefix(prefix)
	node := t.root
	for _, r := range norm {
		if r == ' ' {
			if node.spaceChild == nil {
				node.spaceChild = newTrieNode()
			}
			node = node.spaceChild
			continue
		}
		child, ok := node.children[r]
		if !ok {
			child = newTrieNode()
			node.children[r] = child
		}
		node = child
	}

	alt := make([]string, 0, len(numerations))
	for _, n := range numerations {
		if n != "" {
			alt = append(alt, n)
		}
	}
	if len(alt) == 0 {
		alt = []string{""}
	}
	src := `^[\s\-/]*(?:` + strings.Join(alt, "|") + `)`
	re, err := regexp.Compile(src)
	if err != nil {
		// malformed numeration: skip this entry (spec.md §7)
		return
	}

	node.terminals = append(node.terminals, reportTerminal{standardized: standardized, numeration: re})
}

// LoadReportNumbers parses the report-number DSL file (spec.md §4.3/§6):
// blocks of one-or-more "<numeration>" lines followed by one-or-more
// "prefix --- standardized" lines; lines beginning with "*****" are
// additionally ignored in this file.
func LoadReportNumbers(r io.Reader) (*ReportTrie, error) {
	trie := &ReportTrie{root: newTrieNode()}

	var pending []string
	freshBlock := true

	err := scanRecordLines(r, func(line string) bool {
		return strings.HasPrefix(line, "*****")
	}, func(line string) {
		if strings.HasPrefix(line, "<") && strings.HasSuffix(line, ">") {
			dsl := line[1 : len(line)-1]
			if freshBlock {
				pending = nil
				freshBlock = false
			}
			pending = append(pending, compileNumerationPattern(dsl))
			return
		}

		prefix, standardized, ok := splitRecord(line)
		if !ok {
			return
		}
		trie.insert(prefix, standardized, pending)
		freshBlock = true
	})
	if err != nil {
		return nil, err
	}

	return trie, nil
}

const maxReportScanAhead = 4096

// FindMatch scans text for the longest report-number match, requiring a
// word boundary before each candidate start (spec.md §4.3).
func (t *ReportTrie) FindMatch(text string) (start, end int, standardized string, ok bool) {
	if t == nil || t.root == nil {
		return 0, 0, "", false
	}

	bestLen := -1

	runes := []rune(text)
	byteOffsets := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		byteOffsets[i] = off
		off += len(string(r))
	}
	byteOffsets[len(runes)] = off

	for i := range runes {
		if i > 0 {
			prev := runes[i-1]
			if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
				continue
			}
		}

		if s, e, std, matched := t.walkFrom(text, runes, byteOffsets, i); matched {
			if e-s > bestLen {
				bestLen = e - s
				start, end, standardized, ok = s, e, std, true
			}
		}
	}

	return start, end, standardized, ok
}

func (t *ReportTrie) walkFrom(text string, runes []rune, byteOffsets []int, startIdx int) (start, end int, standardized string, ok bool) {
	node := t.root
	idx := startIdx
	bestEnd := -1
	var bestStd string

	tryTerminals := func(atIdx int) {
		if len(node.terminals) == 0 {
			return
		}
		bytePos := byteOffsets[atIdx]
		rest := text[bytePos:]
		scanLen := rest
		if len(scanLen) > maxReportScanAhead {
			scanLen = scanLen[:maxReportScanAhead]
		}
		for _, term := range node.terminals {
			loc := term.numeration.FindStringIndex(scanLen)
			if loc != nil && loc[0] == 0 {
				candidateEnd := bytePos + loc[1]
				if candidateEnd > bestEnd {
					bestEnd = candidateEnd
					bestStd = term.standardized
				}
			}
		}
	}

	tryTerminals(idx)

	for idx < len(runes) {
		r := unicode.ToLower(runes[idx])

		if isSeparatorRune(r) && node.spaceChild != nil {
			next := idx
			for next < len(runes) && isSeparatorRune(unicode.ToLower(runes[next])) {
				next++
			}
			node = node.spaceChild
			idx = next
			tryTerminals(idx)
			continue
		}

		child, exists := node.children[r]
		if !exists {
			break
		}
		node = child
		idx++
		tryTerminals(idx)
	}

	if bestEnd < 0 {
		return 0, 0, "", false
	}
	return byteOffsets[startIdx], bestEnd, bestStd, true
}

func isSeparatorRune(r rune) bool {
	switch r {
	case ' ', '\t', '-', '/':
		return true
	default:
		return false
	}
}
