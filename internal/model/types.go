// Package model holds the data types shared across every pipeline stage:
// positioned characters in, structured references out. No stage mutates a
// value it did not produce; each stage consumes its input by value or by
// read-only reference and hands a freshly built result to the next one.
package model

// PositionedChar is one glyph positioned on a page, in PDF coordinates
// (origin at page bottom-left, y increasing upward).
type PositionedChar struct {
	Codepoint rune
	X         float64
	Y         float64
	Width     float64
	Height    float64
	FontSize  float64
	FontName  string
}

// PageChars is the ordered glyph stream for one page, as produced by the
// positioned-char provider (see layout.CharProvider).
type PageChars struct {
	PageNumber int // 1-based
	Width      float64
	Height     float64
	Chars      []PositionedChar
}

// Word is a run of glyphs grouped by Layout's word-grouping rule.
type Word struct {
	Text          string
	X             float64
	Y             float64
	Width         float64
	Height        float64
	FontSize      float64
	IsSuperscript bool
}

// Line is a left-to-right run of words sharing a baseline.
type Line struct {
	Words   []Word
	Y       float64 // baseline
	XStart  float64
	XEnd    float64
	FontSize float64
}

// Block is a vertically contiguous, horizontally overlapping group of
// lines at one font size — a paragraph-level unit.
type Block struct {
	Lines    []Line
	X        float64
	Y        float64 // top of block
	Width    float64
	Height   float64
	FontSize float64
}

// Text joins every word in the block with single spaces, lines
// top-to-bottom, words left-to-right. Used by Zones and Collect.
func (b Block) Text() string {
	var out []byte
	for li, ln := range b.Lines {
		if li > 0 {
			out = append(out, ' ')
		}
		for wi, w := range ln.Words {
			if wi > 0 {
				out = append(out, ' ')
			}
			out = append(out, w.Text...)
		}
	}
	return string(out)
}

// ZoneKind classifies a Block's role on the page.
type ZoneKind int

const (
	Body ZoneKind = iota
	Header
	PageNumber
	Footnote
	ReferenceHeading
	ReferenceBody
)

func (z ZoneKind) String() string {
	switch z {
	case Header:
		return "Header"
	case PageNumber:
		return "PageNumber"
	case Footnote:
		return "Footnote"
	case ReferenceHeading:
		return "ReferenceHeading"
	case ReferenceBody:
		return "ReferenceBody"
	default:
		return "Body"
	}
}

// ZonedBlock pairs a Block with its classified zone and originating page.
type ZonedBlock struct {
	Block      Block
	Zone       ZoneKind
	PageNumber int
}

// RefSource identifies where a raw reference was harvested from.
type RefSource string

const (
	SourceReferenceSection RefSource = "ReferenceSection"
	SourceFootnote         RefSource = "Footnote"
)

// RawReference is one segmented, un-tokenized reference string.
type RawReference struct {
	Text       string
	LineMarker string // optional; "" when absent
	Source     RefSource
	PageNumber int
}

// TokenKind classifies one token in a tokenized reference.
type TokenKind int

const (
	Word_ TokenKind = iota
	Punctuation
	Doi
	ArxivId
	Isbn
	Url
	ReportNumber
	LineMarker
	Year
	Number
	PageRange
	JournalName
	Collaboration
	Ibid
)

func (k TokenKind) String() string {
	switch k {
	case Punctuation:
		return "Punctuation"
	case Doi:
		return "Doi"
	case ArxivId:
		return "ArxivId"
	case Isbn:
		return "Isbn"
	case Url:
		return "Url"
	case ReportNumber:
		return "ReportNumber"
	case LineMarker:
		return "LineMarker"
	case Year:
		return "Year"
	case Number:
		return "Number"
	case PageRange:
		return "PageRange"
	case JournalName:
		return "JournalName"
	case Collaboration:
		return "Collaboration"
	case Ibid:
		return "Ibid"
	default:
		return "Word"
	}
}

// Token is one classified unit of a tokenized reference string.
type Token struct {
	Kind       TokenKind
	Text       string // as it appeared in the source
	Normalized string // canonical form; only set for Journal/Report/Collab/Year/ArxivId
	Start      int    // byte offset into the raw reference text
	End        int
}

// ParsedReference is the final structured output record (spec.md §6).
type ParsedReference struct {
	RawRef        string    `json:"raw_ref"`
	LineMarker    string    `json:"linemarker,omitempty"`
	Authors       string    `json:"authors,omitempty"`
	Title         string    `json:"title,omitempty"`
	JournalTitle  string    `json:"journal_title,omitempty"`
	JournalVolume string    `json:"journal_volume,omitempty"`
	JournalYear   string    `json:"journal_year,omitempty"`
	JournalPage   string    `json:"journal_page,omitempty"`
	Doi           string    `json:"doi,omitempty"`
	ArxivId       string    `json:"arxiv_id,omitempty"`
	Isbn          string    `json:"isbn,omitempty"`
	ReportNumber  string    `json:"report_number,omitempty"`
	Url           string    `json:"url,omitempty"`
	Collaboration string    `json:"collaboration,omitempty"`
	Source        RefSource `json:"source"`
}

// IbidPlaceholder is the sentinel journal_title value that the Parse
// stage's post-processing pass must resolve before emission.
const IbidPlaceholder = "ibid"
