package layout

import (
	"context"
	"testing"

	"github.com/Osso/refextract/internal/model"
)

func charsForWord(text string, x, y, fontSize float64) []model.PositionedChar {
	var out []model.PositionedChar
	cx := x
	for _, r := range text {
		out = append(out, model.PositionedChar{
			Codepoint: r,
			X:         cx,
			Y:         y,
			Width:     6,
			Height:    fontSize,
			FontSize:  fontSize,
		})
		cx += 6
	}
	return out
}

func TestBuildBlocksEmptyPage(t *testing.T) {
	blocks := BuildBlocks(model.PageChars{PageNumber: 1, Width: 600, Height: 800})
	if blocks != nil {
		t.Fatalf("expected nil blocks for empty page, got %v", blocks)
	}
}

func TestBuildBlocksSingleLineSingleWord(t *testing.T) {
	var chars []model.PositionedChar
	chars = append(chars, charsForWord("Hello", 100, 700, 10)...)

	blocks := BuildBlocks(model.PageChars{PageNumber: 1, Width: 600, Height: 800, Chars: chars})
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if len(blocks[0].Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(blocks[0].Lines))
	}
	if len(blocks[0].Lines[0].Words) != 1 || blocks[0].Lines[0].Words[0].Text != "Hello" {
		t.Fatalf("unexpected words: %+v", blocks[0].Lines[0].Words)
	}
}

func TestBuildBlocksSplitsOnSpace(t *testing.T) {
	var chars []model.PositionedChar
	chars = append(chars, charsForWord("Hello", 100, 700, 10)...)
	chars = append(chars, model.PositionedChar{Codepoint: ' ', X: 130, Y: 700, Width: 4, Height: 10, FontSize: 10})
	chars = append(chars, charsForWord("World", 136, 700, 10)...)

	blocks := BuildBlocks(model.PageChars{PageNumber: 1, Width: 600, Height: 800, Chars: chars})
	if len(blocks) != 1 || len(blocks[0].Lines) != 1 {
		t.Fatalf("expected one block with one line, got %+v", blocks)
	}
	words := blocks[0].Lines[0].Words
	if len(words) != 2 || words[0].Text != "Hello" || words[1].Text != "World" {
		t.Fatalf("unexpected word split: %+v", words)
	}
}

func TestBuildBlocksSuperscript(t *testing.T) {
	var chars []model.PositionedChar
	chars = append(chars, charsForWord("body", 100, 700, 10)...)
	// a footnote-marker-sized word far below the dominant font size
	chars = append(chars, charsForWord("1", 130, 703, 6)...)

	blocks := BuildBlocks(model.PageChars{PageNumber: 1, Width: 600, Height: 800, Chars: chars})
	var found bool
	for _, b := range blocks {
		for _, ln := range b.Lines {
			for _, w := range ln.Words {
				if w.Text == "1" {
					found = true
					if !w.IsSuperscript {
						t.Fatalf("expected %q to be flagged superscript", w.Text)
					}
				}
			}
		}
	}
	if !found {
		t.Fatalf("superscript word not found in output")
	}
}

func TestBuildBlocksTwoLinesSameBlock(t *testing.T) {
	var chars []model.PositionedChar
	chars = append(chars, charsForWord("First", 100, 700, 10)...)
	chars = append(chars, charsForWord("Second", 100, 688, 10)...)

	blocks := BuildBlocks(model.PageChars{PageNumber: 1, Width: 600, Height: 800, Chars: chars})
	if len(blocks) != 1 {
		t.Fatalf("expected lines to merge into one block, got %d blocks", len(blocks))
	}
	if len(blocks[0].Lines) != 2 {
		t.Fatalf("expected 2 lines in block, got %d", len(blocks[0].Lines))
	}
}

func TestBuildBlocksLargeGapSplitsBlock(t *testing.T) {
	var chars []model.PositionedChar
	chars = append(chars, charsForWord("First", 100, 700, 10)...)
	chars = append(chars, charsForWord("Second", 100, 600, 10)...)

	blocks := BuildBlocks(model.PageChars{PageNumber: 1, Width: 600, Height: 800, Chars: chars})
	if len(blocks) != 2 {
		t.Fatalf("expected a large vertical gap to start a new block, got %d blocks", len(blocks))
	}
}

func TestBuildBlocksReadingOrderTopToBottom(t *testing.T) {
	var chars []model.PositionedChar
	chars = append(chars, charsForWord("Bottom", 100, 100, 10)...)
	chars = append(chars, charsForWord("Top", 100, 700, 10)...)

	blocks := BuildBlocks(model.PageChars{PageNumber: 1, Width: 600, Height: 800, Chars: chars})
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Lines[0].Words[0].Text != "Top" {
		t.Fatalf("expected top block first, got %+v", blocks[0])
	}
}

// TestBuildBlocksTwoColumn reproduces spec.md scenario 6: a reference list
// split across two columns should read left-column-top-to-bottom then
// right-column-top-to-bottom.
func TestBuildBlocksTwoColumn(t *testing.T) {
	var chars []model.PositionedChar
	y := 700.0
	for i := 0; i < 6; i++ {
		chars = append(chars, charsForWord("leftcol", 50, y, 10)...)
		chars = append(chars, charsForWord("rightcol", 350, y, 10)...)
		y -= 20
	}

	blocks := BuildBlocks(model.PageChars{PageNumber: 1, Width: 600, Height: 800, Chars: chars})

	var order []string
	for _, b := range blocks {
		for _, ln := range b.Lines {
			for _, w := range ln.Words {
				order = append(order, w.Text)
			}
		}
	}

	// first half of the sequence must all be "leftcol", second half "rightcol"
	if len(order) != 12 {
		t.Fatalf("expected 12 words, got %d: %v", len(order), order)
	}
	for i := 0; i < 6; i++ {
		if order[i] != "leftcol" {
			t.Fatalf("expected left column word at %d, got %q (order=%v)", i, order[i], order)
		}
	}
	for i := 6; i < 12; i++ {
		if order[i] != "rightcol" {
			t.Fatalf("expected right column word at %d, got %q (order=%v)", i, order[i], order)
		}
	}
}

func TestStaticProviderPages(t *testing.T) {
	p := StaticProvider{PagesData: []model.PageChars{{PageNumber: 1}, {PageNumber: 2}}}
	ch, err := p.Pages(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []int
	for pg := range ch {
		got = append(got, pg.PageNumber)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected pages: %v", got)
	}
}
