package terminal

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Cell is one character position: a grapheme cluster and its style
// An empty Symbol marks the continuation cell of a wide glyph
type Cell struct {
	Symbol string
	Style  Style
}

// BlankCell is the default cell content
var BlankCell = Cell{Symbol: " "}

// Placeholder returns a wide-glyph continuation cell carrying style
func Placeholder(style Style) Cell {
	return Cell{Style: style}
}

// Reset restores the default content
func (c *Cell) Reset() {
	*c = BlankCell
}

// SetSymbol replaces the symbol, keeping the style
func (c *Cell) SetSymbol(s string) {
	c.Symbol = s
}

// SetRune replaces the symbol with a single rune
func (c *Cell) SetRune(r rune) {
	if r < utf8.RuneSelf {
		c.Symbol = asciiSymbols[r]
		return
	}
	c.Symbol = string(r)
}

// SetStyle patches style onto the cell's current style
func (c *Cell) SetStyle(s Style) {
	c.Style = c.Style.Patch(s)
}

// IsPlaceholder reports whether the cell continues a wide glyph to its left
func (c Cell) IsPlaceholder() bool {
	return c.Symbol == ""
}

// Width returns the display width of the symbol in columns
func (c Cell) Width() int {
	return SymbolWidth(c.Symbol)
}

// SymbolWidth returns the display width of a grapheme cluster
func SymbolWidth(s string) int {
	if len(s) == 1 && s[0] >= 0x20 && s[0] < 0x7f {
		return 1
	}
	return uniseg.StringWidth(s)
}

// asciiSymbols interns single-byte symbols so SetRune does not allocate
var asciiSymbols [utf8.RuneSelf]string

func init() {
	for i := range asciiSymbols {
		asciiSymbols[i] = string(rune(i))
	}
}

// Update is one cell write produced by a buffer diff
// Cell points into the source buffer and is only valid until that buffer is next modified
type Update struct {
	X, Y int
	Cell *Cell
}
