// Package buffer holds one rendered frame as a grid of styled cells and
// computes the writes needed to turn one frame into another.
//
// Point access outside the buffer area panics: callers clip against Area
// first, and a silently clamped write would corrupt diff coordinates.
package buffer

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/lixenwraith/cellframe/geom"
	"github.com/lixenwraith/cellframe/terminal"
)

const (
	// MaxDimension bounds width and height individually
	MaxDimension = math.MaxUint16
	// MaxCells bounds width*height
	MaxCells = 1 << 24
)

var (
	ErrInvalidArea  = errors.New("invalid buffer area")
	ErrAreaOverflow = errors.New("buffer area overflow")
)

// Buffer is a row-major grid of cells covering area
type Buffer struct {
	area    geom.Rect
	content []terminal.Cell
}

// New allocates a buffer of blank cells over area
func New(area geom.Rect) (*Buffer, error) {
	if err := validate(area); err != nil {
		return nil, err
	}
	b := &Buffer{area: area, content: make([]terminal.Cell, area.Area())}
	b.Reset()
	return b, nil
}

// MustNew is New for areas known to be valid; it panics on error
func MustNew(area geom.Rect) *Buffer {
	b, err := New(area)
	if err != nil {
		panic(err)
	}
	return b
}

// WithLines builds a buffer at the origin from rows of text, sized to the
// widest row
func WithLines(lines ...string) *Buffer {
	width := 0
	for _, l := range lines {
		width = max(width, uniseg.StringWidth(l))
	}
	b := MustNew(geom.NewRect(0, 0, width, len(lines)))
	for y, l := range lines {
		if width > 0 {
			b.SetString(0, y, l, terminal.Style{})
		}
	}
	return b
}

func validate(area geom.Rect) error {
	if area.X < 0 || area.Y < 0 || area.Width < 0 || area.Height < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidArea, area)
	}
	if area.Width > MaxDimension || area.Height > MaxDimension || area.Area() > MaxCells {
		return fmt.Errorf("%w: %v exceeds %d cells", ErrAreaOverflow, area, MaxCells)
	}
	return nil
}

// Area returns the covered rectangle
func (b *Buffer) Area() geom.Rect {
	return b.area
}

// Content exposes the cells in row-major order
func (b *Buffer) Content() []terminal.Cell {
	return b.content
}

// Index converts a position to a content index
func (b *Buffer) Index(x, y int) int {
	if !b.area.Contains(geom.Position{X: x, Y: y}) {
		panic(fmt.Sprintf("buffer: position (%d,%d) outside %v", x, y, b.area))
	}
	return (y-b.area.Y)*b.area.Width + (x - b.area.X)
}

// Pos converts a content index to a position
func (b *Buffer) Pos(i int) (int, int) {
	if i < 0 || i >= len(b.content) {
		panic(fmt.Sprintf("buffer: index %d outside %v", i, b.area))
	}
	return b.area.X + i%b.area.Width, b.area.Y + i/b.area.Width
}

// Get returns the cell at x, y for in-place modification
func (b *Buffer) Get(x, y int) *terminal.Cell {
	return &b.content[b.Index(x, y)]
}

// Set replaces the cell at x, y
func (b *Buffer) Set(x, y int, c terminal.Cell) {
	b.content[b.Index(x, y)] = c
}

// SetString writes s from x, y and returns the column after the last
// written cluster. Output past the right edge is dropped, never wrapped
func (b *Buffer) SetString(x, y int, s string, style terminal.Style) int {
	x, _ = b.SetStringN(x, y, s, math.MaxInt, style)
	return x
}

// SetStringN writes at most maxWidth columns of s from x, y
// Each grapheme cluster advances by its display width; a wide cluster fills
// its owner cell and marks the following cells as placeholders, and is only
// written if it fits entirely. Zero-width clusters are skipped. A call that
// writes nothing leaves the row untouched
func (b *Buffer) SetStringN(x, y int, s string, maxWidth int, style terminal.Style) (int, int) {
	i := b.Index(x, y)
	remaining := min(b.area.Right()-x, maxWidth)
	if remaining <= 0 {
		return x, y
	}
	start := i
	state := -1
	var cluster string
	var width int
	for len(s) > 0 && remaining > 0 {
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		if width == 0 {
			continue
		}
		if width > remaining {
			break
		}
		if i == start {
			b.detachLeft(i, y)
		}

		c := &b.content[i]
		c.Symbol = cluster
		c.SetStyle(style)
		for k := 1; k < width; k++ {
			b.content[i+k] = terminal.Placeholder(c.Style)
		}

		i += width
		x += width
		remaining -= width
	}

	if i > start {
		b.detachRight(i, y)
	}
	return x, y
}

// detachLeft blanks a wide glyph whose continuation is about to be overwritten at i
func (b *Buffer) detachLeft(i, y int) {
	rowStart := (y - b.area.Y) * b.area.Width
	if !b.content[i].IsPlaceholder() {
		return
	}
	for j := i - 1; j >= rowStart; j-- {
		c := &b.content[j]
		if !c.IsPlaceholder() {
			c.Symbol = " "
			return
		}
		c.Symbol = " "
	}
}

// detachRight blanks continuation cells left orphaned at i by an overwritten owner
func (b *Buffer) detachRight(i, y int) {
	rowEnd := (y - b.area.Y + 1) * b.area.Width
	for ; i < rowEnd && b.content[i].IsPlaceholder(); i++ {
		b.content[i].Symbol = " "
	}
}

// SetStyle patches style onto every cell of area, keeping symbols
func (b *Buffer) SetStyle(area geom.Rect, style terminal.Style) {
	if area.IsEmpty() {
		return
	}
	b.mustContain(area, "set style")
	for y := area.Y; y < area.Bottom(); y++ {
		row := b.Index(area.X, y)
		for i := row; i < row+area.Width; i++ {
			b.content[i].SetStyle(style)
		}
	}
}

// Fill replaces every cell of area with c
func (b *Buffer) Fill(area geom.Rect, c terminal.Cell) {
	if area.IsEmpty() {
		return
	}
	b.mustContain(area, "fill")
	for y := area.Y; y < area.Bottom(); y++ {
		row := b.Index(area.X, y)
		for i := row; i < row+area.Width; i++ {
			b.content[i] = c
		}
	}
}

// Merge copies other's cells onto b at other's own coordinates
func (b *Buffer) Merge(other *Buffer) {
	if other.area.IsEmpty() {
		return
	}
	b.mustContain(other.area, "merge")
	w := other.area.Width
	for y := other.area.Y; y < other.area.Bottom(); y++ {
		src := (y - other.area.Y) * w
		copy(b.content[b.Index(other.area.X, y):], other.content[src:src+w])
	}
}

// Apply writes diff updates into b
func (b *Buffer) Apply(updates []terminal.Update) {
	for _, u := range updates {
		b.Set(u.X, u.Y, *u.Cell)
	}
}

// Resize reallocates to area and blanks content; no-op if unchanged
// On error the buffer is left as it was
func (b *Buffer) Resize(area geom.Rect) error {
	if area == b.area {
		return nil
	}
	if err := validate(area); err != nil {
		return err
	}
	size := area.Area()
	if cap(b.content) < size {
		b.content = make([]terminal.Cell, size)
	} else {
		b.content = b.content[:size]
	}
	b.area = area
	b.Reset()
	return nil
}

// Reset blanks all cells using exponential copy
func (b *Buffer) Reset() {
	if len(b.content) == 0 {
		return
	}
	b.content[0] = terminal.BlankCell
	for filled := 1; filled < len(b.content); filled *= 2 {
		copy(b.content[filled:], b.content[:filled])
	}
}

// Clone returns an independent copy
func (b *Buffer) Clone() *Buffer {
	return &Buffer{area: b.area, content: slices.Clone(b.content)}
}

// Equal reports whether both buffers cover the same area with identical cells
func (b *Buffer) Equal(other *Buffer) bool {
	return b.area == other.area && slices.Equal(b.content, other.content)
}

// String renders the symbols row by row, ignoring styles
func (b *Buffer) String() string {
	var sb strings.Builder
	for i, c := range b.content {
		if i > 0 && i%b.area.Width == 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(c.Symbol)
	}
	return sb.String()
}

func (b *Buffer) mustContain(area geom.Rect, op string) {
	if !b.area.ContainsRect(area) {
		panic(fmt.Sprintf("buffer: %s area %v outside %v", op, area, b.area))
	}
}
