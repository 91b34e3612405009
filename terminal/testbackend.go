package terminal

import (
	"strings"

	"github.com/lixenwraith/cellframe/geom"
)

// TestBackend is an in-memory Backend for tests and headless rendering
// Failure fields are returned by the matching operation while set
type TestBackend struct {
	width  int
	height int
	cells  []Cell

	cursorX       int
	cursorY       int
	cursorVisible bool

	lastUpdates []Update
	draws       int
	flushes     int
	clears      int

	// ops records backend calls in order ("draw", "cursor", "show", "hide", "clear", "flush")
	ops []string

	SizeErr  error
	DrawErr  error
	FlushErr error
}

// NewTestBackend creates a blank width x height backend with visible cursor
func NewTestBackend(width, height int) *TestBackend {
	b := &TestBackend{cursorVisible: true}
	b.Resize(width, height)
	return b
}

// Resize simulates a terminal resize; content is blanked
func (b *TestBackend) Resize(width, height int) {
	b.width, b.height = width, height
	b.cells = make([]Cell, width*height)
	for i := range b.cells {
		b.cells[i] = BlankCell
	}
}

// Size implements Backend
func (b *TestBackend) Size() (geom.Rect, error) {
	if b.SizeErr != nil {
		return geom.Rect{}, b.SizeErr
	}
	return geom.NewRect(0, 0, b.width, b.height), nil
}

// Draw implements Backend; cells are copied, updates outside the grid are ignored
func (b *TestBackend) Draw(updates []Update) error {
	if b.DrawErr != nil {
		return b.DrawErr
	}
	b.ops = append(b.ops, "draw")
	b.draws++
	b.lastUpdates = b.lastUpdates[:0]
	for _, u := range updates {
		if u.X < 0 || u.Y < 0 || u.X >= b.width || u.Y >= b.height {
			continue
		}
		c := *u.Cell
		b.cells[u.Y*b.width+u.X] = c
		b.lastUpdates = append(b.lastUpdates, Update{X: u.X, Y: u.Y, Cell: &c})
	}
	return nil
}

// SetCursor implements Backend
func (b *TestBackend) SetCursor(x, y int) error {
	b.ops = append(b.ops, "cursor")
	b.cursorX, b.cursorY = x, y
	return nil
}

// ShowCursor implements Backend
func (b *TestBackend) ShowCursor() error {
	b.ops = append(b.ops, "show")
	b.cursorVisible = true
	return nil
}

// HideCursor implements Backend
func (b *TestBackend) HideCursor() error {
	b.ops = append(b.ops, "hide")
	b.cursorVisible = false
	return nil
}

// Clear implements Backend
func (b *TestBackend) Clear() error {
	b.ops = append(b.ops, "clear")
	b.clears++
	for i := range b.cells {
		b.cells[i] = BlankCell
	}
	return nil
}

// Flush implements Backend
func (b *TestBackend) Flush() error {
	if b.FlushErr != nil {
		return b.FlushErr
	}
	b.ops = append(b.ops, "flush")
	b.flushes++
	return nil
}

// Cell returns the cell at x, y
func (b *TestBackend) Cell(x, y int) Cell {
	return b.cells[y*b.width+x]
}

// Cursor returns the cursor position and visibility
func (b *TestBackend) Cursor() (x, y int, visible bool) {
	return b.cursorX, b.cursorY, b.cursorVisible
}

// LastUpdates returns copies of the cells written by the most recent Draw
func (b *TestBackend) LastUpdates() []Update {
	out := make([]Update, len(b.lastUpdates))
	copy(out, b.lastUpdates)
	return out
}

// Draws returns the number of successful Draw calls
func (b *TestBackend) Draws() int { return b.draws }

// Flushes returns the number of successful Flush calls
func (b *TestBackend) Flushes() int { return b.flushes }

// Clears returns the number of Clear calls
func (b *TestBackend) Clears() int { return b.clears }

// Ops returns the recorded call sequence
func (b *TestBackend) Ops() []string {
	return append([]string(nil), b.ops...)
}

// ResetOps clears the recorded call sequence
func (b *TestBackend) ResetOps() {
	b.ops = b.ops[:0]
}

// Lines returns the grid as strings, one per row; placeholders are skipped
func (b *TestBackend) Lines() []string {
	lines := make([]string, b.height)
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		sb.Reset()
		for x := 0; x < b.width; x++ {
			sb.WriteString(b.cells[y*b.width+x].Symbol)
		}
		lines[y] = sb.String()
	}
	return lines
}
