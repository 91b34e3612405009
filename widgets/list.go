package widgets

import (
	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/geom"
	"github.com/lixenwraith/cellframe/terminal"
)

// ListState is the caller-owned selection and scroll position of a List
type ListState struct {
	Selected int // -1 for no selection
	Offset   int // first visible item
}

// NewListState returns a state with nothing selected
func NewListState() ListState {
	return ListState{Selected: -1}
}

// Select sets the selected item; negative clears the selection
func (s *ListState) Select(i int) {
	s.Selected = max(i, -1)
}

// List draws one item per row and keeps the selected item in view
type List struct {
	Items           []string
	Style           terminal.Style
	HighlightStyle  terminal.Style
	HighlightSymbol string // drawn before the selected item, others are indented to match
	Block           *Block
}

// Render implements render.Widget with no selection
func (l List) Render(area geom.Rect, buf *buffer.Buffer) {
	state := NewListState()
	l.RenderStateful(area, buf, &state)
}

// RenderStateful implements render.StatefulWidget, adjusting state.Offset
// so the selection is visible
func (l List) RenderStateful(area geom.Rect, buf *buffer.Buffer, state *ListState) {
	buf.SetStyle(area, l.Style)
	if l.Block != nil {
		l.Block.Render(area, buf)
		area = l.Block.Inner(area)
	}
	if area.IsEmpty() {
		return
	}

	n := len(l.Items)
	state.Selected = min(state.Selected, n-1)
	if state.Selected >= 0 {
		if state.Selected < state.Offset {
			state.Offset = state.Selected
		}
		if state.Selected >= state.Offset+area.Height {
			state.Offset = state.Selected - area.Height + 1
		}
	}
	state.Offset = min(max(state.Offset, 0), max(n-area.Height, 0))

	symW := textWidth(l.HighlightSymbol)
	for row := 0; row < area.Height && state.Offset+row < n; row++ {
		idx := state.Offset + row
		y := area.Y + row
		x := area.X
		selected := idx == state.Selected

		if selected {
			x = setString(buf, x, y, l.HighlightSymbol, area.Right(), l.HighlightStyle)
		} else {
			x += symW
		}
		setString(buf, x, y, l.Items[idx], area.Right(), l.Style)

		if selected {
			buf.SetStyle(geom.Rect{X: area.X, Y: y, Width: area.Width, Height: 1}, l.HighlightStyle)
		}
	}
}
