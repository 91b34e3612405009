package widgets

import (
	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/geom"
	"github.com/lixenwraith/cellframe/terminal"
)

// Clear resets its area to blank cells, typically before drawing a popup
// over existing content
type Clear struct{}

// Render implements render.Widget
func (Clear) Render(area geom.Rect, buf *buffer.Buffer) {
	buf.Fill(area, terminal.BlankCell)
}
