package widgets

import (
	"strings"

	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/geom"
	"github.com/lixenwraith/cellframe/terminal"
)

// Paragraph displays multi-line text, optionally wrapped and framed
// Lines that do not fit are cut at the area edge
type Paragraph struct {
	Text   string
	Style  terminal.Style
	Align  Alignment
	Wrap   bool
	Scroll int // lines skipped from the top
	Block  *Block
}

// Render implements render.Widget
func (p Paragraph) Render(area geom.Rect, buf *buffer.Buffer) {
	buf.SetStyle(area, p.Style)
	if p.Block != nil {
		p.Block.Render(area, buf)
		area = p.Block.Inner(area)
	}
	if area.IsEmpty() {
		return
	}

	var lines []string
	if p.Wrap {
		lines = WrapText(p.Text, area.Width)
	} else {
		lines = strings.Split(p.Text, "\n")
	}

	start := min(max(p.Scroll, 0), len(lines))
	for row, line := range lines[start:] {
		if row >= area.Height {
			break
		}
		x := area.X + p.Align.offset(textWidth(line), area.Width)
		setString(buf, x, area.Y+row, line, area.Right(), p.Style)
	}
}
