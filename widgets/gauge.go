package widgets

import (
	"math"
	"strconv"

	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/geom"
	"github.com/lixenwraith/cellframe/terminal"
)

// eighthBlocks index partial fills from 0/8 to 8/8 of a cell
var eighthBlocks = [...]string{" ", "▏", "▎", "▍", "▌", "▋", "▊", "▉", "█"}

// Gauge draws a horizontal fill proportional to Ratio with a centered label
type Gauge struct {
	Ratio     float64 // clamped to [0, 1]
	Label     string  // empty shows the percentage
	Style     terminal.Style
	FillStyle terminal.Style
	Block     *Block
}

// Render implements render.Widget
func (g Gauge) Render(area geom.Rect, buf *buffer.Buffer) {
	buf.SetStyle(area, g.Style)
	if g.Block != nil {
		g.Block.Render(area, buf)
		area = g.Block.Inner(area)
	}
	if area.IsEmpty() {
		return
	}

	ratio := g.Ratio
	if math.IsNaN(ratio) || ratio < 0 {
		ratio = 0
	}
	ratio = min(ratio, 1)

	// Sub-cell precision in eighths
	eighths := int(math.Round(ratio * float64(area.Width*8)))
	full, partial := eighths/8, eighths%8

	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.X+full; x++ {
			setCell(buf, x, y, eighthBlocks[8], g.FillStyle)
		}
		if partial > 0 {
			setCell(buf, area.X+full, y, eighthBlocks[partial], g.FillStyle)
		}
	}

	label := g.Label
	if label == "" {
		label = strconv.Itoa(int(math.Round(ratio*100))) + "%"
	}
	label = Truncate(label, area.Width)
	y := area.Y + area.Height/2
	x := area.X + AlignCenter.offset(textWidth(label), area.Width)
	end := setString(buf, x, y, label, area.Right(), g.Style)

	// Label cells over the fill are reversed to stay readable
	for lx := x; lx < min(end, area.X+full); lx++ {
		buf.Get(lx, y).SetStyle(terminal.Style{Add: terminal.AttrReverse})
	}
}
