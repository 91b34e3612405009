package widgets

import (
	"math"

	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/geom"
	"github.com/lixenwraith/cellframe/terminal"
)

// barLevels provides 8-level vertical resolution per cell
var barLevels = [...]string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// Sparkline draws one bar per sample, bottom up, using the full area height
// Only the right-most samples that fit the width are shown
type Sparkline struct {
	Data  []float64
	Max   float64 // top of scale, <= 0 uses the largest visible sample
	Style terminal.Style
	Block *Block
}

// Render implements render.Widget
func (s Sparkline) Render(area geom.Rect, buf *buffer.Buffer) {
	buf.SetStyle(area, s.Style)
	if s.Block != nil {
		s.Block.Render(area, buf)
		area = s.Block.Inner(area)
	}
	if area.IsEmpty() || len(s.Data) == 0 {
		return
	}

	data := s.Data
	if len(data) > area.Width {
		data = data[len(data)-area.Width:]
	}

	top := s.Max
	if top <= 0 {
		for _, v := range data {
			top = max(top, v)
		}
	}
	if top <= 0 {
		return
	}

	levels := area.Height * 8
	for i, v := range data {
		if math.IsNaN(v) || v <= 0 {
			continue
		}
		h := int(math.Round(min(v, top) / top * float64(levels)))
		x := area.X + i
		for row := 0; h > 0 && row < area.Height; row++ {
			setCell(buf, x, area.Bottom()-1-row, barLevels[min(h, 8)], s.Style)
			h -= 8
		}
	}
}
