package widgets

import (
	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/geom"
	"github.com/lixenwraith/cellframe/terminal"
)

// LineType specifies box drawing character style
type LineType uint8

const (
	LineSingle  LineType = iota // ┌─┐│└┘
	LineDouble                  // ╔═╗║╚╝
	LineRounded                 // ╭─╮│╰╯
	LineHeavy                   // ┏━┓┃┗┛
	LineNone                    // spaces (invisible border with padding)
)

// boxChars contains box drawing character sets indexed by LineType
var boxChars = [...][6]string{
	LineSingle:  {"┌", "─", "┐", "│", "└", "┘"},
	LineDouble:  {"╔", "═", "╗", "║", "╚", "╝"},
	LineRounded: {"╭", "─", "╮", "│", "╰", "╯"},
	LineHeavy:   {"┏", "━", "┓", "┃", "┗", "┛"},
	LineNone:    {" ", " ", " ", " ", " ", " "},
}

const (
	boxTL = 0 // top-left
	boxH  = 1 // horizontal
	boxTR = 2 // top-right
	boxV  = 3 // vertical
	boxBL = 4 // bottom-left
	boxBR = 5 // bottom-right
)

// Borders selects which sides of a Block are drawn
type Borders uint8

const (
	BorderTop Borders = 1 << iota
	BorderRight
	BorderBottom
	BorderLeft

	BorderNone Borders = 0
	BorderAll          = BorderTop | BorderRight | BorderBottom | BorderLeft
)

// Block draws borders and a title around an area, and is embedded by other
// widgets to frame their content
type Block struct {
	Title       string
	TitleAlign  Alignment
	Borders     Borders
	Line        LineType
	BorderStyle terminal.Style
	TitleStyle  terminal.Style
	Style       terminal.Style // patched onto the whole area first
}

// Inner returns the part of area left for content
// A title without a top border still takes the first row
func (b Block) Inner(area geom.Rect) geom.Rect {
	inner := area
	if b.Borders&BorderLeft != 0 && inner.Width > 0 {
		inner.X++
		inner.Width--
	}
	if b.Borders&BorderRight != 0 && inner.Width > 0 {
		inner.Width--
	}
	if (b.Borders&BorderTop != 0 || b.Title != "") && inner.Height > 0 {
		inner.Y++
		inner.Height--
	}
	if b.Borders&BorderBottom != 0 && inner.Height > 0 {
		inner.Height--
	}
	return inner
}

// Render implements render.Widget
func (b Block) Render(area geom.Rect, buf *buffer.Buffer) {
	if area.IsEmpty() {
		return
	}
	buf.SetStyle(area, b.Style)

	line := b.Line
	if line >= LineType(len(boxChars)) {
		line = LineSingle
	}
	chars := boxChars[line]
	left, right := area.X, area.Right()-1
	top, bottom := area.Y, area.Bottom()-1

	// Edges
	if b.Borders&BorderLeft != 0 {
		for y := top; y <= bottom; y++ {
			setCell(buf, left, y, chars[boxV], b.BorderStyle)
		}
	}
	if b.Borders&BorderRight != 0 {
		for y := top; y <= bottom; y++ {
			setCell(buf, right, y, chars[boxV], b.BorderStyle)
		}
	}
	if b.Borders&BorderTop != 0 {
		for x := left; x <= right; x++ {
			setCell(buf, x, top, chars[boxH], b.BorderStyle)
		}
	}
	if b.Borders&BorderBottom != 0 {
		for x := left; x <= right; x++ {
			setCell(buf, x, bottom, chars[boxH], b.BorderStyle)
		}
	}

	// Corners
	if b.Borders&(BorderTop|BorderLeft) == BorderTop|BorderLeft {
		setCell(buf, left, top, chars[boxTL], b.BorderStyle)
	}
	if b.Borders&(BorderTop|BorderRight) == BorderTop|BorderRight {
		setCell(buf, right, top, chars[boxTR], b.BorderStyle)
	}
	if b.Borders&(BorderBottom|BorderLeft) == BorderBottom|BorderLeft {
		setCell(buf, left, bottom, chars[boxBL], b.BorderStyle)
	}
	if b.Borders&(BorderBottom|BorderRight) == BorderBottom|BorderRight {
		setCell(buf, right, bottom, chars[boxBR], b.BorderStyle)
	}

	b.renderTitle(area, buf)
}

// renderTitle places the title on the top row between the corners
func (b Block) renderTitle(area geom.Rect, buf *buffer.Buffer) {
	if b.Title == "" {
		return
	}
	x0, x1 := area.X, area.Right()
	if b.Borders&BorderLeft != 0 {
		x0++
	}
	if b.Borders&BorderRight != 0 {
		x1--
	}
	avail := x1 - x0
	if avail <= 0 {
		return
	}

	title := Truncate(b.Title, avail)
	x := x0 + b.TitleAlign.offset(textWidth(title), avail)
	setString(buf, x, area.Y, title, x1, b.TitleStyle)
}
