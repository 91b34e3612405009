package layout

import "github.com/lixenwraith/cellframe/geom"

// Center returns a w x h rect centered in outer, clipped to it
func Center(outer geom.Rect, w, h int) geom.Rect {
	w = min(max(w, 0), outer.Width)
	h = min(max(h, 0), outer.Height)
	return geom.Rect{
		X:      outer.X + (outer.Width-w)/2,
		Y:      outer.Y + (outer.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

// Equal splits area into n equal segments along dir with gap cells between
// them; the first segments absorb the division remainder one cell each
func Equal(area geom.Rect, dir Direction, n, gap int) []geom.Rect {
	if n <= 0 {
		return nil
	}
	gap = max(gap, 0)
	total := area.Height
	if dir == Horizontal {
		total = area.Width
	}

	avail := max(total-gap*(n-1), 0)
	base, extra := avail/n, avail%n

	rects := make([]geom.Rect, n)
	offset := 0
	for i := range rects {
		l := base
		if i < extra {
			l++
		}
		// Gaps that no longer fit collapse at the far edge
		offset = min(offset, total)
		l = min(l, total-offset)
		if dir == Horizontal {
			rects[i] = geom.Rect{X: area.X + offset, Y: area.Y, Width: l, Height: area.Height}
		} else {
			rects[i] = geom.Rect{X: area.X, Y: area.Y + offset, Width: area.Width, Height: l}
		}
		offset += l + gap
	}
	return rects
}

// Grid returns cols*rows equally sized cells in row-major order
// Cells that do not fit are clipped to area and may be empty
func Grid(area geom.Rect, cols, rows, gapX, gapY int) []geom.Rect {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	columns := Equal(area, Horizontal, cols, gapX)
	lines := Equal(area, Vertical, rows, gapY)

	rects := make([]geom.Rect, 0, cols*rows)
	for _, line := range lines {
		for _, col := range columns {
			rects = append(rects, geom.Rect{X: col.X, Y: line.Y, Width: col.Width, Height: line.Height})
		}
	}
	return rects
}

// Breakpoint returns the index of the first breakpoint <= v
// Breakpoints should be in descending order
// Returns len(breakpoints) if v is less than all breakpoints
func Breakpoint(v int, breakpoints ...int) int {
	for i, bp := range breakpoints {
		if v >= bp {
			return i
		}
	}
	return len(breakpoints)
}
