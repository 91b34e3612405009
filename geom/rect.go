// Package geom provides the rectangle and position arithmetic shared by the
// buffer, layout and render packages. All operations are pure; degenerate
// rects (zero width or height) are valid and denote no area.
package geom

import "fmt"

// Position is a cell coordinate
type Position struct {
	X, Y int
}

// Margin is the inset applied on each side of a rect
type Margin struct {
	Horizontal int
	Vertical   int
}

// Uniform returns a margin with the same inset on every side
func Uniform(n int) Margin {
	return Margin{Horizontal: n, Vertical: n}
}

// Rect is an axis-aligned area of cells; Right and Bottom are exclusive
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect creates a rect, clamping negative values to zero
func NewRect(x, y, width, height int) Rect {
	return Rect{X: max(x, 0), Y: max(y, 0), Width: max(width, 0), Height: max(height, 0)}
}

// Area returns the number of cells covered
func (r Rect) Area() int {
	return r.Width * r.Height
}

// IsEmpty reports whether the rect covers no cells
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Right() int  { return r.X + r.Width }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Bottom() int { return r.Y + r.Height }

// Inner shrinks the rect by the margin on every side, clamping at zero size
func (r Rect) Inner(m Margin) Rect {
	if r.Width < 2*m.Horizontal || r.Height < 2*m.Vertical {
		return Rect{X: r.X, Y: r.Y}
	}
	return Rect{
		X:      r.X + m.Horizontal,
		Y:      r.Y + m.Vertical,
		Width:  r.Width - 2*m.Horizontal,
		Height: r.Height - 2*m.Vertical,
	}
}

// Intersection returns the overlapping area, empty if the rects are disjoint
func (r Rect) Intersection(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.Right(), o.Right())
	y2 := min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{X: x1, Y: y1}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Intersects reports whether the rects share at least one cell
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Union returns the smallest rect containing both; empty operands are ignored
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x1 := min(r.X, o.X)
	y1 := min(r.Y, o.Y)
	x2 := max(r.Right(), o.Right())
	y2 := max(r.Bottom(), o.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Contains reports whether the position lies inside the rect
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies fully inside r
// An empty o is contained when its origin is within r's bounds (edges included)
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// SplitX splits at column offset at, clamped to the rect
func (r Rect) SplitX(at int) (Rect, Rect) {
	at = min(max(at, 0), r.Width)
	return Rect{X: r.X, Y: r.Y, Width: at, Height: r.Height},
		Rect{X: r.X + at, Y: r.Y, Width: r.Width - at, Height: r.Height}
}

// SplitY splits at row offset at, clamped to the rect
func (r Rect) SplitY(at int) (Rect, Rect) {
	at = min(max(at, 0), r.Height)
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: at},
		Rect{X: r.X, Y: r.Y + at, Width: r.Width, Height: r.Height - at}
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
