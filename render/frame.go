package render

import (
	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/geom"
)

// Frame is the application's handle on one draw cycle
type Frame struct {
	buf    *buffer.Buffer
	cursor *geom.Position
}

// Size returns the drawable area
func (f *Frame) Size() geom.Rect {
	return f.buffer().Area()
}

// Buffer returns the current buffer for direct painting
func (f *Frame) Buffer() *buffer.Buffer {
	return f.buffer()
}

// RenderWidget paints w into area clipped to the frame
func (f *Frame) RenderWidget(w Widget, area geom.Rect) {
	buf := f.buffer()
	area = area.Intersection(buf.Area())
	if area.IsEmpty() {
		return
	}
	w.Render(area, buf)
}

// RenderStateful paints a stateful widget into area clipped to the frame
func RenderStateful[S any](f *Frame, w StatefulWidget[S], area geom.Rect, state *S) {
	buf := f.buffer()
	area = area.Intersection(buf.Area())
	if area.IsEmpty() {
		return
	}
	w.RenderStateful(area, buf, state)
}

// SetCursor requests a visible cursor at x, y once the frame is applied
// Without a request the cursor is hidden
func (f *Frame) SetCursor(x, y int) {
	f.cursor = &geom.Position{X: x, Y: y}
}

func (f *Frame) buffer() *buffer.Buffer {
	if f.buf == nil {
		panic("render: frame used after its draw cycle ended")
	}
	return f.buf
}
