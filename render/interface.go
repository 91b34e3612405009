package render

import (
	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/geom"
)

// Widget paints itself into area of buf
// area is always contained in buf and non-empty
type Widget interface {
	Render(area geom.Rect, buf *buffer.Buffer)
}

// WidgetFunc adapts a function to Widget
type WidgetFunc func(area geom.Rect, buf *buffer.Buffer)

func (fn WidgetFunc) Render(area geom.Rect, buf *buffer.Buffer) { fn(area, buf) }

// StatefulWidget paints itself using and updating caller-owned state
type StatefulWidget[S any] interface {
	RenderStateful(area geom.Rect, buf *buffer.Buffer, state *S)
}

// Renderer paints one layer of an orchestrated frame
type Renderer interface {
	Render(f *Frame)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(f *Frame)

func (fn RendererFunc) Render(f *Frame) { fn(f) }

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}
