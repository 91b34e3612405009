package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/lixenwraith/cellframe/geom"
)

// SizeFunc reports the current terminal extent in cells
type SizeFunc func() (width, height int, err error)

// FixedSize returns a SizeFunc that always reports width x height
func FixedSize(width, height int) SizeFunc {
	return func() (int, int, error) { return width, height, nil }
}

// ANSIOptions configures an ANSIBackend
type ANSIOptions struct {
	// ColorMode selects 256-color or true color output for RGB colors
	ColorMode ColorMode
	// Size reports the extent; nil uses TTYSize when the writer is an *os.File, else 80x24
	Size SizeFunc
	// BufferSize of the output writer; 0 uses 128KB
	BufferSize int
}

// ANSIBackend writes escape sequences to an io.Writer
// Output is buffered until Flush; write errors are sticky and surface from Draw or Flush
type ANSIBackend struct {
	writer    *bufio.Writer
	colorMode ColorMode
	size      SizeFunc

	cursorX     int
	cursorY     int
	cursorValid bool

	// Style state for coalescing
	last      Style
	lastValid bool
}

// NewANSIBackend creates a backend writing to w
func NewANSIBackend(w io.Writer, opts ANSIOptions) *ANSIBackend {
	bufSize := opts.BufferSize
	if bufSize <= 0 {
		bufSize = 131072 // 128KB buffer
	}
	size := opts.Size
	if size == nil {
		if f, ok := w.(*os.File); ok {
			size = TTYSize(f)
		} else {
			size = FixedSize(80, 24)
		}
	}
	return &ANSIBackend{
		writer:    bufio.NewWriterSize(w, bufSize),
		colorMode: opts.ColorMode,
		size:      size,
	}
}

// ColorMode returns the configured color capability
func (b *ANSIBackend) ColorMode() ColorMode {
	return b.colorMode
}

// Size implements Backend
func (b *ANSIBackend) Size() (geom.Rect, error) {
	w, h, err := b.size()
	if err != nil {
		return geom.Rect{}, fmt.Errorf("query terminal size: %w", err)
	}
	return geom.NewRect(0, 0, w, h), nil
}

// Draw implements Backend
// Contiguous cells are written without repositioning; same-row jumps use
// relative cursor-forward, anything else absolute positioning
func (b *ANSIBackend) Draw(updates []Update) error {
	w := b.writer

	for _, u := range updates {
		c := u.Cell
		// Continuation cells were covered when the owning glyph advanced the cursor
		if c == nil || c.IsPlaceholder() {
			continue
		}

		if !b.cursorValid || u.X != b.cursorX || u.Y != b.cursorY {
			if b.cursorValid && u.Y == b.cursorY && u.X > b.cursorX {
				writeCursorForward(w, u.X-b.cursorX)
			} else {
				writeCursorPos(w, u.X, u.Y)
			}
			b.cursorX = u.X
			b.cursorY = u.Y
			b.cursorValid = true
		}

		b.writeStyleCoalesced(w, c.Style)

		w.WriteString(c.Symbol)
		b.cursorX += max(c.Width(), 1)
	}

	_, err := w.Write(csiSGR0)
	b.lastValid = false
	if err != nil {
		return fmt.Errorf("write cells: %w", err)
	}
	return nil
}

// SetCursor implements Backend
func (b *ANSIBackend) SetCursor(x, y int) error {
	writeCursorPos(b.writer, x, y)
	b.cursorX, b.cursorY = x, y
	b.cursorValid = true
	return nil
}

// ShowCursor implements Backend
func (b *ANSIBackend) ShowCursor() error {
	_, err := b.writer.Write(csiCursorShow)
	return err
}

// HideCursor implements Backend
func (b *ANSIBackend) HideCursor() error {
	_, err := b.writer.Write(csiCursorHide)
	return err
}

// Clear implements Backend
func (b *ANSIBackend) Clear() error {
	w := b.writer
	w.Write(csiSGR0)
	_, err := w.Write(csiClear)
	b.lastValid = false
	b.cursorX, b.cursorY = 0, 0
	b.cursorValid = true
	return err
}

// Flush implements Backend
func (b *ANSIBackend) Flush() error {
	if err := b.writer.Flush(); err != nil {
		return fmt.Errorf("flush terminal output: %w", err)
	}
	return nil
}

// EnterScreen switches to the alternate screen with hidden cursor and autowrap off
func (b *ANSIBackend) EnterScreen() error {
	w := b.writer
	w.Write(csiAltScreenEnter)
	w.Write(csiCursorHide)

	// DISABLE AUTO-WRAP
	// Prevents terminal scroll/wrap on bottom-right corner write
	w.Write(csiAutoWrapOff)

	if err := b.Clear(); err != nil {
		return err
	}
	return b.Flush()
}

// LeaveScreen restores the main screen, cursor and autowrap
func (b *ANSIBackend) LeaveScreen() error {
	w := b.writer
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)

	// Re-enable Auto-Wrap AFTER exiting alt screen to ensure the main buffer has wrap enabled
	w.Write(csiAutoWrapOn)
	w.Write(csiSGR0)
	b.cursorValid = false
	return b.Flush()
}

// writeStyleCoalesced emits a single combined SGR sequence when style changes
func (b *ANSIBackend) writeStyleCoalesced(w *bufio.Writer, s Style) {
	attr := s.Attrs()
	lastAttr := b.last.Attrs()

	fgChanged := !b.lastValid || s.Fg != b.last.Fg
	bgChanged := !b.lastValid || s.Bg != b.last.Bg
	attrChanged := !b.lastValid || attr != lastAttr

	if !fgChanged && !bgChanged && !attrChanged {
		return
	}

	w.Write(csi)
	if attrChanged {
		// Attributes cannot be switched off individually across all terminals, reset first
		w.WriteByte('0')
		for _, a := range sgrAttrs {
			if attr&a.attr != 0 {
				w.WriteByte(';')
				w.WriteByte(a.code)
			}
		}
		// Colors after a reset only need emitting when not default
		if s.Fg.Kind == ColorIndexed || s.Fg.Kind == ColorRGB {
			w.WriteByte(';')
			b.writeColorParams(w, s.Fg, true)
		}
		if s.Bg.Kind == ColorIndexed || s.Bg.Kind == ColorRGB {
			w.WriteByte(';')
			b.writeColorParams(w, s.Bg, false)
		}
	} else {
		first := true
		if fgChanged {
			b.writeColorParams(w, s.Fg, true)
			first = false
		}
		if bgChanged {
			if !first {
				w.WriteByte(';')
			}
			b.writeColorParams(w, s.Bg, false)
		}
	}
	w.WriteByte('m')

	b.last = s
	b.lastValid = true
}

// writeColorParams writes color parameters (no CSI prefix, no 'm' suffix)
func (b *ANSIBackend) writeColorParams(w *bufio.Writer, c Color, fg bool) {
	base := byte('3')
	if !fg {
		base = '4'
	}

	switch c.Kind {
	case ColorIndexed:
		// 256-color: 38;5;N
		w.WriteByte(base)
		w.WriteString("8;5;")
		writeInt(w, int(c.Index))
	case ColorRGB:
		w.WriteByte(base)
		if b.colorMode == ColorModeTrueColor {
			// True color: 38;2;R;G;B
			w.WriteString("8;2;")
			writeInt(w, int(c.RGB.R))
			w.WriteByte(';')
			writeInt(w, int(c.RGB.G))
			w.WriteByte(';')
			writeInt(w, int(c.RGB.B))
		} else {
			// Fallback 256: 38;5;N
			w.WriteString("8;5;")
			writeInt(w, int(RGBTo256(c.RGB)))
		}
	default:
		// Default color: 39 / 49
		w.WriteByte(base)
		w.WriteByte('9')
	}
}
