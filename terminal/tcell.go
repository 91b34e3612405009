package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/cellframe/geom"
)

// TcellBackend draws through a tcell.Screen
// The screen must be initialized by the caller; tcell owns raw mode,
// alternate screen and its own output diffing
type TcellBackend struct {
	screen tcell.Screen

	cursorX       int
	cursorY       int
	cursorVisible bool
}

// NewTcellBackend wraps an initialized screen
func NewTcellBackend(screen tcell.Screen) *TcellBackend {
	return &TcellBackend{screen: screen}
}

// Screen returns the wrapped screen, for event polling
func (b *TcellBackend) Screen() tcell.Screen {
	return b.screen
}

// Size implements Backend
func (b *TcellBackend) Size() (geom.Rect, error) {
	w, h := b.screen.Size()
	return geom.NewRect(0, 0, w, h), nil
}

// Draw implements Backend
func (b *TcellBackend) Draw(updates []Update) error {
	var runes []rune
	for _, u := range updates {
		c := u.Cell
		// tcell advances over wide runes itself
		if c == nil || c.IsPlaceholder() {
			continue
		}
		runes = append(runes[:0], []rune(c.Symbol)...)
		var combining []rune
		if len(runes) > 1 {
			combining = runes[1:]
		}
		b.screen.SetContent(u.X, u.Y, runes[0], combining, ToTcellStyle(c.Style))
	}
	return nil
}

// SetCursor implements Backend
func (b *TcellBackend) SetCursor(x, y int) error {
	b.cursorX, b.cursorY = x, y
	if b.cursorVisible {
		b.screen.ShowCursor(x, y)
	}
	return nil
}

// ShowCursor implements Backend
func (b *TcellBackend) ShowCursor() error {
	b.cursorVisible = true
	b.screen.ShowCursor(b.cursorX, b.cursorY)
	return nil
}

// HideCursor implements Backend
func (b *TcellBackend) HideCursor() error {
	b.cursorVisible = false
	b.screen.HideCursor()
	return nil
}

// Clear implements Backend
func (b *TcellBackend) Clear() error {
	b.screen.Clear()
	return nil
}

// Flush implements Backend
func (b *TcellBackend) Flush() error {
	b.screen.Show()
	return nil
}

// ToTcellStyle converts a Style to tcell.Style
func ToTcellStyle(s Style) tcell.Style {
	st := tcell.StyleDefault.
		Foreground(ToTcellColor(s.Fg)).
		Background(ToTcellColor(s.Bg))

	attr := s.Attrs()
	if attr == AttrNone {
		return st
	}
	return st.
		Bold(attr&AttrBold != 0).
		Dim(attr&AttrDim != 0).
		Italic(attr&AttrItalic != 0).
		Underline(attr&AttrUnderline != 0).
		Blink(attr&AttrBlink != 0).
		Reverse(attr&AttrReverse != 0).
		StrikeThrough(attr&AttrStrikethrough != 0)
}

// ToTcellColor converts a Color to tcell.Color
func ToTcellColor(c Color) tcell.Color {
	switch c.Kind {
	case ColorIndexed:
		return tcell.PaletteColor(int(c.Index))
	case ColorRGB:
		return tcell.NewRGBColor(int32(c.RGB.R), int32(c.RGB.G), int32(c.RGB.B))
	case ColorReset:
		return tcell.ColorReset
	}
	return tcell.ColorDefault
}
