package terminal

import (
	"errors"

	"github.com/lixenwraith/cellframe/geom"
)

// ErrNotTerminal is returned when raw mode is requested on a non-tty file
var ErrNotTerminal = errors.New("not a terminal")

// Backend is the capability a render surface needs from an output device
// Draw receives updates in ascending row-major order; implementations may
// rely on that for monotonic cursor movement. Nothing is guaranteed visible
// until Flush returns.
type Backend interface {
	// Size reports the drawable extent, origin at 0,0
	Size() (geom.Rect, error)

	// Draw applies cell writes
	Draw(updates []Update) error

	// SetCursor moves the cursor (0-indexed)
	SetCursor(x, y int) error

	ShowCursor() error
	HideCursor() error

	// Clear blanks the whole screen
	Clear() error

	// Flush pushes pending output to the device
	Flush() error
}
