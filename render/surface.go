// Package render drives draw cycles: it owns the previous and current frame
// buffers, hands the current one to the application, and sends the diff to
// a terminal backend.
package render

import (
	"context"
	"errors"
	"fmt"

	"pkt.systems/pslog"

	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/geom"
	"github.com/lixenwraith/cellframe/terminal"
)

var (
	ErrDrawInProgress = errors.New("draw cycle already in progress")
	ErrNotDrawing     = errors.New("no draw cycle in progress")
)

// Options configures a Terminal
type Options struct {
	// Viewport fixes the drawable area and disables autoresize
	// nil follows the backend size
	Viewport *geom.Rect
	// CoalesceGap is passed to buffer.DiffGap; 0 selects buffer.DefaultCoalesceGap
	CoalesceGap int
	Logger      pslog.Logger
}

// Stats describes the most recent completed frame
type Stats struct {
	Frames      uint64 // completed draw cycles
	Updates     int    // cells written by the last frame
	FullRepaint bool   // last frame rewrote the whole area
	Resizes     uint64
	Failures    uint64 // backend failures surfaced from EndDraw
}

// Terminal is the render surface over one backend
// Not safe for concurrent use; the host drives frames from one goroutine
type Terminal struct {
	backend terminal.Backend
	log     pslog.Logger
	gap     int

	buffers [2]*buffer.Buffer
	current int

	viewport geom.Rect
	fixed    bool

	frame     *Frame
	fullDraw  bool // next EndDraw repaints every cell
	cursorOff bool // backend cursor known hidden

	stats Stats
}

// New creates a Terminal sized from opts.Viewport or the backend
func New(backend terminal.Backend, opts Options) (*Terminal, error) {
	t := &Terminal{
		backend:  backend,
		log:      opts.Logger,
		gap:      opts.CoalesceGap,
		fullDraw: true,
	}
	if t.log == nil {
		t.log = pslog.Ctx(context.Background())
	}
	if t.gap <= 0 {
		t.gap = buffer.DefaultCoalesceGap
	}

	if opts.Viewport != nil {
		t.viewport = *opts.Viewport
		t.fixed = true
	} else {
		size, err := backend.Size()
		if err != nil {
			return nil, fmt.Errorf("query terminal size: %w", err)
		}
		t.viewport = size
	}

	for i := range t.buffers {
		b, err := buffer.New(t.viewport)
		if err != nil {
			return nil, fmt.Errorf("allocate frame buffer: %w", err)
		}
		t.buffers[i] = b
	}
	return t, nil
}

// BeginDraw starts a draw cycle and returns its frame
// The frame and its buffer are valid until EndDraw or Abort
func (t *Terminal) BeginDraw() (*Frame, error) {
	if t.frame != nil {
		return nil, ErrDrawInProgress
	}
	if !t.fixed {
		size, err := t.backend.Size()
		if err != nil {
			return nil, fmt.Errorf("query terminal size: %w", err)
		}
		if size != t.viewport {
			if err := t.resize(size); err != nil {
				return nil, err
			}
		}
	}

	// Leftovers from an abandoned cycle
	cur := t.buffers[t.current]
	cur.Reset()

	t.frame = &Frame{buf: cur}
	return t.frame, nil
}

// EndDraw sends the frame diff and cursor state to the backend and swaps
// buffers. On backend failure nothing is swapped and the error is returned;
// part of the frame may have reached the device, so the next cycle repaints
// in full
func (t *Terminal) EndDraw() error {
	f := t.frame
	if f == nil {
		return ErrNotDrawing
	}
	t.frame = nil
	f.buf = nil

	cur := t.buffers[t.current]
	prev := t.buffers[1-t.current]

	var updates []terminal.Update
	if t.fullDraw {
		updates = cur.FullDiff()
	} else {
		updates = cur.DiffGap(prev, t.gap)
	}

	if err := t.flush(updates, f.cursor); err != nil {
		t.stats.Failures++
		t.fullDraw = true
		t.log.Warn("frame not applied", "err", err, "updates", len(updates))
		return err
	}

	t.stats.Frames++
	t.stats.Updates = len(updates)
	t.stats.FullRepaint = t.fullDraw
	t.fullDraw = false

	t.current = 1 - t.current
	t.buffers[t.current].Reset()
	return nil
}

// flush writes content first, then cursor state, then flushes
func (t *Terminal) flush(updates []terminal.Update, cursor *geom.Position) error {
	if len(updates) > 0 {
		if err := t.backend.Draw(updates); err != nil {
			return fmt.Errorf("draw: %w", err)
		}
	}

	if cursor == nil {
		if !t.cursorOff {
			if err := t.backend.HideCursor(); err != nil {
				return fmt.Errorf("hide cursor: %w", err)
			}
			t.cursorOff = true
		}
	} else {
		if err := t.backend.SetCursor(cursor.X, cursor.Y); err != nil {
			return fmt.Errorf("set cursor: %w", err)
		}
		if t.cursorOff {
			if err := t.backend.ShowCursor(); err != nil {
				return fmt.Errorf("show cursor: %w", err)
			}
			t.cursorOff = false
		}
	}

	if err := t.backend.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Draw runs one cycle: fn paints the frame, then EndDraw applies it
// An error or panic from fn abandons the cycle without touching the backend
func (t *Terminal) Draw(fn func(*Frame) error) error {
	f, err := t.BeginDraw()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			t.Abort()
			panic(r)
		}
	}()

	if err := fn(f); err != nil {
		t.Abort()
		return err
	}
	return t.EndDraw()
}

// Abort drops the in-progress cycle, if any
func (t *Terminal) Abort() {
	if t.frame == nil {
		return
	}
	t.frame.buf = nil
	t.frame = nil
	t.buffers[t.current].Reset()
	t.log.Debug("draw cycle abandoned")
}

// Clear blanks the backend and forgets the previous frame so the next cycle
// rewrites every non-blank cell
func (t *Terminal) Clear() error {
	if t.frame != nil {
		return ErrDrawInProgress
	}
	if err := t.backend.Clear(); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	t.buffers[1-t.current].Reset()
	return nil
}

// Resize sets the drawable area; the next cycle is a full repaint
// Intended for fixed viewports, autoresizing terminals track the backend
func (t *Terminal) Resize(area geom.Rect) error {
	if t.frame != nil {
		return ErrDrawInProgress
	}
	if area == t.viewport {
		return nil
	}
	return t.resize(area)
}

func (t *Terminal) resize(area geom.Rect) error {
	// Resize validates before touching content, so a failure leaves both
	// buffers at the old area
	for _, b := range t.buffers {
		if err := b.Resize(area); err != nil {
			return fmt.Errorf("resize frame buffer to %v: %w", area, err)
		}
	}
	t.log.Debug("terminal resized", "from", t.viewport.String(), "to", area.String())
	t.viewport = area
	t.fullDraw = true
	t.stats.Resizes++
	return nil
}

// Size returns the current drawable area
func (t *Terminal) Size() geom.Rect {
	return t.viewport
}

// Stats returns counters for completed frames
func (t *Terminal) Stats() Stats {
	return t.stats
}

// LastFrame returns the most recently applied frame
// Read only; valid until the next EndDraw
func (t *Terminal) LastFrame() *buffer.Buffer {
	return t.buffers[1-t.current]
}

// Backend returns the underlying backend
func (t *Terminal) Backend() terminal.Backend {
	return t.backend
}
