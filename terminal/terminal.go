package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// TTY holds the raw-mode state of an input terminal
type TTY struct {
	in      *os.File
	fd      int
	oldTerm *term.State

	mu          sync.Mutex
	initialized bool
	finalized   bool
}

// NewTTY wraps an input file, normally os.Stdin
func NewTTY(in *os.File) *TTY {
	return &TTY{in: in, fd: int(in.Fd())}
}

// Init enters raw mode
func (t *TTY) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if !term.IsTerminal(t.fd) {
		return fmt.Errorf("%s: %w", t.in.Name(), ErrNotTerminal)
	}

	old, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	t.oldTerm = old
	t.initialized = true
	return nil
}

// Fini restores the saved terminal mode. Safe to call multiple times
func (t *TTY) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	if t.oldTerm != nil {
		term.Restore(t.fd, t.oldTerm)
	}
	t.finalized = true
}

// Read reads raw input bytes
func (t *TTY) Read(p []byte) (int, error) {
	return t.in.Read(p)
}

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if Fini() cannot be called normally
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	// Best-effort; errors ignored in crash context
	resetTerminalMode()
}
