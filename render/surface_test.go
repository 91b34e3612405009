package render

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pkt.systems/pslog"

	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/geom"
	"github.com/lixenwraith/cellframe/terminal"
)

var errBackend = errors.New("backend gone")

func newTerminal(t *testing.T, w, h int) (*Terminal, *terminal.TestBackend) {
	t.Helper()
	be := terminal.NewTestBackend(w, h)
	term, err := New(be, Options{})
	require.NoError(t, err)
	return term, be
}

func paint(s string) func(*Frame) error {
	return func(f *Frame) error {
		f.Buffer().SetString(0, 0, s, terminal.Style{})
		return nil
	}
}

func positions(updates []terminal.Update) [][2]int {
	out := make([][2]int, len(updates))
	for i, u := range updates {
		out[i] = [2]int{u.X, u.Y}
	}
	return out
}

func TestFirstFrameRepaintsEverything(t *testing.T) {
	t.Parallel()

	term, be := newTerminal(t, 10, 2)
	require.NoError(t, term.Draw(paint("hi")))

	stats := term.Stats()
	assert.True(t, stats.FullRepaint)
	assert.Equal(t, 20, stats.Updates)
	assert.Equal(t, uint64(1), stats.Frames)
	assert.Equal(t, []string{"hi        ", "          "}, be.Lines())
}

func TestFrameWritesOnlyChanges(t *testing.T) {
	t.Parallel()

	term, be := newTerminal(t, 10, 1)
	require.NoError(t, term.Draw(paint("")))

	require.NoError(t, term.Draw(paint("hi")))
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}}, positions(be.LastUpdates()))
	assert.False(t, term.Stats().FullRepaint)

	// Unchanged frame sends no cells
	draws := be.Draws()
	require.NoError(t, term.Draw(paint("hi")))
	assert.Equal(t, draws, be.Draws())
	assert.Zero(t, term.Stats().Updates)
	assert.Equal(t, "hi        ", term.LastFrame().String())
}

func TestResizeForcesFullRepaint(t *testing.T) {
	t.Parallel()

	term, be := newTerminal(t, 10, 2)
	require.NoError(t, term.Draw(paint("hi")))
	require.NoError(t, term.Draw(paint("hi")))

	be.Resize(12, 3)
	f, err := term.BeginDraw()
	require.NoError(t, err)
	assert.Equal(t, geom.NewRect(0, 0, 12, 3), f.Size())
	f.Buffer().SetString(0, 0, "hi", terminal.Style{})
	require.NoError(t, term.EndDraw())

	stats := term.Stats()
	assert.True(t, stats.FullRepaint)
	assert.Equal(t, 36, stats.Updates)
	assert.Len(t, be.LastUpdates(), 36)
	assert.Equal(t, uint64(1), stats.Resizes)
	assert.Equal(t, "hi          ", be.Lines()[0])

	// Back to incremental once repainted
	require.NoError(t, term.Draw(paint("ho")))
	assert.Equal(t, [][2]int{{1, 0}}, positions(be.LastUpdates()))
}

func TestBackendFailureKeepsPreviousFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		inject func(be *terminal.TestBackend, err error)
	}{
		{"draw", func(be *terminal.TestBackend, err error) { be.DrawErr = err }},
		{"flush", func(be *terminal.TestBackend, err error) { be.FlushErr = err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			term, be := newTerminal(t, 4, 1)
			require.NoError(t, term.Draw(paint("a")))

			tt.inject(be, errBackend)
			err := term.Draw(paint("b"))
			require.ErrorIs(t, err, errBackend)
			assert.Equal(t, "a   ", term.LastFrame().String())
			assert.Equal(t, uint64(1), term.Stats().Frames)
			assert.Equal(t, uint64(1), term.Stats().Failures)

			// The device may hold part of "b", so the retry repaints every
			// cell even though the frame matches the previous one
			tt.inject(be, nil)
			require.NoError(t, term.Draw(paint("a")))
			assert.Len(t, be.LastUpdates(), 4)
			assert.True(t, term.Stats().FullRepaint)
			assert.Equal(t, "a   ", be.Lines()[0])
			assert.Equal(t, uint64(2), term.Stats().Frames)

			require.NoError(t, term.Draw(paint("b")))
			assert.Equal(t, [][2]int{{0, 0}}, positions(be.LastUpdates()))
			assert.False(t, term.Stats().FullRepaint)
			assert.Equal(t, "b   ", be.Lines()[0])
		})
	}
}

func TestFailedResizeRepaintIsRetried(t *testing.T) {
	t.Parallel()

	term, be := newTerminal(t, 4, 1)
	require.NoError(t, term.Draw(paint("a")))

	be.Resize(5, 1)
	be.DrawErr = errBackend
	require.Error(t, term.Draw(paint("a")))

	be.DrawErr = nil
	require.NoError(t, term.Draw(paint("a")))
	assert.True(t, term.Stats().FullRepaint)
	assert.Len(t, be.LastUpdates(), 5)
}

func TestCursorAppliedAfterContent(t *testing.T) {
	t.Parallel()

	term, be := newTerminal(t, 6, 2)

	require.NoError(t, term.Draw(paint("x")))
	assert.Equal(t, []string{"draw", "hide", "flush"}, be.Ops())

	be.ResetOps()
	require.NoError(t, term.Draw(func(f *Frame) error {
		f.Buffer().SetString(0, 1, "prompt", terminal.Style{})
		f.SetCursor(3, 1)
		return nil
	}))
	assert.Equal(t, []string{"draw", "cursor", "show", "flush"}, be.Ops())
	x, y, visible := be.Cursor()
	assert.Equal(t, 3, x)
	assert.Equal(t, 1, y)
	assert.True(t, visible)

	// Visibility is only toggled on change; position is always sent
	be.ResetOps()
	require.NoError(t, term.Draw(func(f *Frame) error {
		f.Buffer().SetString(0, 1, "prompt", terminal.Style{})
		f.SetCursor(4, 1)
		return nil
	}))
	assert.Equal(t, []string{"cursor", "flush"}, be.Ops())

	be.ResetOps()
	require.NoError(t, term.Draw(paint("")))
	assert.Equal(t, []string{"draw", "hide", "flush"}, be.Ops())
	_, _, visible = be.Cursor()
	assert.False(t, visible)
}

func TestDrawCycleIsNotReentrant(t *testing.T) {
	t.Parallel()

	term, _ := newTerminal(t, 4, 1)
	require.ErrorIs(t, term.EndDraw(), ErrNotDrawing)

	_, err := term.BeginDraw()
	require.NoError(t, err)

	_, err = term.BeginDraw()
	assert.ErrorIs(t, err, ErrDrawInProgress)
	assert.ErrorIs(t, term.Clear(), ErrDrawInProgress)
	assert.ErrorIs(t, term.Resize(geom.NewRect(0, 0, 2, 2)), ErrDrawInProgress)
	assert.ErrorIs(t, term.Draw(paint("x")), ErrDrawInProgress)

	require.NoError(t, term.EndDraw())
	require.ErrorIs(t, term.EndDraw(), ErrNotDrawing)
}

func TestAbandonedCycleLeavesPreviousFrame(t *testing.T) {
	t.Parallel()

	term, be := newTerminal(t, 4, 1)
	require.NoError(t, term.Draw(paint("ok")))
	draws := be.Draws()

	errPaint := errors.New("paint failed")
	err := term.Draw(func(f *Frame) error {
		f.Buffer().SetString(0, 0, "bad", terminal.Style{})
		return errPaint
	})
	require.ErrorIs(t, err, errPaint)
	assert.Equal(t, draws, be.Draws())
	assert.Equal(t, "ok  ", term.LastFrame().String())

	assert.Panics(t, func() {
		_ = term.Draw(func(f *Frame) error {
			f.Buffer().SetString(0, 0, "boom", terminal.Style{})
			panic("widget bug")
		})
	})
	assert.Equal(t, draws, be.Draws())

	// Next cycle starts from a blank buffer
	f, err := term.BeginDraw()
	require.NoError(t, err)
	assert.Equal(t, "    ", f.Buffer().String())
	term.Abort()
	term.Abort()

	require.NoError(t, term.Draw(paint("ok")))
	assert.Zero(t, term.Stats().Updates)
}

func TestFrameUnusableAfterCycle(t *testing.T) {
	t.Parallel()

	term, _ := newTerminal(t, 4, 1)
	f, err := term.BeginDraw()
	require.NoError(t, err)
	require.NoError(t, term.EndDraw())

	assert.Panics(t, func() { f.Buffer() })
	assert.Panics(t, func() { f.Size() })
}

func TestFixedViewport(t *testing.T) {
	t.Parallel()

	be := terminal.NewTestBackend(20, 10)
	vp := geom.NewRect(2, 3, 5, 2)
	term, err := New(be, Options{Viewport: &vp})
	require.NoError(t, err)

	be.Resize(30, 30)
	require.NoError(t, term.Draw(func(f *Frame) error {
		assert.Equal(t, vp, f.Size())
		f.Buffer().SetString(2, 3, "ok", terminal.Style{})
		return nil
	}))
	assert.Equal(t, 10, term.Stats().Updates)
	assert.Equal(t, "o", be.Cell(2, 3).Symbol)
	assert.Equal(t, "k", be.Cell(3, 3).Symbol)

	require.NoError(t, term.Resize(geom.NewRect(0, 0, 3, 1)))
	require.NoError(t, term.Draw(paint("ok")))
	assert.True(t, term.Stats().FullRepaint)
	assert.Equal(t, 3, term.Stats().Updates)
	assert.Equal(t, geom.NewRect(0, 0, 3, 1), term.Size())
}

func TestSizeQueryFailure(t *testing.T) {
	t.Parallel()

	be := terminal.NewTestBackend(4, 1)
	be.SizeErr = errBackend
	_, err := New(be, Options{})
	require.ErrorIs(t, err, errBackend)

	be.SizeErr = nil
	term, err := New(be, Options{})
	require.NoError(t, err)

	be.SizeErr = errBackend
	_, err = term.BeginDraw()
	require.ErrorIs(t, err, errBackend)

	be.SizeErr = nil
	require.NoError(t, term.Draw(paint("x")))
}

func TestOversizedBackendRejected(t *testing.T) {
	t.Parallel()

	be := terminal.NewTestBackend(4, 1)
	term, err := New(be, Options{})
	require.NoError(t, err)

	err = term.Resize(geom.NewRect(0, 0, buffer.MaxDimension+1, 1))
	require.ErrorIs(t, err, buffer.ErrAreaOverflow)
	assert.Equal(t, geom.NewRect(0, 0, 4, 1), term.Size())
	require.NoError(t, term.Draw(paint("x")))
}

func TestClearRewritesNextFrame(t *testing.T) {
	t.Parallel()

	term, be := newTerminal(t, 4, 1)
	require.NoError(t, term.Draw(paint("x")))

	require.NoError(t, term.Clear())
	assert.Equal(t, 1, be.Clears())
	assert.Equal(t, "    ", be.Lines()[0])

	require.NoError(t, term.Draw(paint("x")))
	assert.Equal(t, [][2]int{{0, 0}}, positions(be.LastUpdates()))
	assert.Equal(t, "x   ", be.Lines()[0])
}

func TestCoalesceGapOption(t *testing.T) {
	t.Parallel()

	be := terminal.NewTestBackend(10, 1)
	term, err := New(be, Options{CoalesceGap: 1})
	require.NoError(t, err)
	require.NoError(t, term.Draw(paint("")))

	require.NoError(t, term.Draw(paint("a a")))
	assert.Equal(t, [][2]int{{0, 0}, {2, 0}}, positions(be.LastUpdates()))

	be = terminal.NewTestBackend(10, 1)
	term, err = New(be, Options{})
	require.NoError(t, err)
	require.NoError(t, term.Draw(paint("")))

	require.NoError(t, term.Draw(paint("a a")))
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {2, 0}}, positions(be.LastUpdates()))
}

// =============================================================================
// Widgets
// =============================================================================

func TestRenderWidgetClipsArea(t *testing.T) {
	t.Parallel()

	term, _ := newTerminal(t, 10, 4)
	var got []geom.Rect
	w := WidgetFunc(func(area geom.Rect, buf *buffer.Buffer) {
		got = append(got, area)
		buf.Fill(area, terminal.Cell{Symbol: "#"})
	})

	require.NoError(t, term.Draw(func(f *Frame) error {
		f.RenderWidget(w, geom.NewRect(8, 2, 5, 5))
		f.RenderWidget(w, geom.NewRect(20, 20, 3, 3))
		f.RenderWidget(w, geom.NewRect(1, 1, 0, 3))
		return nil
	}))

	assert.Equal(t, []geom.Rect{geom.NewRect(8, 2, 2, 2)}, got)
	assert.Equal(t, "          \n          \n        ##\n        ##", term.LastFrame().String())
}

type counter struct{ n int }

type counterWidget struct{}

func (counterWidget) RenderStateful(area geom.Rect, buf *buffer.Buffer, state *counter) {
	state.n++
	buf.SetString(area.X, area.Y, strings.Repeat("*", state.n), terminal.Style{})
}

func TestRenderStateful(t *testing.T) {
	t.Parallel()

	term, _ := newTerminal(t, 5, 1)
	state := &counter{}
	for range 3 {
		require.NoError(t, term.Draw(func(f *Frame) error {
			RenderStateful(f, counterWidget{}, f.Size(), state)
			return nil
		}))
	}
	assert.Equal(t, 3, state.n)
	assert.Equal(t, "***  ", term.LastFrame().String())
}

// =============================================================================
// Logging
// =============================================================================

type logCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *logCapture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func TestSurfaceLogs(t *testing.T) {
	t.Parallel()

	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		VerboseFields: true,
		MinLevel:      pslog.DebugLevel,
	})

	be := terminal.NewTestBackend(4, 1)
	term, err := New(be, Options{Logger: logger})
	require.NoError(t, err)

	be.Resize(5, 1)
	be.DrawErr = errBackend
	require.Error(t, term.Draw(paint("x")))
	_ = term.Draw(func(*Frame) error { return errBackend })

	out := capture.String()
	assert.Contains(t, out, "terminal resized")
	assert.Contains(t, out, "frame not applied")
	assert.Contains(t, out, "backend gone")
	assert.Contains(t, out, "draw cycle abandoned")
}
