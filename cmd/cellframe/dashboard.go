package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"pkt.systems/pslog"

	"github.com/lixenwraith/cellframe/geom"
	"github.com/lixenwraith/cellframe/layout"
	"github.com/lixenwraith/cellframe/render"
	"github.com/lixenwraith/cellframe/terminal"
	"github.com/lixenwraith/cellframe/widgets"
)

const (
	historyLen = 256
	// maxDrawFailures consecutive failed frames end the session
	maxDrawFailures = 5

	keyCtrlC = 0x03
)

var (
	styleTitle  = terminal.Style{Fg: terminal.Indexed(45), Add: terminal.AttrBold}
	styleBorder = terminal.Style{Fg: terminal.Indexed(240)}
	styleMuted  = terminal.Style{Fg: terminal.Indexed(245)}
	styleSelect = terminal.Style{Fg: terminal.Indexed(16), Bg: terminal.Indexed(45)}
	styleSpark  = terminal.Style{Fg: terminal.Indexed(114)}
	styleFill   = terminal.Style{Fg: terminal.Indexed(214)}
)

// sample is one reading of process runtime statistics
type sample struct {
	Goroutines int
	HeapInuse  uint64
	HeapSys    uint64
	Objects    uint64
	NumGC      uint32
	NextGC     uint64
	PauseTotal time.Duration
}

// sampler reads the current process statistics
type sampler func() sample

func readRuntime() sample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return sample{
		Goroutines: runtime.NumGoroutine(),
		HeapInuse:  ms.HeapInuse,
		HeapSys:    ms.HeapSys,
		Objects:    ms.HeapObjects,
		NumGC:      ms.NumGC,
		NextGC:     ms.NextGC,
		PauseTotal: time.Duration(ms.PauseTotalNs),
	}
}

// monitor is the process-monitor dashboard: its data model and the renderers
// that draw it
type monitor struct {
	host    string
	started time.Time
	now     func() time.Time
	read    sampler
	term    *render.Terminal
	solver  *layout.Solver

	last    sample
	heap    []float64 // heap in use history, MiB
	samples uint64
	list    widgets.ListState
	help    *helpOverlay
}

func newMonitor(host string, term *render.Terminal, read sampler) *monitor {
	if read == nil {
		read = readRuntime
	}
	m := &monitor{
		host:   host,
		now:    time.Now,
		read:   read,
		term:   term,
		solver: layout.NewSolver(),
		heap:   make([]float64, 0, historyLen),
		list:   widgets.NewListState(),
		help:   &helpOverlay{},
	}
	m.started = m.now()
	m.list.Select(0)
	return m
}

// Sample records one reading into the history
func (m *monitor) Sample() {
	m.last = m.read()
	m.samples++
	if len(m.heap) == historyLen {
		copy(m.heap, m.heap[1:])
		m.heap = m.heap[:historyLen-1]
	}
	m.heap = append(m.heap, float64(m.last.HeapInuse)/(1<<20))
}

// HandleKey applies one input byte and reports whether the session should end
func (m *monitor) HandleKey(r rune) (quit bool) {
	switch r {
	case 'q', 'Q', keyCtrlC:
		return true
	case 'j':
		m.list.Select(min(m.list.Selected+1, len(m.rows())-1))
	case 'k':
		m.list.Select(max(m.list.Selected-1, 0))
	case '?', 'h':
		m.help.visible = !m.help.visible
	}
	return false
}

// Register adds the dashboard renderers to o
func (m *monitor) Register(o *render.Orchestrator) {
	o.Register(render.RendererFunc(m.renderBody), render.PriorityContent)
	o.Register(render.RendererFunc(m.renderHeader), render.PriorityChrome)
	o.Register(render.RendererFunc(m.renderFooter), render.PriorityChrome)
	o.Register(m.help, render.PriorityOverlay)
}

// areas splits the screen into header, body and footer
func (m *monitor) areas(size geom.Rect) (header, body, footer geom.Rect) {
	chunks := m.solver.Split(size, layout.Vertical, geom.Uniform(1), []layout.Constraint{
		layout.Percentage(10),
		layout.Percentage(80),
		layout.Percentage(10),
	})
	return chunks[0], chunks[1], chunks[2]
}

func (m *monitor) rows() []string {
	s := m.last
	return []string{
		fmt.Sprintf("goroutines   %d", s.Goroutines),
		fmt.Sprintf("heap in use  %s", formatBytes(s.HeapInuse)),
		fmt.Sprintf("heap sys     %s", formatBytes(s.HeapSys)),
		fmt.Sprintf("objects      %d", s.Objects),
		fmt.Sprintf("gc cycles    %d", s.NumGC),
		fmt.Sprintf("next gc      %s", formatBytes(s.NextGC)),
		fmt.Sprintf("gc pause     %s", s.PauseTotal.Round(time.Microsecond)),
	}
}

func (m *monitor) renderHeader(f *render.Frame) {
	header, _, _ := m.areas(f.Size())
	uptime := m.now().Sub(m.started).Round(time.Second)
	text := fmt.Sprintf("cellframe  %s  up %s\n%s  %d samples", m.host, uptime, runtime.Version(), m.samples)
	f.RenderWidget(widgets.Paragraph{Text: text, Style: styleTitle}, header)
}

func (m *monitor) renderBody(f *render.Frame) {
	_, body, _ := m.areas(f.Size())
	cols := m.solver.Split(body, layout.Horizontal, geom.Margin{}, []layout.Constraint{
		layout.Percentage(50),
		layout.Percentage(50),
	})

	stats := widgets.List{
		Items:           m.rows(),
		HighlightStyle:  styleSelect,
		HighlightSymbol: "> ",
		Block:           panel("runtime"),
	}
	render.RenderStateful(f, stats, cols[0], &m.list)

	right := m.solver.Split(cols[1], layout.Vertical, geom.Margin{}, []layout.Constraint{
		layout.Min(3),
		layout.Length(3),
	})
	f.RenderWidget(widgets.Sparkline{Data: m.heap, Style: styleSpark, Block: panel("heap MiB")}, right[0])

	var ratio float64
	if m.last.HeapSys > 0 {
		ratio = float64(m.last.HeapInuse) / float64(m.last.HeapSys)
	}
	f.RenderWidget(widgets.Gauge{Ratio: ratio, FillStyle: styleFill, Block: panel("heap in use / sys")}, right[1])
}

func (m *monitor) renderFooter(f *render.Frame) {
	_, _, footer := m.areas(f.Size())
	st := m.term.Stats()
	text := fmt.Sprintf("frame %d  cells %d  resizes %d\nq quit  j/k select  ? help", st.Frames, st.Updates, st.Resizes)
	f.RenderWidget(widgets.Paragraph{Text: text, Style: styleMuted, Align: widgets.AlignCenter}, footer)
}

func panel(title string) *widgets.Block {
	return &widgets.Block{
		Title:       title,
		Borders:     widgets.BorderAll,
		Line:        widgets.LineRounded,
		BorderStyle: styleBorder,
		TitleStyle:  styleTitle,
	}
}

// helpOverlay is a toggled popup listing the keys
type helpOverlay struct {
	visible bool
}

const helpText = "q / ctrl-c  quit\nj / k       move selection\n? / h       toggle this help"

// IsVisible implements render.VisibilityToggle
func (h *helpOverlay) IsVisible() bool { return h.visible }

// Render implements render.Renderer
func (h *helpOverlay) Render(f *render.Frame) {
	area := layout.Center(f.Size(), 36, 5)
	f.RenderWidget(widgets.Clear{}, area)
	f.RenderWidget(widgets.Paragraph{Text: helpText, Block: panel("help")}, area)
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// session is one dashboard bound to a backend and its input sources
type session struct {
	backend  terminal.Backend
	keys     <-chan rune
	resize   <-chan terminal.ResizeEvent
	interval time.Duration
	gap      int
	host     string
	read     sampler
	log      pslog.Logger
}

// runDashboard draws the dashboard until ctx ends, the key stream closes,
// a quit key arrives, or frames keep failing
func runDashboard(ctx context.Context, s session) error {
	log := s.log
	if log == nil {
		log = pslog.Ctx(ctx)
	}
	term, err := render.New(s.backend, render.Options{CoalesceGap: s.gap, Logger: log})
	if err != nil {
		return err
	}
	mon := newMonitor(s.host, term, s.read)
	orch := render.NewOrchestrator(term)
	mon.Register(orch)

	failures := 0
	draw := func() error {
		if err := orch.RenderFrame(); err != nil {
			failures++
			log.With("err", err, "failures", failures).Warn("dashboard frame failed")
			if failures >= maxDrawFailures {
				return fmt.Errorf("render dashboard: %w", err)
			}
			return nil
		}
		failures = 0
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	mon.Sample()
	if err := draw(); err != nil {
		return err
	}

	keys, resize := s.keys, s.resize
	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-keys:
			if !ok || mon.HandleKey(r) {
				return nil
			}
		case ev, ok := <-resize:
			if !ok {
				resize = nil
				continue
			}
			log.Debug("resize", "width", ev.Width, "height", ev.Height)
		case <-ticker.C:
			mon.Sample()
		}
		if err := draw(); err != nil {
			return err
		}
	}
}
