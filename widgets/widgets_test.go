package widgets

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/geom"
	"github.com/lixenwraith/cellframe/render"
	"github.com/lixenwraith/cellframe/terminal"
)

var (
	_ render.Widget                    = Block{}
	_ render.Widget                    = Paragraph{}
	_ render.Widget                    = Gauge{}
	_ render.Widget                    = Sparkline{}
	_ render.Widget                    = List{}
	_ render.Widget                    = Clear{}
	_ render.StatefulWidget[ListState] = List{}
)

func blank(w, h int) *buffer.Buffer {
	return buffer.MustNew(geom.NewRect(0, 0, w, h))
}

// =============================================================================
// Block
// =============================================================================

func TestBlockBorders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		block Block
		want  string
		inner geom.Rect
	}{
		{
			name:  "all with title",
			block: Block{Title: "Title", Borders: BorderAll},
			want:  "┌Title─┐\n│      │\n└──────┘",
			inner: geom.NewRect(1, 1, 6, 1),
		},
		{
			name:  "right aligned title",
			block: Block{Title: "Title", TitleAlign: AlignRight, Borders: BorderAll, Line: LineRounded},
			want:  "╭─Title╮\n│      │\n╰──────╯",
			inner: geom.NewRect(1, 1, 6, 1),
		},
		{
			name:  "emoji title right aligned",
			block: Block{Title: "❤️", TitleAlign: AlignRight, Borders: BorderAll},
			want:  "┌────❤️┐\n│      │\n└──────┘",
			inner: geom.NewRect(1, 1, 6, 1),
		},
		{
			name:  "long title truncated",
			block: Block{Title: "LongTitle", Borders: BorderAll, Line: LineDouble},
			want:  "╔LongT…╗\n║      ║\n╚══════╝",
			inner: geom.NewRect(1, 1, 6, 1),
		},
		{
			name:  "left and bottom",
			block: Block{Borders: BorderLeft | BorderBottom, Line: LineHeavy},
			want:  "┃       \n┃       \n┗━━━━━━━",
			inner: geom.NewRect(1, 0, 7, 2),
		},
		{
			name:  "title without border",
			block: Block{Title: "ab", TitleAlign: AlignCenter},
			want:  "   ab   \n        \n        ",
			inner: geom.NewRect(0, 1, 8, 2),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf := blank(8, 3)
			tt.block.Render(buf.Area(), buf)
			assert.Equal(t, tt.want, buf.String())
			assert.Equal(t, tt.inner, tt.block.Inner(buf.Area()))
		})
	}
}

func TestBlockStyles(t *testing.T) {
	t.Parallel()

	buf := blank(6, 3)
	b := Block{
		Title:       "x",
		Borders:     BorderAll,
		BorderStyle: terminal.Style{Fg: terminal.Red},
		TitleStyle:  terminal.Style{Add: terminal.AttrBold},
		Style:       terminal.Style{Bg: terminal.Blue},
	}
	b.Render(buf.Area(), buf)

	corner := buf.Get(0, 0).Style
	assert.Equal(t, terminal.Red, corner.Fg)
	assert.Equal(t, terminal.Blue, corner.Bg)

	title := buf.Get(1, 0).Style
	assert.Equal(t, terminal.Red, title.Fg)
	assert.Equal(t, terminal.AttrBold, title.Attrs())

	assert.Equal(t, terminal.Blue, buf.Get(2, 1).Style.Bg)
}

func TestBlockInnerDegenerate(t *testing.T) {
	t.Parallel()

	b := Block{Borders: BorderAll, Title: "t"}
	assert.True(t, b.Inner(geom.NewRect(0, 0, 1, 1)).IsEmpty())
	assert.Equal(t, geom.NewRect(1, 1, 0, 0), b.Inner(geom.NewRect(0, 0, 2, 2)))

	// Must not panic on tiny areas
	buf := blank(1, 1)
	b.Render(buf.Area(), buf)
	assert.Equal(t, "┘", buf.String())
}

// =============================================================================
// Text
// =============================================================================

func TestWrapText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		s     string
		width int
		want  []string
	}{
		{"", 5, []string{""}},
		{"a b c", 3, []string{"a b", "c"}},
		{"abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"x\ny", 5, []string{"x", "y"}},
		{"one  two", 20, []string{"one two"}},
		{"日本語", 4, []string{"日本", "語"}},
		{"日", 1, []string{"日"}},
		{"anything", 0, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WrapText(tt.s, tt.width), "%q at %d", tt.s, tt.width)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("abc", 0))

	// Emoji presentation sequences take two columns
	assert.Equal(t, "❤️", Truncate("❤️", 2))
	assert.Equal(t, "❤️…", Truncate("❤️❤️", 3))
	assert.Equal(t, "…", Truncate("🇺🇸🇺🇸", 2))
}

// =============================================================================
// Paragraph
// =============================================================================

func TestParagraph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    Paragraph
		want string
	}{
		{"wrapped", Paragraph{Text: "hello world foo", Wrap: true}, "hello \nworld \nfoo   "},
		{"scrolled", Paragraph{Text: "hello world foo", Wrap: true, Scroll: 1}, "world \nfoo   \n      "},
		{"scrolled past end", Paragraph{Text: "a", Scroll: 5}, "      \n      \n      "},
		{"cut at edge", Paragraph{Text: "hello world\nx"}, "hello \nx     \n      "},
		{"centered", Paragraph{Text: "ab", Align: AlignCenter}, "  ab  \n      \n      "},
		{"right", Paragraph{Text: "ab\nc", Align: AlignRight}, "    ab\n     c\n      "},
		{"wide glyphs", Paragraph{Text: "日本語です"}, "日本語\n      \n      "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf := blank(6, 3)
			tt.p.Render(buf.Area(), buf)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestParagraphInBlock(t *testing.T) {
	t.Parallel()

	buf := blank(8, 4)
	p := Paragraph{
		Text:  "hello world",
		Wrap:  true,
		Style: terminal.Style{Fg: terminal.Green},
		Block: &Block{Borders: BorderAll},
	}
	p.Render(buf.Area(), buf)

	assert.Equal(t, "┌──────┐\n│hello │\n│world │\n└──────┘", buf.String())
	assert.Equal(t, terminal.Green, buf.Get(1, 1).Style.Fg)
}

// =============================================================================
// Gauge
// =============================================================================

func TestGauge(t *testing.T) {
	t.Parallel()

	buf := blank(10, 2)
	Gauge{Ratio: 0.55}.Render(buf.Area(), buf)
	assert.Equal(t, "█████▌    \n███55%    ", buf.String())

	// Label cells over the fill are reversed
	assert.Equal(t, terminal.AttrReverse, buf.Get(3, 1).Style.Attrs())
	assert.Equal(t, terminal.AttrReverse, buf.Get(4, 1).Style.Attrs())
	assert.Equal(t, terminal.AttrNone, buf.Get(5, 1).Style.Attrs())
}

func TestGaugeClampsAndLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		g    Gauge
		want string
	}{
		{"over one", Gauge{Ratio: 1.5}, "100%"},
		{"negative", Gauge{Ratio: -1}, " 0% "},
		{"nan", Gauge{Ratio: math.NaN()}, " 0% "},
		{"custom label", Gauge{Ratio: 0, Label: "io"}, " io "},
		{"label truncated", Gauge{Ratio: 0, Label: "loading"}, "loa…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf := blank(4, 1)
			tt.g.Render(buf.Area(), buf)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

// =============================================================================
// Sparkline
// =============================================================================

func TestSparkline(t *testing.T) {
	t.Parallel()

	buf := blank(9, 1)
	Sparkline{Data: []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}, Max: 8}.Render(buf.Area(), buf)
	assert.Equal(t, " ▁▂▃▄▅▆▇█", buf.String())

	buf = blank(3, 2)
	Sparkline{Data: []float64{16, 8, 4}, Max: 16}.Render(buf.Area(), buf)
	assert.Equal(t, "█  \n██▄", buf.String())

	// Right-most samples, auto scaled to the visible maximum
	buf = blank(2, 1)
	Sparkline{Data: []float64{100, 2, 3, 4}}.Render(buf.Area(), buf)
	assert.Equal(t, "▆█", buf.String())

	buf = blank(3, 1)
	Sparkline{Data: []float64{0, 0}}.Render(buf.Area(), buf)
	assert.Equal(t, "   ", buf.String())
}

// =============================================================================
// List
// =============================================================================

func TestListKeepsSelectionVisible(t *testing.T) {
	t.Parallel()

	l := List{
		Items:           []string{"a", "b", "c", "d", "e"},
		HighlightSymbol: ">",
		HighlightStyle:  terminal.Style{Add: terminal.AttrBold},
	}
	state := NewListState()

	draw := func() string {
		buf := blank(4, 2)
		l.RenderStateful(buf.Area(), buf, &state)
		return buf.String()
	}

	state.Select(3)
	assert.Equal(t, " c  \n>d  ", draw())
	assert.Equal(t, 2, state.Offset)

	state.Select(0)
	assert.Equal(t, ">a  \n b  ", draw())
	assert.Equal(t, 0, state.Offset)

	state.Select(10)
	assert.Equal(t, " d  \n>e  ", draw())
	assert.Equal(t, 4, state.Selected)

	state.Select(-5)
	assert.Equal(t, -1, state.Selected)
}

func TestListHighlightRow(t *testing.T) {
	t.Parallel()

	l := List{Items: []string{"a", "b"}, HighlightStyle: terminal.Style{Add: terminal.AttrReverse}}
	state := ListState{Selected: 1}
	buf := blank(3, 2)
	l.RenderStateful(buf.Area(), buf, &state)

	for x := 0; x < 3; x++ {
		assert.Equal(t, terminal.AttrNone, buf.Get(x, 0).Style.Attrs())
		assert.Equal(t, terminal.AttrReverse, buf.Get(x, 1).Style.Attrs())
	}

	stateless := blank(3, 2)
	l.Render(stateless.Area(), stateless)
	assert.Equal(t, "a  \nb  ", stateless.String())
}

// =============================================================================
// Clear
// =============================================================================

func TestClear(t *testing.T) {
	t.Parallel()

	buf := buffer.WithLines("abc", "def")
	buf.SetStyle(buf.Area(), terminal.Style{Fg: terminal.Red})
	Clear{}.Render(geom.NewRect(1, 0, 2, 2), buf)

	require.Equal(t, "a  \nd  ", buf.String())
	assert.Equal(t, terminal.BlankCell, *buf.Get(2, 1))
	assert.Equal(t, terminal.Red, buf.Get(0, 1).Style.Fg)
}

// =============================================================================
// Through a render.Terminal
// =============================================================================

func TestWidgetsInFrame(t *testing.T) {
	t.Parallel()

	be := terminal.NewTestBackend(12, 3)
	term, err := render.New(be, render.Options{})
	require.NoError(t, err)

	state := ListState{Selected: 0}
	require.NoError(t, term.Draw(func(f *render.Frame) error {
		f.RenderWidget(Block{Borders: BorderAll, Title: "ps"}, f.Size())
		render.RenderStateful(f, List{Items: []string{"init"}, HighlightSymbol: "*"}, geom.NewRect(1, 1, 10, 1), &state)
		return nil
	}))

	assert.Equal(t, []string{"┌ps────────┐", "│*init     │", "└──────────┘"}, be.Lines())
}
