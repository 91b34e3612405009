package widgets

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/lixenwraith/cellframe/buffer"
	"github.com/lixenwraith/cellframe/terminal"
)

// Alignment positions text horizontally within its area
type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// offset returns the start column for text of width w in avail columns
func (a Alignment) offset(w, avail int) int {
	if w >= avail {
		return 0
	}
	switch a {
	case AlignCenter:
		return (avail - w) / 2
	case AlignRight:
		return avail - w
	}
	return 0
}

// textWidth returns the columns s occupies once written to a buffer
func textWidth(s string) int {
	return uniseg.StringWidth(s)
}

// Truncate cuts s to at most width display columns, marking the cut with …
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if textWidth(s) <= width {
		return s
	}
	return clusterPrefix(s, width-1) + "…"
}

// clusterPrefix returns the longest run of whole grapheme clusters from the
// start of s that fits in width columns
func clusterPrefix(s string, width int) string {
	n, used := 0, 0
	state := -1
	rest := s
	for len(rest) > 0 {
		cluster, next, w, st := uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width {
			break
		}
		n += len(cluster)
		used += w
		rest, state = next, st
	}
	return s[:n]
}

// WrapText wraps s at word boundaries so no line exceeds width display
// columns. Explicit newlines are kept, runs of spaces collapse, and words
// wider than width are broken
func WrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapLine(para, width)...)
	}
	return lines
}

func wrapLine(s string, width int) []string {
	var lines []string
	var line strings.Builder
	lineW := 0

	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineW = 0
	}

	for _, word := range strings.Fields(s) {
		ww := textWidth(word)

		// Hard break words that cannot fit on any line
		for ww > width {
			if lineW > 0 {
				flush()
			}
			head := clusterPrefix(word, width)
			if head == "" {
				head, _, _, _ = uniseg.FirstGraphemeClusterInString(word, -1)
			}
			lines = append(lines, head)
			word = word[len(head):]
			ww = textWidth(word)
		}
		if word == "" {
			continue
		}

		if lineW > 0 {
			if lineW+1+ww > width {
				flush()
			} else {
				line.WriteByte(' ')
				lineW++
			}
		}
		line.WriteString(word)
		lineW += ww
	}

	if lineW > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// setString writes s at x, y without crossing maxX
// Returns the column after the last written cluster
func setString(buf *buffer.Buffer, x, y int, s string, maxX int, style terminal.Style) int {
	if x >= maxX {
		return x
	}
	x, _ = buf.SetStringN(x, y, s, maxX-x, style)
	return x
}

// setCell replaces the symbol at x, y and patches style onto it
func setCell(buf *buffer.Buffer, x, y int, symbol string, style terminal.Style) {
	c := buf.Get(x, y)
	c.SetSymbol(symbol)
	c.SetStyle(style)
}
