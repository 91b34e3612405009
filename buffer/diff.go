package buffer

import (
	"fmt"

	"github.com/lixenwraith/cellframe/terminal"
)

// DefaultCoalesceGap is the default unchanged-gap threshold for Diff
// A same-row cursor jump costs 3-4 bytes, about the same as rewriting three
// plain cells, so gaps shorter than 4 are rewritten instead of jumped over
const DefaultCoalesceGap = 4

// Diff returns the writes that turn prev into b, using DefaultCoalesceGap
func (b *Buffer) Diff(prev *Buffer) []terminal.Update {
	return b.DiffGap(prev, DefaultCoalesceGap)
}

// DiffGap returns the writes that turn prev into b in ascending row-major
// order. Within a row, a run of unchanged cells shorter than gap between two
// changed spans is emitted as well, trading a few redundant writes for fewer
// cursor moves; gap <= 1 disables this. A wide glyph and its continuation
// cells form one span that is emitted whole when any of its cells changed.
// Both buffers must cover the same area
func (b *Buffer) DiffGap(prev *Buffer, gap int) []terminal.Update {
	if prev.area != b.area {
		panic(fmt.Sprintf("buffer: diff area mismatch %v vs %v", b.area, prev.area))
	}

	var updates []terminal.Update
	w := b.area.Width
	for row := 0; row < b.area.Height; row++ {
		rowStart := row * w
		rowEnd := rowStart + w
		dirtyEnd := -1 // index one past the last emitted span in this row

		for i := rowStart; i < rowEnd; {
			span := b.spanAt(i, rowEnd)
			if !b.spanDiffers(prev, i, span) {
				i += span
				continue
			}

			if dirtyEnd >= 0 && i > dirtyEnd && i-dirtyEnd < gap {
				updates = b.appendRange(updates, dirtyEnd, i)
			}
			updates = b.appendRange(updates, i, i+span)
			i += span
			dirtyEnd = i
		}
	}
	return updates
}

// FullDiff returns a write for every cell, for repainting an unknown screen
func (b *Buffer) FullDiff() []terminal.Update {
	return b.appendRange(make([]terminal.Update, 0, len(b.content)), 0, len(b.content))
}

// spanAt returns how many cells starting at i form one unit: a wide owner
// plus its continuation cells, otherwise 1
func (b *Buffer) spanAt(i, rowEnd int) int {
	if b.content[i].IsPlaceholder() || b.content[i].Width() < 2 {
		return 1
	}
	span := 1
	for i+span < rowEnd && b.content[i+span].IsPlaceholder() {
		span++
	}
	return span
}

func (b *Buffer) spanDiffers(prev *Buffer, i, span int) bool {
	for k := i; k < i+span; k++ {
		if b.content[k] != prev.content[k] {
			return true
		}
	}
	return false
}

func (b *Buffer) appendRange(updates []terminal.Update, from, to int) []terminal.Update {
	for i := from; i < to; i++ {
		x, y := b.Pos(i)
		updates = append(updates, terminal.Update{X: x, Y: y, Cell: &b.content[i]})
	}
	return updates
}
