// Package layout partitions a rectangle into ordered, gap-free segments
// from a list of sizing constraints.
package layout

import (
	"slices"
	"strconv"
	"sync"

	"github.com/lixenwraith/cellframe/geom"
)

// Direction is the split axis
type Direction uint8

const (
	Vertical   Direction = iota // segments stacked top to bottom
	Horizontal                  // segments placed left to right
)

func (d Direction) String() string {
	if d == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Layout is a reusable split configuration
type Layout struct {
	Direction   Direction
	Margin      geom.Margin
	Constraints []Constraint
}

// Split partitions area through DefaultSolver
func (l Layout) Split(area geom.Rect) []geom.Rect {
	return DefaultSolver.Split(area, l.Direction, l.Margin, l.Constraints)
}

// Split partitions area through DefaultSolver
func Split(area geom.Rect, dir Direction, margin geom.Margin, constraints []Constraint) []geom.Rect {
	return DefaultSolver.Split(area, dir, margin, constraints)
}

// MaxCacheEntries bounds the memo; when exceeded the cache is dropped
// wholesale, which only happens after many distinct areas (e.g. resizes)
const MaxCacheEntries = 1024

// DefaultSolver is shared by Split and Layout.Split
var DefaultSolver = NewSolver()

// Solver memoizes splits keyed by the exact input tuple
// Safe for concurrent use
type Solver struct {
	mu    sync.Mutex
	cache map[string][]geom.Rect
	hits  uint64
}

// NewSolver creates a solver with an empty cache
func NewSolver() *Solver {
	return &Solver{cache: make(map[string][]geom.Rect)}
}

// Split returns one rect per constraint, in order, tiling area minus margin
// along dir. The caller owns the returned slice
func (s *Solver) Split(area geom.Rect, dir Direction, margin geom.Margin, constraints []Constraint) []geom.Rect {
	key := cacheKey(area, dir, margin, constraints)

	s.mu.Lock()
	if rects, ok := s.cache[key]; ok {
		s.hits++
		s.mu.Unlock()
		return slices.Clone(rects)
	}
	s.mu.Unlock()

	rects := split(area, dir, margin, constraints)

	s.mu.Lock()
	if len(s.cache) >= MaxCacheEntries {
		clear(s.cache)
	}
	s.cache[key] = rects
	s.mu.Unlock()

	return slices.Clone(rects)
}

// Stats returns the number of cached entries and cache hits
func (s *Solver) Stats() (entries int, hits uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache), s.hits
}

// Reset drops all cached results
func (s *Solver) Reset() {
	s.mu.Lock()
	clear(s.cache)
	s.hits = 0
	s.mu.Unlock()
}

func split(area geom.Rect, dir Direction, margin geom.Margin, constraints []Constraint) []geom.Rect {
	inner := area.Inner(margin)
	total := inner.Height
	if dir == Horizontal {
		total = inner.Width
	}

	lengths := solve(total, constraints)
	rects := make([]geom.Rect, len(lengths))
	offset := 0
	for i, l := range lengths {
		if dir == Horizontal {
			rects[i] = geom.Rect{X: inner.X + offset, Y: inner.Y, Width: l, Height: inner.Height}
		} else {
			rects[i] = geom.Rect{X: inner.X, Y: inner.Y + offset, Width: inner.Width, Height: l}
		}
		offset += l
	}
	return rects
}

func cacheKey(area geom.Rect, dir Direction, margin geom.Margin, constraints []Constraint) string {
	buf := make([]byte, 0, 32+len(constraints)*16)
	for _, v := range [...]int{area.X, area.Y, area.Width, area.Height, int(dir), margin.Horizontal, margin.Vertical} {
		buf = strconv.AppendInt(buf, int64(v), 10)
		buf = append(buf, ',')
	}
	for _, c := range constraints {
		buf = append(buf, '|')
		buf = strconv.AppendInt(buf, int64(c.Kind), 10)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(c.Value), 10)
		buf = append(buf, '/')
		buf = strconv.AppendInt(buf, int64(c.Den), 10)
		buf = append(buf, '@')
		buf = strconv.AppendInt(buf, int64(c.Priority), 10)
	}
	return string(buf)
}
