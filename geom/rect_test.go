package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRectClampsNegative(t *testing.T) {
	t.Parallel()
	r := NewRect(-1, 2, -5, 3)
	assert.Equal(t, Rect{X: 0, Y: 2, Width: 0, Height: 3}, r)
	assert.True(t, r.IsEmpty())
	assert.Equal(t, 0, r.Area())
}

func TestInner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rect   Rect
		margin Margin
		want   Rect
	}{
		{"uniform", NewRect(0, 0, 30, 10), Uniform(1), Rect{X: 1, Y: 1, Width: 28, Height: 8}},
		{"horizontal only", NewRect(2, 2, 10, 4), Margin{Horizontal: 2}, Rect{X: 4, Y: 2, Width: 6, Height: 4}},
		{"exact collapse", NewRect(0, 0, 4, 4), Uniform(2), Rect{X: 2, Y: 2, Width: 0, Height: 0}},
		{"too large", NewRect(3, 3, 4, 4), Uniform(3), Rect{X: 3, Y: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.rect.Inner(tt.margin))
		})
	}
}

func TestIntersectionAndUnion(t *testing.T) {
	t.Parallel()
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 10, 10)

	assert.Equal(t, NewRect(5, 5, 5, 5), a.Intersection(b))
	assert.Equal(t, NewRect(0, 0, 15, 15), a.Union(b))
	assert.True(t, a.Intersects(b))

	c := NewRect(20, 20, 2, 2)
	assert.True(t, a.Intersection(c).IsEmpty())
	assert.False(t, a.Intersects(c))

	assert.Equal(t, a, a.Union(Rect{}))
	assert.Equal(t, a, Rect{}.Union(a))
}

func TestContains(t *testing.T) {
	t.Parallel()
	r := NewRect(2, 3, 4, 2)

	assert.True(t, r.Contains(Position{X: 2, Y: 3}))
	assert.True(t, r.Contains(Position{X: 5, Y: 4}))
	assert.False(t, r.Contains(Position{X: 6, Y: 4}))
	assert.False(t, r.Contains(Position{X: 2, Y: 5}))

	assert.True(t, r.ContainsRect(NewRect(3, 3, 3, 2)))
	assert.False(t, r.ContainsRect(NewRect(3, 3, 4, 2)))
	assert.True(t, r.ContainsRect(Rect{X: 6, Y: 5}))
}

func TestSplit(t *testing.T) {
	t.Parallel()
	r := NewRect(1, 1, 10, 4)

	left, right := r.SplitX(3)
	assert.Equal(t, NewRect(1, 1, 3, 4), left)
	assert.Equal(t, NewRect(4, 1, 7, 4), right)

	top, bottom := r.SplitY(10)
	assert.Equal(t, r, top)
	assert.True(t, bottom.IsEmpty())
	assert.Equal(t, r.Bottom(), bottom.Y)
}
