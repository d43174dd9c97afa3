package core

// Grid stores a 2D grid of cell values in row-major order.
type Grid[T comparable] struct {
	W, H int
	data []T
}

// NewGrid allocates a grid with the given dimensions.
func NewGrid[T comparable](w, h int) *Grid[T] {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid[T]{W: w, H: h, data: make([]T, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid[T]) Index(x, y int) int { return y*g.W + x }

// Coords is the inverse of Index.
func (g *Grid[T]) Coords(idx int) (int, int) { return idx % g.W, idx / g.W }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// At returns the value stored at (x, y).
func (g *Grid[T]) At(x, y int) T { return g.data[y*g.W+x] }

// Set stores v at (x, y).
func (g *Grid[T]) Set(x, y int, v T) { g.data[y*g.W+x] = v }

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Clear fills the grid with the zero value.
func (g *Grid[T]) Clear() {
	var zero T
	g.Fill(zero)
}

// Clone returns an independent copy.
func (g *Grid[T]) Clone() *Grid[T] {
	out := &Grid[T]{W: g.W, H: g.H, data: make([]T, len(g.data))}
	copy(out.data, g.data)
	return out
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid[T]) Equal(o *Grid[T]) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.W != o.W || g.H != o.H {
		return false
	}
	for i := range g.data {
		if g.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// MooreOffsets lists the eight neighbour offsets in a fixed order.
var MooreOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Neighbors writes the linear indices of the in-bounds Moore neighbours of
// (x, y) into buf and returns how many were written. Edges do not wrap.
func (g *Grid[T]) Neighbors(x, y int, buf *[8]int) int {
	n := 0
	for _, off := range MooreOffsets {
		nx, ny := x+off[0], y+off[1]
		if nx < 0 || ny < 0 || nx >= g.W || ny >= g.H {
			continue
		}
		buf[n] = ny*g.W + nx
		n++
	}
	return n
}
