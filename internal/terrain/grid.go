package terrain

import (
	"fmt"

	"isoterrain/internal/core"
)

// Grid is the layered tile assignment of a terrain plus its heightmap.
//
// Layer 0 is the base layer. Layers above it stack elevation tiles and may be
// sparse, but within a column the non-empty entries are always contiguous
// from layer 0 upward. The heightmap holds the number of tiles stacked above
// the base in each column. It is derived from the layer stack: every
// mutation updates the affected column, and it cannot be set directly.
type Grid struct {
	size    core.Size
	layers  []*core.Grid[TileID]
	heights *core.Grid[int]
	seed    int64
}

// NewGrid returns an empty grid (no layers) of the given dimensions.
func NewGrid(w, h int) (*Grid, error) {
	g := &Grid{}
	if err := g.Allocate(w, h); err != nil {
		return nil, err
	}
	return g, nil
}

// MaxArea is the largest number of cells a grid may hold.
const MaxArea = 1 << 24

// validDimensions reports whether a w×h grid is non-empty and no larger than
// MaxArea.
func validDimensions(w, h int) bool {
	return w > 0 && h > 0 && w <= MaxArea/h
}

// Allocate resets g to an empty grid of the given dimensions. On error g is
// left untouched.
func (g *Grid) Allocate(w, h int) error {
	if !validDimensions(w, h) {
		return fmt.Errorf("allocate %dx%d: %w", w, h, ErrInvalidDimension)
	}
	g.size = core.Size{W: w, H: h}
	g.layers = nil
	g.heights = core.NewGrid[int](w, h)
	g.seed = 0
	return nil
}

// Size returns the grid dimensions in tiles.
func (g *Grid) Size() core.Size { return g.size }

// Width returns the number of columns.
func (g *Grid) Width() int { return g.size.W }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.size.H }

// Depth returns the number of allocated layers.
func (g *Grid) Depth() int { return len(g.layers) }

// Seed returns the seed of the run that produced the base layer.
func (g *Grid) Seed() int64 { return g.seed }

// SetSeed records the seed for a grid rebuilt from an export or snapshot.
func (g *Grid) SetSeed(seed int64) { g.seed = seed }

// Generated reports whether layer 0 exists and has no empty cells.
func (g *Grid) Generated() bool {
	if len(g.layers) == 0 {
		return false
	}
	for _, id := range g.layers[0].Cells() {
		if id == Empty {
			return false
		}
	}
	return true
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size.W && y < g.size.H
}

// GetCell returns the tile at (layer, x, y). Unallocated layers and
// out-of-range coordinates read as Empty.
func (g *Grid) GetCell(layer, x, y int) TileID {
	if layer < 0 || layer >= len(g.layers) || !g.inBounds(x, y) {
		return Empty
	}
	return g.layers[layer].At(x, y)
}

// SetCell stores id (or Empty) at (layer, x, y), appending empty layers when
// layer is beyond the current depth.
//
// A tile may only be placed on top of a non-empty cell, and a cell may only
// be cleared when nothing rests on it. Layer 0 can be retyped but never
// cleared.
func (g *Grid) SetCell(layer, x, y int, id TileID) error {
	if layer < 0 || !g.inBounds(x, y) {
		return fmt.Errorf("set cell (%d, %d, %d): %w", layer, x, y, ErrOutOfBounds)
	}
	if id == Empty {
		return g.clearCell(layer, x, y)
	}
	if layer > 0 && g.GetCell(layer-1, x, y) == Empty {
		return fmt.Errorf("set cell (%d, %d, %d): %w", layer, x, y, ErrFloatingTile)
	}
	for len(g.layers) <= layer {
		g.layers = append(g.layers, core.NewGrid[TileID](g.size.W, g.size.H))
	}
	prev := g.layers[layer].At(x, y)
	g.layers[layer].Set(x, y, id)
	if prev == Empty {
		g.heights.Set(x, y, layer)
	}
	return nil
}

func (g *Grid) clearCell(layer, x, y int) error {
	if g.GetCell(layer, x, y) == Empty {
		return nil
	}
	if layer == 0 {
		return fmt.Errorf("clear cell (0, %d, %d): %w", x, y, ErrProtectedLayer)
	}
	if g.GetCell(layer+1, x, y) != Empty {
		return fmt.Errorf("clear cell (%d, %d, %d): %w", layer, x, y, ErrFloatingTile)
	}
	g.layers[layer].Set(x, y, Empty)
	g.heights.Set(x, y, layer-1)
	return nil
}

// DeleteCell removes the topmost tile of the column at (x, y).
func (g *Grid) DeleteCell(x, y int) error {
	if !g.inBounds(x, y) {
		return fmt.Errorf("delete (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	n := g.stacked(x, y)
	switch n {
	case 0:
		return fmt.Errorf("delete (%d, %d): %w", x, y, ErrEmptyCell)
	case 1:
		return fmt.Errorf("delete (%d, %d): %w", x, y, ErrProtectedLayer)
	}
	g.layers[n-1].Set(x, y, Empty)
	g.heights.Set(x, y, n-2)
	return nil
}

// TopLayer returns the layer index of the topmost tile at (x, y), or -1 for
// an empty or out-of-range column.
func (g *Grid) TopLayer(x, y int) int {
	if !g.inBounds(x, y) {
		return -1
	}
	return g.stacked(x, y) - 1
}

// stacked returns the number of tiles in the column at (x, y), base included.
func (g *Grid) stacked(x, y int) int {
	if g.GetCell(0, x, y) == Empty {
		return 0
	}
	return g.heights.At(x, y) + 1
}

// RecomputeHeightmap rebuilds the heightmap from the layer stack.
func (g *Grid) RecomputeHeightmap() {
	for y := 0; y < g.size.H; y++ {
		for x := 0; x < g.size.W; x++ {
			g.heights.Set(x, y, elevation(g.columnHeight(x, y)))
		}
	}
}

// elevation converts a column's tile count into its heightmap value.
func elevation(count int) int {
	if count <= 1 {
		return 0
	}
	return count - 1
}

func (g *Grid) columnHeight(x, y int) int {
	h := 0
	for _, layer := range g.layers {
		if layer.At(x, y) == Empty {
			break
		}
		h++
	}
	return h
}

// HeightAt returns the elevation at (x, y): the number of tiles stacked on the
// base tile.
func (g *Grid) HeightAt(x, y int) int {
	if !g.inBounds(x, y) {
		return 0
	}
	return g.heights.At(x, y)
}

// Heightmap returns a copy of the heightmap.
func (g *Grid) Heightmap() *core.Grid[int] { return g.heights.Clone() }

// MaxHeight returns the tallest column.
func (g *Grid) MaxHeight() int {
	max := 0
	for _, h := range g.heights.Cells() {
		if h > max {
			max = h
		}
	}
	return max
}

// Clone returns an independent deep copy.
func (g *Grid) Clone() *Grid {
	out := &Grid{size: g.size, heights: g.heights.Clone(), seed: g.seed}
	out.layers = make([]*core.Grid[TileID], len(g.layers))
	for i, l := range g.layers {
		out.layers[i] = l.Clone()
	}
	return out
}

// Equal reports whether every GetCell and HeightAt query answers the same on
// both grids. Trailing all-empty layers do not count.
func (g *Grid) Equal(o *Grid) bool {
	if g.size != o.size || !g.heights.Equal(o.heights) {
		return false
	}
	depth := len(g.layers)
	if len(o.layers) > depth {
		depth = len(o.layers)
	}
	for l := 0; l < depth; l++ {
		for y := 0; y < g.size.H; y++ {
			for x := 0; x < g.size.W; x++ {
				if g.GetCell(l, x, y) != o.GetCell(l, x, y) {
					return false
				}
			}
		}
	}
	return true
}

// CheckInvariants verifies the layer stack and heightmap agree. It is meant
// for tests and import validation.
func (g *Grid) CheckInvariants() error {
	for y := 0; y < g.size.H; y++ {
		for x := 0; x < g.size.W; x++ {
			h := g.columnHeight(x, y)
			for l := h; l < len(g.layers); l++ {
				if g.layers[l].At(x, y) != Empty {
					return fmt.Errorf("tile at (%d, %d, %d) floats above layer %d: %w", l, x, y, h, ErrFloatingTile)
				}
			}
			if got := g.heights.At(x, y); got != elevation(h) {
				return fmt.Errorf("heightmap (%d, %d) = %d, stack holds %d tiles", x, y, got, h)
			}
		}
	}
	return nil
}

// resetBase replaces every layer with base and records the seed.
func (g *Grid) resetBase(base *core.Grid[TileID], seed int64) {
	g.layers = []*core.Grid[TileID]{base}
	g.heights.Clear()
	g.seed = seed
}

// base returns layer 0. Callers must have checked Generated.
func (g *Grid) base() *core.Grid[TileID] { return g.layers[0] }

// restack drops every layer above the base and rebuilds columns so that
// (x, y) carries heights[x, y] copies of its base tile in layers 1..h.
func (g *Grid) restack(heights *core.Grid[int]) {
	g.layers = g.layers[:1]
	base := g.layers[0]
	for y := 0; y < g.size.H; y++ {
		for x := 0; x < g.size.W; x++ {
			id := base.At(x, y)
			for l := 1; l <= heights.At(x, y); l++ {
				for len(g.layers) <= l {
					g.layers = append(g.layers, core.NewGrid[TileID](g.size.W, g.size.H))
				}
				g.layers[l].Set(x, y, id)
			}
		}
	}
	g.RecomputeHeightmap()
}
