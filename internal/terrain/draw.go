package terrain

// Tile is one non-empty cell of the layer stack.
type Tile struct {
	Layer int
	X, Y  int
	ID    TileID
}

// Walk calls fn for every non-empty cell in back-to-front draw order:
// ascending y, then ascending x, then ascending layer. Walking stops early
// when fn returns false.
func (g *Grid) Walk(fn func(Tile) bool) {
	for y := 0; y < g.size.H; y++ {
		for x := 0; x < g.size.W; x++ {
			for l := range g.layers {
				id := g.layers[l].At(x, y)
				if id == Empty {
					break
				}
				if !fn(Tile{Layer: l, X: x, Y: y, ID: id}) {
					return
				}
			}
		}
	}
}

// Tiles collects Walk into a slice.
func (g *Grid) Tiles() []Tile {
	var out []Tile
	g.Walk(func(t Tile) bool {
		out = append(out, t)
		return true
	})
	return out
}
