package terrain

// Stats summarizes a terrain for logs and parameter sweeps.
type Stats struct {
	// Tiles counts base tiles per id.
	Tiles map[TileID]int
	// Stacked is the total number of non-empty cells over all layers.
	Stacked int
	// Elevated is the number of columns with height above zero.
	Elevated int

	MaxHeight  int
	MeanHeight float64
	// Roughness is the mean absolute height difference between
	// horizontally and vertically adjacent columns.
	Roughness float64
}

// Summarize computes Stats for g.
func Summarize(g *Grid) Stats {
	st := Stats{Tiles: make(map[TileID]int)}
	w, h := g.size.W, g.size.H
	if w == 0 || h == 0 {
		return st
	}

	g.Walk(func(t Tile) bool {
		st.Stacked++
		if t.Layer == 0 {
			st.Tiles[t.ID]++
		}
		return true
	})

	sum := 0
	diff := 0
	pairs := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := g.heights.At(x, y)
			sum += v
			if v > 0 {
				st.Elevated++
			}
			if v > st.MaxHeight {
				st.MaxHeight = v
			}
			if x+1 < w {
				diff += absInt(v - g.heights.At(x+1, y))
				pairs++
			}
			if y+1 < h {
				diff += absInt(v - g.heights.At(x, y+1))
				pairs++
			}
		}
	}
	st.MeanHeight = float64(sum) / float64(w*h)
	if pairs > 0 {
		st.Roughness = float64(diff) / float64(pairs)
	}
	return st
}

// Coverage returns the share of base tiles holding id.
func (s Stats) Coverage(id TileID) float64 {
	total := 0
	for _, n := range s.Tiles {
		total += n
	}
	if total == 0 {
		return 0
	}
	return float64(s.Tiles[id]) / float64(total)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
