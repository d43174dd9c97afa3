package terrain

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Smooth refines the base layer by neighbour-mode voting.
//
// Each iteration visits round(sampleFraction*w*h) cells chosen by rng. Visits
// are drawn in blocks of full permutations, so a fraction of 1 touches every
// cell once per iteration and larger fractions revisit cells. A visited cell
// takes the most frequent layer-0 tile among its Moore neighbours; edge cells
// simply have fewer neighbours. Ties keep the cell's own tile when it is one
// of the tied values and otherwise go to the lowest catalog ordinal, so the
// outcome depends only on rng.
//
// Only layer 0 changes. Elevation layers and the heightmap are left alone.
func Smooth(g *Grid, c *Catalog, iterations int, sampleFraction float64, rng *rand.Rand) error {
	if iterations < 0 {
		return fmt.Errorf("smooth iterations %d: %w", iterations, ErrInvalidParameter)
	}
	if sampleFraction < 0 || math.IsNaN(sampleFraction) || math.IsInf(sampleFraction, 0) {
		return fmt.Errorf("smooth sample fraction %v: %w", sampleFraction, ErrInvalidParameter)
	}
	if !g.Generated() {
		return fmt.Errorf("smooth: %w", ErrNotGenerated)
	}
	if iterations == 0 {
		return nil
	}

	base := g.base()
	cells := base.Cells()
	total := len(cells)
	visits := int(math.Round(sampleFraction * float64(total)))
	rank := newRanking(c)

	var perm []int
	var nbuf [8]int
	for it := 0; it < iterations; it++ {
		for k := 0; k < visits; k++ {
			if k%total == 0 {
				perm = rng.Perm(total)
			}
			idx := perm[k%total]
			x, y := base.Coords(idx)
			n := base.Neighbors(x, y, &nbuf)
			if n == 0 {
				continue
			}
			cells[idx] = neighborMode(cells, nbuf[:n], cells[idx], rank)
		}
	}
	return nil
}

// neighborMode returns the most frequent tile among cells[neighbors].
func neighborMode(cells []TileID, neighbors []int, current TileID, rank ranking) TileID {
	var ids [8]TileID
	var counts [8]int
	distinct := 0
	for _, ni := range neighbors {
		id := cells[ni]
		found := false
		for j := 0; j < distinct; j++ {
			if ids[j] == id {
				counts[j]++
				found = true
				break
			}
		}
		if !found {
			ids[distinct] = id
			counts[distinct] = 1
			distinct++
		}
	}

	best := 0
	for j := 0; j < distinct; j++ {
		if counts[j] > best {
			best = counts[j]
		}
	}
	winner := Empty
	for j := 0; j < distinct; j++ {
		if counts[j] != best {
			continue
		}
		if ids[j] == current {
			return current
		}
		if winner == Empty || rank.less(ids[j], winner) {
			winner = ids[j]
		}
	}
	return winner
}

// ranking orders tile ids by catalog ordinal. Ids missing from the catalog
// sort after every known id, lexically among themselves.
type ranking map[TileID]int

func newRanking(c *Catalog) ranking {
	r := make(ranking, c.Len())
	for i, id := range c.order {
		r[id] = i
	}
	return r
}

func (r ranking) less(a, b TileID) bool {
	oa, aok := r[a]
	ob, bok := r[b]
	switch {
	case aok && bok:
		return oa < ob
	case aok != bok:
		return aok
	default:
		return a < b
	}
}
