package terrain

import (
	"fmt"
	"math"
	"math/rand/v2"

	"isoterrain/internal/core"
)

// ElevationOptions controls GenerateElevation.
type ElevationOptions struct {
	// MaxElevation is the ceiling for every column, in stacked tiles.
	MaxElevation int
	// Iterations is the number of diffusion passes. More passes give
	// gentler, more eroded slopes.
	Iterations int
	// Seeding names the policy for initial elevations. Empty selects
	// DefaultSeedPolicy.
	Seeding string
}

// GenerateElevation grows mountains on elevation-eligible base tiles.
//
// Eligible cells start at a value chosen by the seeding policy and every
// other cell starts at 0. Each diffusion pass replaces every eligible cell by
// the rounded mean of its Moore neighbours and clamps it to
// [0, MaxElevation]; ineligible cells stay at 0, which pulls mountain edges
// down. Finally every layer above the base is rebuilt so a column of
// elevation h carries its base tile in layers 1..h.
//
// All checks run before the grid is touched.
func GenerateElevation(g *Grid, c *Catalog, opts ElevationOptions, rng *rand.Rand) error {
	if opts.MaxElevation < 0 {
		return fmt.Errorf("max elevation %d: %w", opts.MaxElevation, ErrInvalidParameter)
	}
	if opts.Iterations < 0 {
		return fmt.Errorf("elevation iterations %d: %w", opts.Iterations, ErrInvalidParameter)
	}
	if len(c.ElevationEligibleSet()) == 0 {
		return ErrNoElevationTile
	}
	if !g.Generated() {
		return fmt.Errorf("generate elevation: %w", ErrNotGenerated)
	}
	policy, err := NewPolicy(opts.Seeding, rng)
	if err != nil {
		return err
	}

	field := diffuseElevation(g.base(), c, opts, policy)
	g.restack(field)
	return nil
}

func diffuseElevation(base *core.Grid[TileID], c *Catalog, opts ElevationOptions, policy SeedPolicy) *core.Grid[int] {
	field := core.NewGrid[int](base.W, base.H)
	cur := field.Cells()
	mask := make([]bool, len(cur))
	for idx, id := range base.Cells() {
		if !c.IsElevationEligible(id) {
			continue
		}
		mask[idx] = true
		x, y := base.Coords(idx)
		cur[idx] = clampElevation(math.Round(policy.Initial(x, y, opts.MaxElevation)), opts.MaxElevation)
	}

	next := make([]int, len(cur))
	var nbuf [8]int
	for it := 0; it < opts.Iterations; it++ {
		for idx := range cur {
			if !mask[idx] {
				next[idx] = 0
				continue
			}
			x, y := base.Coords(idx)
			n := base.Neighbors(x, y, &nbuf)
			if n == 0 {
				next[idx] = cur[idx]
				continue
			}
			sum := 0
			for _, ni := range nbuf[:n] {
				sum += cur[ni]
			}
			next[idx] = clampElevation(math.Round(float64(sum)/float64(n)), opts.MaxElevation)
		}
		cur, next = next, cur
	}

	copy(field.Cells(), cur)
	return field
}

func clampElevation(v float64, max int) int {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > float64(max) {
		return max
	}
	return int(v)
}
