package terrain

import (
	"fmt"

	"isoterrain/internal/core"
	pcore "isoterrain/pkg/core"
)

// GenerateBaseLayer fills layer 0 by weighted sampling over the catalog and
// discards every layer above it. Cells are visited in raster order and each
// draw depends only on seed and the cell index, so identical dimensions,
// weights and seed reproduce the same base layer.
//
// When no tile has a positive weight the grid is left untouched.
func GenerateBaseLayer(g *Grid, c *Catalog, seed int64) error {
	if g.size.Area() == 0 {
		return fmt.Errorf("generate base layer: %w", ErrInvalidDimension)
	}
	s := c.sampler()
	if s.total <= 0 {
		return ErrNoEligibleTile
	}
	base := core.NewGrid[TileID](g.size.W, g.size.H)
	cells := base.Cells()
	for idx := range cells {
		cells[idx] = s.pick(pcore.CellFloat(seed, idx))
	}
	g.resetBase(base, seed)
	return nil
}
