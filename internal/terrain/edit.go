package terrain

import "fmt"

// SetTileType retypes the column at (x, y). With topOnly it replaces the
// topmost tile, or fills layer 0 when the column is empty; otherwise every
// tile in the column takes the new type.
func SetTileType(g *Grid, c *Catalog, x, y int, topOnly bool, id TileID) error {
	if !g.inBounds(x, y) {
		return fmt.Errorf("set tile type (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	if !c.Has(id) {
		return fmt.Errorf("set tile type (%d, %d) to %q: %w", x, y, id, ErrUnknownTile)
	}
	top := g.TopLayer(x, y)
	if top < 0 {
		top = 0
	}
	from := top
	if !topOnly {
		from = 0
	}
	for l := from; l <= top; l++ {
		if err := g.SetCell(l, x, y, id); err != nil {
			return err
		}
	}
	g.RecomputeHeightmap()
	return nil
}

// RetypeAt replaces the tile at (layer, x, y), which must already hold one.
func RetypeAt(g *Grid, c *Catalog, layer, x, y int, id TileID) error {
	if layer < 0 || !g.inBounds(x, y) {
		return fmt.Errorf("retype (%d, %d, %d): %w", layer, x, y, ErrOutOfBounds)
	}
	if !c.Has(id) {
		return fmt.Errorf("retype (%d, %d, %d) to %q: %w", layer, x, y, id, ErrUnknownTile)
	}
	if g.GetCell(layer, x, y) == Empty {
		return fmt.Errorf("retype (%d, %d, %d): %w", layer, x, y, ErrEmptyCell)
	}
	if err := g.SetCell(layer, x, y, id); err != nil {
		return err
	}
	g.RecomputeHeightmap()
	return nil
}

// DeleteTopTile removes the topmost tile at (x, y). Base tiles are protected.
func DeleteTopTile(g *Grid, x, y int) error {
	if err := g.DeleteCell(x, y); err != nil {
		return err
	}
	g.RecomputeHeightmap()
	return nil
}
