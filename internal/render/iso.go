package render

import (
	"image"
	"math"

	"isoterrain/internal/terrain"
)

// Projection maps grid coordinates onto an isometric canvas. A tile sprite
// is TileW wide and TileH+Thickness tall: a TileW×TileH diamond top face
// above a Thickness-pixel side band.
type Projection struct {
	TileW     int
	TileH     int
	Thickness int
}

// NewProjection reads the tile geometry from a terrain config.
func NewProjection(cfg terrain.Config) Projection {
	return Projection{TileW: cfg.TileWidth, TileH: cfg.TileHeight, Thickness: cfg.TileThickness}
}

// SpriteSize returns the pixel size of one tile sprite.
func (p Projection) SpriteSize() (int, int) { return p.TileW, p.TileH + p.Thickness }

// Project returns the top-left corner of the sprite for the tile at
// (layer, x, y), relative to the sprite of (0, 0, 0).
func (p Projection) Project(layer, x, y int) (float64, float64) {
	hw := float64(p.TileW) / 2
	hh := float64(p.TileH) / 2
	sx := float64(x-y) * hw
	sy := float64(x+y)*hh - float64(layer*p.Thickness)
	return sx, sy
}

// Bounds returns the canvas rectangle covering every sprite of a w×h grid
// with columns up to maxHeight tiles above the base.
func (p Projection) Bounds(w, h, maxHeight int) image.Rectangle {
	sw, sh := p.SpriteSize()
	minX, _ := p.Project(0, 0, h-1)
	maxX, _ := p.Project(0, w-1, 0)
	_, minY := p.Project(maxHeight, 0, 0)
	_, maxY := p.Project(0, w-1, h-1)
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+sw, int(math.Ceil(maxY))+sh)
}

// Cell returns the grid cell whose top face at the given layer contains the
// canvas point (px, py).
func (p Projection) Cell(layer int, px, py float64) (int, int) {
	hw := float64(p.TileW) / 2
	hh := float64(p.TileH) / 2
	py += float64(layer * p.Thickness)
	u := (px - hw) / hw
	v := (py - hh) / hh
	return int(math.Floor((u+v)/2 + 0.5)), int(math.Floor((v-u)/2 + 0.5))
}

// onTop reports whether (px, py) falls on the top face of t.
func (p Projection) onTop(t terrain.Tile, px, py float64) bool {
	x, y := p.Cell(t.Layer, px, py)
	return x == t.X && y == t.Y
}

// Pick returns the front-most tile whose top face covers the canvas point
// (px, py).
func (p Projection) Pick(g *terrain.Grid, px, py float64) (terrain.Tile, bool) {
	tiles := g.Tiles()
	for i := len(tiles) - 1; i >= 0; i-- {
		if p.onTop(tiles[i], px, py) {
			return tiles[i], true
		}
	}
	return terrain.Tile{}, false
}
