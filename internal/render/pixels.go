package render

import (
	"image"
	"image/color"

	"isoterrain/internal/terrain"
)

// FillHeightRGBA converts heights into RGBA pixels in buf, blending from low
// at height 0 to high at maxHeight. A maxHeight of 0 paints everything low.
func FillHeightRGBA(buf []byte, heights []int, maxHeight int, low, high color.RGBA) {
	for i, h := range heights {
		t := 0.0
		if maxHeight > 0 {
			t = float64(h) / float64(maxHeight)
			if t > 1 {
				t = 1
			}
		}
		base := i * 4
		buf[base+0] = lerp(low.R, high.R, t)
		buf[base+1] = lerp(low.G, high.G, t)
		buf[base+2] = lerp(low.B, high.B, t)
		buf[base+3] = lerp(low.A, high.A, t)
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}

// FillTileRGBA converts tile ids into RGBA pixels using a colour table.
// Empty cells are cleared to transparent black and ids missing from the
// table are painted magenta.
func FillTileRGBA(buf []byte, cells []terrain.TileID, colors map[terrain.TileID]color.RGBA) {
	for i, id := range cells {
		base := i * 4
		if id == terrain.Empty {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		col, ok := colors[id]
		if !ok {
			col = missing
		}
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// TopTiles returns the topmost tile id of every column in row-major order.
func TopTiles(g *terrain.Grid) []terrain.TileID {
	out := make([]terrain.TileID, g.Width()*g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			out[y*g.Width()+x] = g.GetCell(g.TopLayer(x, y), x, y)
		}
	}
	return out
}

// Minimap renders one pixel per column: the top tile colour when colors is
// non-nil, otherwise a grey heightmap.
func Minimap(g *terrain.Grid, colors map[terrain.TileID]color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	if colors != nil {
		FillTileRGBA(img.Pix, TopTiles(g), colors)
		return img
	}
	FillHeightRGBA(img.Pix, g.Heightmap().Cells(), g.MaxHeight(),
		color.RGBA{0x10, 0x10, 0x10, 0xff}, color.RGBA{0xff, 0xff, 0xff, 0xff})
	return img
}
