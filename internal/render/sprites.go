package render

import (
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"isoterrain/internal/terrain"
)

// missing marks tiles without a colour or sprite.
var missing = color.RGBA{R: 0xff, B: 0xff, A: 0xff}

// Sprites holds one sprite per tile id, all sized for a projection.
type Sprites struct {
	proj   Projection
	byID   map[terrain.TileID]*image.RGBA
	colors map[terrain.TileID]color.RGBA
}

// NewSprites prepares sprites for the projection. Tiles with an image get it
// scaled to the sprite size; the rest get a shaded block in their colour.
func NewSprites(p Projection, colors map[terrain.TileID]color.RGBA, images map[terrain.TileID]image.Image) *Sprites {
	s := &Sprites{proj: p, byID: make(map[terrain.TileID]*image.RGBA), colors: colors}
	for id, c := range colors {
		s.byID[id] = Block(p, c)
	}
	for id, img := range images {
		s.byID[id] = scaleSprite(p, img)
	}
	return s
}

// Sprite returns the sprite for id. Unknown ids get a magenta block.
func (s *Sprites) Sprite(id terrain.TileID) *image.RGBA {
	if img, ok := s.byID[id]; ok {
		return img
	}
	img := Block(s.proj, missing)
	s.byID[id] = img
	return img
}

// Color returns the flat colour of id, used by minimaps.
func (s *Sprites) Color(id terrain.TileID) color.RGBA {
	if c, ok := s.colors[id]; ok {
		return c
	}
	return missing
}

// Colors exposes the colour table.
func (s *Sprites) Colors() map[terrain.TileID]color.RGBA { return s.colors }

func scaleSprite(p Projection, src image.Image) *image.RGBA {
	w, h := p.SpriteSize()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// Block draws a solid isometric block: a diamond top face in c above left
// and right side faces in darker shades.
func Block(p Projection, c color.RGBA) *image.RGBA {
	w, h := p.SpriteSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	left := shade(c, 0.7)
	right := shade(c, 0.85)
	cx := float64(p.TileW) / 2
	cy := float64(p.TileH) / 2
	for px := 0; px < w; px++ {
		fx := float64(px) + 0.5
		d := cy * (1 - math.Abs(fx-cx)/cx)
		if d <= 0 {
			continue
		}
		side := right
		if fx < cx {
			side = left
		}
		for py := 0; py < h; py++ {
			fy := float64(py) + 0.5
			switch {
			case fy >= cy-d && fy <= cy+d:
				img.SetRGBA(px, py, c)
			case fy > cy+d && fy <= cy+d+float64(p.Thickness):
				img.SetRGBA(px, py, side)
			}
		}
	}
	return img
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}
