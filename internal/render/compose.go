package render

import (
	"image"
	"image/png"
	"io"
	"math"
	"os"

	xdraw "golang.org/x/image/draw"

	"isoterrain/internal/terrain"
)

// Compose paints every tile of g in draw order onto a transparent canvas
// just large enough to hold the terrain.
func Compose(g *terrain.Grid, s *Sprites) *image.RGBA {
	p := s.proj
	bounds := p.Bounds(g.Width(), g.Height(), g.MaxHeight())
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	g.Walk(func(t terrain.Tile) bool {
		sx, sy := p.Project(t.Layer, t.X, t.Y)
		sprite := s.Sprite(t.ID)
		at := image.Pt(int(math.Floor(sx))-bounds.Min.X, int(math.Floor(sy))-bounds.Min.Y)
		xdraw.Draw(canvas, sprite.Bounds().Add(at), sprite, image.Point{}, xdraw.Over)
		return true
	})
	return canvas
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
