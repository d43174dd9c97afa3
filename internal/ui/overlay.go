//go:build ebiten

package ui

import (
	"image/color"

	"isoterrain/internal/render"
	"isoterrain/internal/terrain"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws a minimap of the terrain in the corner of the view. It
// shows either the top tile colours or the heightmap.
type Overlay struct {
	colors     map[terrain.TileID]color.RGBA
	scale      int
	show       bool
	showHeight bool

	img   *ebiten.Image
	frame *ebiten.Image
	dirty bool
}

// NewOverlay constructs an overlay painting tiles with colors, one minimap
// cell per scale pixels.
func NewOverlay(colors map[terrain.TileID]color.RGBA, scale int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{colors: colors, scale: scale, show: true, dirty: true}
	o.frame = ebiten.NewImage(1, 1)
	o.frame.Fill(color.White)
	return o
}

// Invalidate marks the minimap for repainting on the next Draw.
func (o *Overlay) Invalidate() { o.dirty = true }

// Update handles the overlay toggles: M shows or hides the minimap and H
// switches between tiles and heights.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		o.show = !o.show
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.showHeight = !o.showHeight
		o.dirty = true
	}
}

// Draw renders the minimap of g at (x, y) on screen.
func (o *Overlay) Draw(screen *ebiten.Image, g *terrain.Grid, x, y int) {
	if !o.show || g == nil || !g.Generated() {
		return
	}
	w, h := g.Width(), g.Height()
	if o.img == nil || o.img.Bounds().Dx() != w || o.img.Bounds().Dy() != h {
		o.img = ebiten.NewImage(w, h)
		o.dirty = true
	}
	if o.dirty {
		colors := o.colors
		if o.showHeight {
			colors = nil
		}
		o.img.WritePixels(render.Minimap(g, colors).Pix)
		o.dirty = false
	}

	const border = 2
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w*o.scale+2*border), float64(h*o.scale+2*border))
	op.GeoM.Translate(float64(x-border), float64(y-border))
	op.ColorScale.ScaleWithColor(color.RGBA{R: 8, G: 8, B: 10, A: 200})
	screen.DrawImage(o.frame, op)

	op = &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(o.img, op)
}
