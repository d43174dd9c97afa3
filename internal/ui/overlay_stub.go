//go:build !ebiten

package ui

import (
	"image/color"

	"isoterrain/internal/terrain"
)

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(map[terrain.TileID]color.RGBA, int) *Overlay { return &Overlay{} }

// Invalidate is a no-op in headless builds.
func (o *Overlay) Invalidate() {}

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any, *terrain.Grid, int, int) {}
