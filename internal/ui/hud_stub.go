//go:build !ebiten

package ui

import "isoterrain/internal/core"

// Target is the generator state a HUD presents and adjusts.
type Target interface {
	Parameters() core.ParameterSnapshot
	core.ParameterControlsProvider
}

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(Target, string, int) *HUD { return nil }

// Width is zero in the headless build.
func (h *HUD) Width() int { return 0 }

// SetStatus is a no-op in the headless build.
func (h *HUD) SetStatus(...string) {}

// Changed always reports false in the headless build.
func (h *HUD) Changed() bool { return false }

// Contains always reports false in the headless build.
func (h *HUD) Contains(int, int) bool { return false }

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int) {}
