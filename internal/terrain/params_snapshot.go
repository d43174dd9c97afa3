package terrain

import (
	"math"
	"strconv"

	"isoterrain/internal/core"
)

// Parameters reports the session configuration grouped for display.
func (s *Session) Parameters() core.ParameterSnapshot {
	cfg := s.cfg
	groups := []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				intParam("w", "Width", cfg.Width),
				intParam("h", "Height", cfg.Height),
				int64Param("seed", "Seed", cfg.Seed),
			},
		},
		{
			Name: "Tiles",
			Params: []core.Parameter{
				intParam("tile_w", "Tile width", cfg.TileWidth),
				intParam("tile_h", "Tile height", cfg.TileHeight),
				intParam("tile_thickness", "Tile thickness", cfg.TileThickness),
			},
		},
		{
			Name: "Smoothing",
			Params: []core.Parameter{
				intParam("smooth_iterations", "Smooth iterations", cfg.SmoothIterations),
				floatParam("smooth_fraction", "Smooth sample fraction", cfg.SmoothFraction),
			},
		},
		{
			Name: "Elevation",
			Params: []core.Parameter{
				intParam("max_elevation", "Max elevation", cfg.MaxElevation),
				intParam("elevation_iterations", "Elevation iterations", cfg.ElevationIterations),
				stringParam("seeding", "Seeding policy", policyName(cfg.SeedPolicy)),
			},
		},
		{
			Name: "Terrain",
			Params: []core.Parameter{
				intParam("depth", "Layers", s.grid.Depth()),
				intParam("max_height", "Tallest column", s.grid.MaxHeight()),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

var parameterControls = []core.ParameterControl{
	{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Step: 1},
	{Key: "smooth_iterations", Label: "Smooth iterations", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 20, HasMin: true, HasMax: true},
	{Key: "smooth_fraction", Label: "Smooth fraction", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, Max: 4, HasMin: true, HasMax: true},
	{Key: "max_elevation", Label: "Max elevation", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 32, HasMin: true, HasMax: true},
	{Key: "elevation_iterations", Label: "Elevation iterations", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 20, HasMin: true, HasMax: true},
}

// ParameterControls lists the settings adjustable from the HUD.
func (s *Session) ParameterControls() []core.ParameterControl {
	out := make([]core.ParameterControl, len(parameterControls))
	copy(out, parameterControls)
	return out
}

// SetIntParameter updates an integer setting, clamping it to the control's
// bounds. Changes apply on the next pass.
func (s *Session) SetIntParameter(key string, value int) bool {
	ctrl, ok := findControl(key, core.ParamTypeInt)
	if !ok {
		return false
	}
	if key == "seed" {
		s.cfg.Seed = int64(value)
		return true
	}
	v := clampIntControl(ctrl, value)
	switch key {
	case "smooth_iterations":
		s.cfg.SmoothIterations = v
	case "max_elevation":
		s.cfg.MaxElevation = v
	case "elevation_iterations":
		s.cfg.ElevationIterations = v
	default:
		return false
	}
	return true
}

// SetFloatParameter updates a floating point setting, clamping it to the
// control's bounds.
func (s *Session) SetFloatParameter(key string, value float64) bool {
	ctrl, ok := findControl(key, core.ParamTypeFloat)
	if !ok || math.IsNaN(value) {
		return false
	}
	v := clampControl(ctrl, value)
	switch key {
	case "smooth_fraction":
		s.cfg.SmoothFraction = v
	default:
		return false
	}
	return true
}

func findControl(key string, typ core.ParamType) (core.ParameterControl, bool) {
	for _, c := range parameterControls {
		if c.Key == key && c.Type == typ {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}

func clampControl(c core.ParameterControl, v float64) float64 {
	if c.HasMin && v < c.Min {
		v = c.Min
	}
	if c.HasMax && v > c.Max {
		v = c.Max
	}
	return v
}

// clampIntControl bounds v in integer arithmetic so large values keep
// every bit.
func clampIntControl(c core.ParameterControl, v int) int {
	if c.HasMin {
		if lo := int(math.Ceil(c.Min)); v < lo {
			v = lo
		}
	}
	if c.HasMax {
		if hi := int(math.Floor(c.Max)); v > hi {
			v = hi
		}
	}
	return v
}

func policyName(name string) string {
	if name == "" {
		return DefaultSeedPolicy
	}
	return name
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}
