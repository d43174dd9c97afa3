package terrain

import (
	"fmt"
	"math"
	"strconv"
)

// Config holds the settings of a generation session.
type Config struct {
	Width  int
	Height int

	Seed int64

	// Tile pixel geometry. The generator only stores these for renderers.
	TileWidth     int
	TileHeight    int
	TileThickness int

	MaxElevation        int
	ElevationIterations int
	SeedPolicy          string

	SmoothIterations int
	SmoothFraction   float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:               32,
		Height:              32,
		Seed:                42,
		TileWidth:           32,
		TileHeight:          16,
		TileThickness:       7,
		MaxElevation:        8,
		ElevationIterations: 3,
		SeedPolicy:          DefaultSeedPolicy,
		SmoothIterations:    1,
		SmoothFraction:      1,
	}
}

// Validate rejects configurations no pass could run with.
func (c Config) Validate() error {
	if !validDimensions(c.Width, c.Height) {
		return fmt.Errorf("grid %dx%d: %w", c.Width, c.Height, ErrInvalidDimension)
	}
	if c.TileWidth <= 0 || c.TileHeight <= 0 || c.TileThickness <= 0 {
		return fmt.Errorf("tile %dx%dx%d px: %w", c.TileWidth, c.TileHeight, c.TileThickness, ErrInvalidDimension)
	}
	if c.MaxElevation < 0 {
		return fmt.Errorf("max elevation %d: %w", c.MaxElevation, ErrInvalidParameter)
	}
	if c.ElevationIterations < 0 {
		return fmt.Errorf("elevation iterations %d: %w", c.ElevationIterations, ErrInvalidParameter)
	}
	if c.SmoothIterations < 0 {
		return fmt.Errorf("smooth iterations %d: %w", c.SmoothIterations, ErrInvalidParameter)
	}
	if c.SmoothFraction < 0 || math.IsNaN(c.SmoothFraction) || math.IsInf(c.SmoothFraction, 0) {
		return fmt.Errorf("smooth fraction %v: %w", c.SmoothFraction, ErrInvalidParameter)
	}
	if c.SeedPolicy != "" {
		if _, ok := policies[c.SeedPolicy]; !ok {
			return fmt.Errorf("seeding policy %q: %w", c.SeedPolicy, ErrInvalidParameter)
		}
	}
	return nil
}

// Elevation returns the elevation pass options carried by c.
func (c Config) Elevation() ElevationOptions {
	return ElevationOptions{
		MaxElevation: c.MaxElevation,
		Iterations:   c.ElevationIterations,
		Seeding:      c.SeedPolicy,
	}
}

// FromMap populates the config from a string map (flag-style key/value
// pairs) on top of DefaultConfig. Unparseable or out-of-range values are
// rejected rather than ignored.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	for key, v := range cfg {
		if err := c.set(key, v); err != nil {
			return DefaultConfig(), err
		}
	}
	if err := c.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return c, nil
}

// Set applies a single key=value override.
func (c *Config) Set(key, value string) error {
	next := *c
	if err := next.set(key, value); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

func (c *Config) set(key, v string) error {
	var err error
	switch key {
	case "w":
		c.Width, err = strconv.Atoi(v)
	case "h":
		c.Height, err = strconv.Atoi(v)
	case "seed":
		c.Seed, err = strconv.ParseInt(v, 10, 64)
	case "tile_w":
		c.TileWidth, err = strconv.Atoi(v)
	case "tile_h":
		c.TileHeight, err = strconv.Atoi(v)
	case "tile_thickness":
		c.TileThickness, err = strconv.Atoi(v)
	case "max_elevation":
		c.MaxElevation, err = strconv.Atoi(v)
	case "elevation_iterations":
		c.ElevationIterations, err = strconv.Atoi(v)
	case "seeding":
		c.SeedPolicy = v
	case "smooth_iterations":
		c.SmoothIterations, err = strconv.Atoi(v)
	case "smooth_fraction":
		c.SmoothFraction, err = strconv.ParseFloat(v, 64)
	default:
		return fmt.Errorf("config key %q: %w", key, ErrInvalidParameter)
	}
	if err != nil {
		return fmt.Errorf("config %s=%q: %w", key, v, ErrInvalidParameter)
	}
	return nil
}
