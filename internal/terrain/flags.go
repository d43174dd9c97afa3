package terrain

import (
	"flag"
	"fmt"
	"strings"
)

// Bind registers command-line flags for every config field on fs. Values
// already in c become the flag defaults.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "grid width in tiles")
	fs.IntVar(&c.Height, "h", c.Height, "grid height in tiles")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "generation seed")
	fs.IntVar(&c.TileWidth, "tile-w", c.TileWidth, "tile sprite width in pixels")
	fs.IntVar(&c.TileHeight, "tile-h", c.TileHeight, "tile top face height in pixels")
	fs.IntVar(&c.TileThickness, "tile-thickness", c.TileThickness, "tile side band height in pixels")
	fs.IntVar(&c.MaxElevation, "max-elevation", c.MaxElevation, "highest column in tiles above the base layer")
	fs.IntVar(&c.ElevationIterations, "elevation-iterations", c.ElevationIterations, "elevation diffusion sweeps")
	fs.StringVar(&c.SeedPolicy, "seeding", c.SeedPolicy, "elevation seeding policy ("+strings.Join(Policies(), ", ")+")")
	fs.IntVar(&c.SmoothIterations, "smooth-iterations", c.SmoothIterations, "smoothing passes")
	fs.Float64Var(&c.SmoothFraction, "smooth-fraction", c.SmoothFraction, "cell visits per smoothing pass as a fraction of the grid")
	fs.Var(&overrides{cfg: c}, "set", "key=value config override, repeatable")
}

// overrides applies -set key=value pairs through Config.Set.
type overrides struct {
	cfg  *Config
	seen []string
}

func (o *overrides) String() string {
	if o == nil {
		return ""
	}
	return strings.Join(o.seen, ",")
}

func (o *overrides) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("override %q: want key=value: %w", v, ErrInvalidParameter)
	}
	if err := o.cfg.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
		return err
	}
	o.seen = append(o.seen, v)
	return nil
}
