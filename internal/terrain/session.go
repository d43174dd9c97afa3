package terrain

import (
	"fmt"
	"log/slog"
	"time"

	pcore "isoterrain/pkg/core"
)

// Session owns one terrain and the state threaded between its passes: the
// configuration, the catalog, and the random stream of the current run.
//
// A Session is not safe for concurrent use.
type Session struct {
	cfg     Config
	catalog *Catalog
	grid    *Grid
	rng     *pcore.RNG
	log     *slog.Logger
}

// NewSession validates cfg and allocates an empty grid. A nil logger selects
// slog.Default().
func NewSession(cfg Config, c *Catalog, logger *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("new session: nil catalog: %w", ErrInvalidParameter)
	}
	g, err := NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{cfg: cfg, catalog: c, grid: g, log: logger}, nil
}

// Config returns the current configuration.
func (s *Session) Config() Config { return s.cfg }

// Catalog returns the catalog passes read from.
func (s *Session) Catalog() *Catalog { return s.catalog }

// Grid returns the terrain. Callers must not mutate it while a pass runs.
func (s *Session) Grid() *Grid { return s.grid }

// Reconfigure swaps in cfg. A change of grid dimensions replaces the terrain
// with a new empty grid; other changes take effect on the next pass.
func (s *Session) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Width != s.cfg.Width || cfg.Height != s.cfg.Height {
		g, err := NewGrid(cfg.Width, cfg.Height)
		if err != nil {
			return err
		}
		s.grid = g
		s.rng = nil
		s.log.Info("terrain resized", "width", cfg.Width, "height", cfg.Height)
	}
	s.cfg = cfg
	return nil
}

// Adopt replaces the terrain with g, for example one read back from an
// export, and restarts the run stream from g's seed.
func (s *Session) Adopt(g *Grid) {
	s.grid = g
	s.cfg.Width = g.Width()
	s.cfg.Height = g.Height()
	s.cfg.Seed = g.Seed()
	s.rng = pcore.NewRNG(g.Seed())
}

// Generate runs the base layer pass with the configured seed and starts a
// new random stream for the passes that follow.
func (s *Session) Generate() error {
	start := time.Now()
	if err := GenerateBaseLayer(s.grid, s.catalog, s.cfg.Seed); err != nil {
		s.log.Warn("base layer generation failed", "seed", s.cfg.Seed, "error", err)
		return err
	}
	s.rng = pcore.NewRNG(s.cfg.Seed)
	s.log.Info("base layer generated",
		"pass", "base",
		"seed", s.cfg.Seed,
		"width", s.cfg.Width,
		"height", s.cfg.Height,
		"elapsed", time.Since(start),
	)
	return nil
}

// Reseed sets a new seed and regenerates the base layer.
func (s *Session) Reseed(seed int64) error {
	prev := s.cfg.Seed
	s.cfg.Seed = seed
	if err := s.Generate(); err != nil {
		s.cfg.Seed = prev
		return err
	}
	return nil
}

// Smooth runs the configured smoothing pass on the base layer.
func (s *Session) Smooth() error {
	if s.rng == nil {
		return fmt.Errorf("smooth: %w", ErrNotGenerated)
	}
	start := time.Now()
	err := Smooth(s.grid, s.catalog, s.cfg.SmoothIterations, s.cfg.SmoothFraction, s.rng.Source())
	if err != nil {
		return err
	}
	s.log.Info("base layer smoothed",
		"pass", "smooth",
		"iterations", s.cfg.SmoothIterations,
		"fraction", s.cfg.SmoothFraction,
		"elapsed", time.Since(start),
	)
	return nil
}

// Elevate runs the configured elevation pass.
func (s *Session) Elevate() error {
	if s.rng == nil {
		return fmt.Errorf("generate elevation: %w", ErrNotGenerated)
	}
	start := time.Now()
	if err := GenerateElevation(s.grid, s.catalog, s.cfg.Elevation(), s.rng.Source()); err != nil {
		return err
	}
	s.log.Info("elevation generated",
		"pass", "elevation",
		"policy", s.cfg.Elevation().Seeding,
		"iterations", s.cfg.ElevationIterations,
		"max_elevation", s.cfg.MaxElevation,
		"max_height", s.grid.MaxHeight(),
		"elapsed", time.Since(start),
	)
	return nil
}

// Run generates the base layer, smooths it and grows elevation. With no
// elevation-eligible tile the terrain stays flat and the elevation pass is
// skipped with a warning.
func (s *Session) Run() error {
	if err := s.Generate(); err != nil {
		return err
	}
	if err := s.Smooth(); err != nil {
		return err
	}
	if len(s.catalog.ElevationEligibleSet()) == 0 {
		s.log.Warn("elevation skipped", "pass", "elevation", "reason", "no elevation-eligible tile")
		return nil
	}
	return s.Elevate()
}

// SetTileType retypes the column at (x, y). See SetTileType.
func (s *Session) SetTileType(x, y int, topOnly bool, id TileID) error {
	if err := SetTileType(s.grid, s.catalog, x, y, topOnly, id); err != nil {
		return err
	}
	s.log.Debug("tile retyped", "x", x, "y", y, "top_only", topOnly, "tile", id)
	return nil
}

// RetypeAt retypes a single tile. See RetypeAt.
func (s *Session) RetypeAt(layer, x, y int, id TileID) error {
	if err := RetypeAt(s.grid, s.catalog, layer, x, y, id); err != nil {
		return err
	}
	s.log.Debug("tile retyped", "layer", layer, "x", x, "y", y, "tile", id)
	return nil
}

// DeleteTopTile removes the topmost tile at (x, y). See DeleteTopTile.
func (s *Session) DeleteTopTile(x, y int) error {
	if err := DeleteTopTile(s.grid, x, y); err != nil {
		return err
	}
	s.log.Debug("tile deleted", "x", x, "y", y, "height", s.grid.HeightAt(x, y))
	return nil
}
