// Package cli holds the setup shared by the command-line tools.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"isoterrain/internal/render"
	"isoterrain/internal/terrain"
	"isoterrain/internal/tileset"
)

// Flags are the options common to every command.
type Flags struct {
	Config   terrain.Config
	Manifest string
	TileDir  string
	LogLevel string
	// ElevationTiles, when set, replaces the tile set's elevation-eligible
	// selection.
	ElevationTiles []string
}

// NewFlags returns flags holding the default configuration.
func NewFlags() *Flags {
	return &Flags{Config: terrain.DefaultConfig(), LogLevel: "info"}
}

// Bind registers the common flags on fs.
func (f *Flags) Bind(fs *flag.FlagSet) {
	f.Config.Bind(fs)
	fs.StringVar(&f.Manifest, "tiles", f.Manifest, "JSON tile manifest")
	fs.StringVar(&f.TileDir, "tile-dir", f.TileDir, "directory of tile images, numbered in name order")
	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "debug, info, warn or error")
	fs.Func("elevation-tile", "tile id mountains grow on, repeatable", func(v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			return fmt.Errorf("empty tile id: %w", terrain.ErrInvalidTileID)
		}
		f.ElevationTiles = append(f.ElevationTiles, v)
		return nil
	})
}

// Logger builds a text logger writing to w at the configured level.
func (f *Flags) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(f.LogLevel))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", f.LogLevel, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// Env is everything a command needs to generate and render terrain.
type Env struct {
	Tiles   *tileset.Set
	Session *terrain.Session
	Sprites *render.Sprites
	Log     *slog.Logger
}

// Setup loads the tile set, validates the configuration and opens a
// session.
func (f *Flags) Setup(logger *slog.Logger) (*Env, error) {
	tiles, err := tileset.Resolve(f.Manifest, f.TileDir)
	if err != nil {
		return nil, err
	}
	catalog, err := tiles.Catalog()
	if err != nil {
		return nil, err
	}
	if err := f.applyElevationTiles(catalog); err != nil {
		return nil, err
	}
	session, err := terrain.NewSession(f.Config, catalog, logger)
	if err != nil {
		return nil, err
	}
	images, err := tiles.Images()
	if err != nil {
		return nil, err
	}
	sprites := render.NewSprites(render.NewProjection(f.Config), tiles.Colors(), images)
	return &Env{Tiles: tiles, Session: session, Sprites: sprites, Log: logger}, nil
}

func (f *Flags) applyElevationTiles(c *terrain.Catalog) error {
	if len(f.ElevationTiles) == 0 {
		return nil
	}
	want := make(map[terrain.TileID]bool, len(f.ElevationTiles))
	for _, id := range f.ElevationTiles {
		if !c.Has(terrain.TileID(id)) {
			return fmt.Errorf("elevation tile %q: %w", id, terrain.ErrUnknownTile)
		}
		want[terrain.TileID(id)] = true
	}
	for _, id := range c.IDs() {
		if err := c.SetElevationEligible(id, want[id]); err != nil {
			return err
		}
	}
	return nil
}
