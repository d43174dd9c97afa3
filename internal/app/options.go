package app

import (
	"log/slog"

	"isoterrain/internal/store"
)

// Options tunes the viewer.
type Options struct {
	// OutDir receives PNG and CSV exports. Empty means the working
	// directory.
	OutDir string
	// AnimationRate is the number of smoothing passes per second while
	// animating.
	AnimationRate int
	// Store receives snapshots when set.
	Store  *store.Store
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.OutDir == "" {
		o.OutDir = "."
	}
	if o.AnimationRate <= 0 {
		o.AnimationRate = 4
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
