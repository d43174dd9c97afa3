package cli

import (
	"bytes"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"isoterrain/internal/terrain"
)

func tileDir(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 2, 2))
		img.Set(0, 0, color.RGBA{R: uint8(40 * i), A: 255})
		f, err := os.Create(filepath.Join(dir, string(rune('a'+i))+".png"))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func parse(t *testing.T, args ...string) *Flags {
	t.Helper()
	f := NewFlags()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f.Bind(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return f
}

func TestFlagsSetupRunsDefaultTiles(t *testing.T) {
	f := NewFlags()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f.Bind(fs)
	if err := fs.Parse([]string{"-w", "6", "-h", "5", "-seed", "9", "-log-level", "debug"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	var buf bytes.Buffer
	logger, err := f.Logger(&buf)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	env, err := f.Setup(logger)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := env.Session.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	g := env.Session.Grid()
	if g.Width() != 6 || g.Height() != 5 || g.Seed() != 9 {
		t.Fatalf("unexpected grid %dx%d seed %d", g.Width(), g.Height(), g.Seed())
	}
	if !strings.Contains(buf.String(), "pass=base") {
		t.Fatalf("expected pass logs, got %q", buf.String())
	}
	if env.Sprites.Color("grass") == env.Sprites.Color("missing-tile") {
		t.Fatal("default tiles should carry colours")
	}
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	f := NewFlags()
	f.LogLevel = "loud"
	if _, err := f.Logger(io.Discard); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestTileDirRunsWithoutElevationTile(t *testing.T) {
	f := parse(t, "-w", "8", "-h", "8", "-tile-dir", tileDir(t, 2))
	env, err := f.Setup(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := env.Session.Run(); err != nil {
		t.Fatalf("run with an image directory: %v", err)
	}
	if env.Session.Grid().MaxHeight() != 0 {
		t.Fatal("no elevation tile means a flat terrain")
	}
}

func TestElevationTileFlagSelectsTiles(t *testing.T) {
	f := parse(t, "-w", "8", "-h", "8", "-tile-dir", tileDir(t, 3), "-elevation-tile", "2", "-elevation-tile", "3")
	env, err := f.Setup(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	got := env.Session.Catalog().ElevationEligibleSet()
	if !slices.Equal(got, []terrain.TileID{"2", "3"}) {
		t.Fatalf("eligible set = %v", got)
	}
	if err := env.Session.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	// The flag replaces the selection carried by the tile set.
	f = parse(t, "-elevation-tile", "grass")
	env, err = f.Setup(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if got := env.Session.Catalog().ElevationEligibleSet(); !slices.Equal(got, []terrain.TileID{"grass"}) {
		t.Fatalf("eligible set = %v", got)
	}

	f = parse(t, "-elevation-tile", "lava")
	if _, err := f.Setup(slog.New(slog.NewTextHandler(io.Discard, nil))); !errors.Is(err, terrain.ErrUnknownTile) {
		t.Fatalf("expected ErrUnknownTile, got %v", err)
	}
}

func TestElevationTileFlagRejectsEmptyID(t *testing.T) {
	f := NewFlags()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f.Bind(fs)
	if err := fs.Parse([]string{"-elevation-tile", " "}); err == nil {
		t.Fatal("expected an error for an empty tile id")
	}
}
