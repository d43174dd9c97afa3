package terrain

import (
	"errors"
	"testing"

	pcore "isoterrain/pkg/core"
)

func generated(t *testing.T, c *Catalog, w, h int, seed int64) *Grid {
	t.Helper()
	g := mustGrid(t, w, h)
	if err := GenerateBaseLayer(g, c, seed); err != nil {
		t.Fatalf("generate: %v", err)
	}
	return g
}

func TestSmoothZeroIterationsIsNoop(t *testing.T) {
	c := testCatalog(t)
	g := generated(t, c, 10, 10, 3)
	before := g.Clone()
	if err := Smooth(g, c, 0, 1, pcore.NewRNG(1).Source()); err != nil {
		t.Fatalf("smooth: %v", err)
	}
	if !g.Equal(before) {
		t.Fatal("zero iterations must not change the grid")
	}
	if err := Smooth(g, c, 4, 0, pcore.NewRNG(1).Source()); err != nil {
		t.Fatalf("smooth: %v", err)
	}
	if !g.Equal(before) {
		t.Fatal("zero sample fraction must not change the grid")
	}
}

func TestSmoothRejectsBadInput(t *testing.T) {
	c := testCatalog(t)
	rng := pcore.NewRNG(1).Source()
	if err := Smooth(mustGrid(t, 3, 3), c, 1, 1, rng); !errors.Is(err, ErrNotGenerated) {
		t.Fatalf("expected ErrNotGenerated, got %v", err)
	}
	g := generated(t, c, 3, 3, 1)
	if err := Smooth(g, c, -1, 1, rng); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if err := Smooth(g, c, 1, -0.5, rng); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestSmoothRemovesIsolatedTile(t *testing.T) {
	c := testCatalog(t)
	g := flatGrid(t, 3, 3, "grass")
	if err := RetypeAt(g, c, 0, 1, 1, "water"); err != nil {
		t.Fatalf("retype: %v", err)
	}
	if err := Smooth(g, c, 1, 1, pcore.NewRNG(8).Source()); err != nil {
		t.Fatalf("smooth: %v", err)
	}
	for _, tile := range g.Tiles() {
		if tile.ID != "grass" {
			t.Fatalf("expected all grass after smoothing, found %+v", tile)
		}
	}
}

func TestSmoothDeterministic(t *testing.T) {
	c := testCatalog(t)
	a := generated(t, c, 20, 20, 11)
	b := a.Clone()
	if err := Smooth(a, c, 3, 0.7, pcore.NewRNG(5).Source()); err != nil {
		t.Fatal(err)
	}
	if err := Smooth(b, c, 3, 0.7, pcore.NewRNG(5).Source()); err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatal("same stream should smooth identically")
	}
}

func TestSmoothLeavesElevationLayers(t *testing.T) {
	c := testCatalog(t)
	g := generated(t, c, 12, 12, 21)
	rng := pcore.NewRNG(21).Source()
	if err := GenerateElevation(g, c, ElevationOptions{MaxElevation: 5, Iterations: 1}, rng); err != nil {
		t.Fatalf("elevate: %v", err)
	}
	heights := g.Heightmap()
	upper := map[[3]int]TileID{}
	for _, tile := range g.Tiles() {
		if tile.Layer > 0 {
			upper[[3]int{tile.Layer, tile.X, tile.Y}] = tile.ID
		}
	}

	if err := Smooth(g, c, 3, 1, rng); err != nil {
		t.Fatalf("smooth: %v", err)
	}
	if !heights.Equal(g.Heightmap()) {
		t.Fatal("smoothing changed the heightmap")
	}
	for k, id := range upper {
		if got := g.GetCell(k[0], k[1], k[2]); got != id {
			t.Fatalf("layer %d (%d, %d) changed from %q to %q", k[0], k[1], k[2], id, got)
		}
	}
}

func TestNeighborModeTieBreak(t *testing.T) {
	rank := newRanking(testCatalog(t))
	cells := []TileID{"water", "grass", "water", "grass", "rock"}
	neighbors := []int{0, 1, 2, 3}

	if got := neighborMode(cells, neighbors, "rock", rank); got != "grass" {
		t.Fatalf("expected lowest ordinal grass, got %q", got)
	}
	if got := neighborMode(cells, neighbors, "water", rank); got != "water" {
		t.Fatalf("expected current value water to win the tie, got %q", got)
	}
	if got := neighborMode(cells, []int{0, 2, 4}, "grass", rank); got != "water" {
		t.Fatalf("expected clear majority water, got %q", got)
	}
	if !rank.less("rock", "lava") || rank.less("lava", "grass") || !rank.less("ash", "lava") {
		t.Fatal("unknown ids should sort after known ids, lexically among themselves")
	}
}
