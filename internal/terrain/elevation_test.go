package terrain

import (
	"errors"
	"testing"

	pcore "isoterrain/pkg/core"
)

func TestElevationSingleRowScenario(t *testing.T) {
	c := singleCatalog(t, "grass", true)
	g := mustGrid(t, 4, 1)
	if err := GenerateBaseLayer(g, c, 42); err != nil {
		t.Fatalf("generate: %v", err)
	}
	for x := 0; x < 4; x++ {
		if g.GetCell(0, x, 0) != "grass" {
			t.Fatalf("base (%d, 0) = %q", x, g.GetCell(0, x, 0))
		}
	}

	opts := ElevationOptions{MaxElevation: 3, Iterations: 5}
	if err := GenerateElevation(g, c, opts, pcore.NewRNG(42).Source()); err != nil {
		t.Fatalf("elevate: %v", err)
	}
	for x := 0; x < 4; x++ {
		h := g.HeightAt(x, 0)
		if h < 0 || h > 3 {
			t.Fatalf("height (%d, 0) = %d outside [0, 3]", x, h)
		}
		// Every neighbour starts at the ceiling, so averaging keeps it there.
		if h != 3 {
			t.Fatalf("height (%d, 0) = %d, want 3", x, h)
		}
		for l := 1; l <= h; l++ {
			if g.GetCell(l, x, 0) != "grass" {
				t.Fatalf("layer %d (%d, 0) = %q, want grass", l, x, g.GetCell(l, x, 0))
			}
		}
	}
	assertHeightmapMatchesStack(t, g)
}

func TestElevationNeverExceedsMax(t *testing.T) {
	c := testCatalog(t)
	for _, policy := range Policies() {
		for it := 0; it <= 6; it++ {
			g := generated(t, c, 14, 10, 17)
			opts := ElevationOptions{MaxElevation: 4, Iterations: it, Seeding: policy}
			if err := GenerateElevation(g, c, opts, pcore.NewRNG(int64(it)).Source()); err != nil {
				t.Fatalf("%s/%d: %v", policy, it, err)
			}
			if got := g.MaxHeight(); got > 4 {
				t.Fatalf("%s/%d: max height %d exceeds 4", policy, it, got)
			}
			assertHeightmapMatchesStack(t, g)
		}
	}
}

func TestElevationOnlyOnEligibleTiles(t *testing.T) {
	c := testCatalog(t)
	g := generated(t, c, 16, 16, 4)
	opts := ElevationOptions{MaxElevation: 6, Iterations: 2}
	if err := GenerateElevation(g, c, opts, pcore.NewRNG(4).Source()); err != nil {
		t.Fatalf("elevate: %v", err)
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if g.GetCell(0, x, y) != "rock" && g.HeightAt(x, y) != 0 {
				t.Fatalf("ineligible (%d, %d) rose to %d", x, y, g.HeightAt(x, y))
			}
		}
	}
}

func TestElevationWithoutEligibleTileLeavesGrid(t *testing.T) {
	c := testCatalog(t)
	g := generated(t, c, 6, 6, 2)
	if err := c.SetElevationEligible("rock", false); err != nil {
		t.Fatal(err)
	}
	before := g.Clone()
	err := GenerateElevation(g, c, ElevationOptions{MaxElevation: 3, Iterations: 1}, pcore.NewRNG(2).Source())
	if !errors.Is(err, ErrNoElevationTile) {
		t.Fatalf("expected ErrNoElevationTile, got %v", err)
	}
	if !g.Equal(before) {
		t.Fatal("failed elevation must not modify the grid")
	}
}

func TestElevationRejectsBadInput(t *testing.T) {
	c := testCatalog(t)
	rng := pcore.NewRNG(1).Source()
	if err := GenerateElevation(mustGrid(t, 2, 2), c, ElevationOptions{MaxElevation: 1}, rng); !errors.Is(err, ErrNotGenerated) {
		t.Fatalf("expected ErrNotGenerated, got %v", err)
	}
	g := generated(t, c, 2, 2, 1)
	cases := []ElevationOptions{
		{MaxElevation: -1},
		{MaxElevation: 2, Iterations: -3},
		{MaxElevation: 2, Seeding: "volcanic"},
	}
	for _, opts := range cases {
		if err := GenerateElevation(g, c, opts, rng); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("%+v: expected ErrInvalidParameter, got %v", opts, err)
		}
	}
}

func TestElevationZeroMaxFlattens(t *testing.T) {
	c := singleCatalog(t, "rock", true)
	g := generated(t, c, 5, 5, 1)
	if err := g.SetCell(1, 2, 2, "rock"); err != nil {
		t.Fatal(err)
	}
	if err := GenerateElevation(g, c, ElevationOptions{MaxElevation: 0, Iterations: 3}, pcore.NewRNG(1).Source()); err != nil {
		t.Fatalf("elevate: %v", err)
	}
	if g.Depth() != 1 || g.MaxHeight() != 0 {
		t.Fatalf("expected flat terrain, depth %d max %d", g.Depth(), g.MaxHeight())
	}
}

func TestElevationDiffusionErodesEdges(t *testing.T) {
	c := NewCatalog()
	if err := c.Register(TileType{ID: "water", Weight: 1}); err != nil {
		t.Fatal(err)
	}
	if err := c.Register(TileType{ID: "rock", Weight: 0, Elevation: true}); err != nil {
		t.Fatal(err)
	}
	g := generated(t, c, 5, 5, 1)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			if err := RetypeAt(g, c, 0, x, y, "rock"); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := GenerateElevation(g, c, ElevationOptions{MaxElevation: 8, Iterations: 1}, pcore.NewRNG(1).Source()); err != nil {
		t.Fatalf("elevate: %v", err)
	}
	// Centre sees eight rock neighbours at 8, block edges five and block
	// corners three.
	if got := g.HeightAt(2, 2); got != 8 {
		t.Fatalf("centre height %d, want 8", got)
	}
	if got := g.HeightAt(1, 1); got != 3 {
		t.Fatalf("corner height %d, want 3", got)
	}
	if got := g.HeightAt(2, 1); got != 5 {
		t.Fatalf("edge height %d, want 5", got)
	}
}

func TestSeedPoliciesVaryAndStayInRange(t *testing.T) {
	rng := pcore.NewRNG(3).Source()
	for _, name := range []string{"simplex", "perlin", "uniform"} {
		p, err := NewPolicy(name, rng)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		seen := map[int]bool{}
		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				raw := p.Initial(x, y, 10)
				if name != "perlin" && (raw < 0 || raw > 10) {
					t.Fatalf("%s: raw initial %f outside [0, 10]", name, raw)
				}
				seen[clampElevation(raw, 10)] = true
			}
		}
		if len(seen) < 2 {
			t.Fatalf("%s: expected varied initial elevations, got %v", name, seen)
		}
	}

	p, err := NewPolicy("", rng)
	if err != nil {
		t.Fatalf("empty name should select the default: %v", err)
	}
	if got := p.Initial(3, 4, 7); got != 7 {
		t.Fatalf("default policy should start at the ceiling, got %f", got)
	}
}
