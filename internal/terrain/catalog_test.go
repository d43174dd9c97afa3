package terrain

import (
	"errors"
	"math"
	"slices"
	"testing"

	pcore "isoterrain/pkg/core"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	for _, tt := range []TileType{
		{ID: "grass", Weight: 0.5},
		{ID: "water", Weight: 0.3},
		{ID: "rock", Weight: 0.2, Elevation: true},
	} {
		if err := c.Register(tt); err != nil {
			t.Fatalf("register %q: %v", tt.ID, err)
		}
	}
	return c
}

func singleCatalog(t *testing.T, id TileID, eligible bool) *Catalog {
	t.Helper()
	c := NewCatalog()
	if err := c.Register(TileType{ID: id, Weight: 1, Elevation: eligible}); err != nil {
		t.Fatalf("register %q: %v", id, err)
	}
	return c
}

func TestCatalogRegisterRejectsBadTiles(t *testing.T) {
	c := testCatalog(t)

	if err := c.Register(TileType{ID: "grass", Weight: 1}); !errors.Is(err, ErrDuplicateTile) {
		t.Fatalf("expected ErrDuplicateTile, got %v", err)
	}
	if err := c.Register(TileType{ID: Empty, Weight: 1}); !errors.Is(err, ErrInvalidTileID) {
		t.Fatalf("expected ErrInvalidTileID, got %v", err)
	}
	for _, w := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		if err := c.Register(TileType{ID: "sand", Weight: w}); !errors.Is(err, ErrInvalidWeight) {
			t.Fatalf("weight %v: expected ErrInvalidWeight, got %v", w, err)
		}
	}
	if c.Len() != 3 || c.Has("sand") {
		t.Fatalf("rejected registrations must not change the catalog, got %v", c.IDs())
	}
}

func TestCatalogSetWeight(t *testing.T) {
	c := testCatalog(t)

	if err := c.SetWeight("lava", 1); !errors.Is(err, ErrUnknownTile) {
		t.Fatalf("expected ErrUnknownTile, got %v", err)
	}
	if err := c.SetWeight("grass", -1); !errors.Is(err, ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}
	if err := c.SetWeight("grass", 0); err != nil {
		t.Fatalf("set weight: %v", err)
	}
	if got := c.TotalWeight(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected total weight 0.5, got %f", got)
	}
	tt, ok := c.Get("grass")
	if !ok || tt.Weight != 0 {
		t.Fatalf("expected grass weight 0, got %+v", tt)
	}
}

func TestCatalogElevationEligibleSetKeepsRegistrationOrder(t *testing.T) {
	c := testCatalog(t)
	if err := c.SetElevationEligible("grass", true); err != nil {
		t.Fatalf("set eligible: %v", err)
	}
	if err := c.SetElevationEligible("lava", true); !errors.Is(err, ErrUnknownTile) {
		t.Fatalf("expected ErrUnknownTile, got %v", err)
	}

	want := []TileID{"grass", "rock"}
	if got := c.ElevationEligibleSet(); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if c.IsElevationEligible("water") {
		t.Fatal("water was never flagged")
	}
	if c.Ordinal("rock") != 2 || c.Ordinal("lava") != -1 {
		t.Fatalf("unexpected ordinals: rock=%d lava=%d", c.Ordinal("rock"), c.Ordinal("lava"))
	}
}

func TestSampleWeightedNeedsPositiveWeight(t *testing.T) {
	c := NewCatalog()
	if err := c.Register(TileType{ID: "void", Weight: 0}); err != nil {
		t.Fatalf("register: %v", err)
	}
	rng := pcore.NewRNG(1).Source()
	if _, err := c.SampleWeighted(rng); !errors.Is(err, ErrNoEligibleTile) {
		t.Fatalf("expected ErrNoEligibleTile, got %v", err)
	}

	if err := c.SetWeight("void", 2); err != nil {
		t.Fatalf("set weight: %v", err)
	}
	id, err := c.SampleWeighted(rng)
	if err != nil || id != "void" {
		t.Fatalf("expected void, got %q (%v)", id, err)
	}
}

func TestCatalogCloneIsIndependent(t *testing.T) {
	c := testCatalog(t)
	clone := c.Clone()
	if err := clone.SetWeight("grass", 9); err != nil {
		t.Fatalf("set weight: %v", err)
	}
	if tt, _ := c.Get("grass"); tt.Weight != 0.5 {
		t.Fatalf("clone shares tile state with original: %+v", tt)
	}
	if !slices.Equal(c.IDs(), clone.IDs()) {
		t.Fatalf("clone changed order: %v vs %v", c.IDs(), clone.IDs())
	}
}
