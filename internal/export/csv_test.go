package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"isoterrain/internal/terrain"
	pcore "isoterrain/pkg/core"
)

func testTerrain(t *testing.T) *terrain.Grid {
	t.Helper()
	c := terrain.NewCatalog()
	for _, tt := range []terrain.TileType{
		{ID: "grass", Weight: 0.6},
		{ID: "water", Weight: 0.2},
		{ID: "rock", Weight: 0.2, Elevation: true},
	} {
		if err := c.Register(tt); err != nil {
			t.Fatal(err)
		}
	}
	g, err := terrain.NewGrid(9, 7)
	if err != nil {
		t.Fatal(err)
	}
	if err := terrain.GenerateBaseLayer(g, c, 31); err != nil {
		t.Fatalf("generate: %v", err)
	}
	rng := pcore.NewRNG(31).Source()
	if err := terrain.Smooth(g, c, 1, 1, rng); err != nil {
		t.Fatalf("smooth: %v", err)
	}
	if err := terrain.GenerateElevation(g, c, terrain.ElevationOptions{MaxElevation: 5, Iterations: 1}, rng); err != nil {
		t.Fatalf("elevate: %v", err)
	}
	// Mixed ids within a column survive the round trip.
	if err := terrain.SetTileType(g, c, 0, 0, true, "water"); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestCSVRoundTrip(t *testing.T) {
	g := testTerrain(t)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, g); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !got.Equal(g) {
		t.Fatal("round trip changed the terrain")
	}
	if got.Seed() != 31 {
		t.Fatalf("expected seed 31, got %d", got.Seed())
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if got.HeightAt(x, y) != g.HeightAt(x, y) {
				t.Fatalf("height (%d, %d) differs", x, y)
			}
			for l := 0; l < g.Depth(); l++ {
				if got.GetCell(l, x, y) != g.GetCell(l, x, y) {
					t.Fatalf("cell (%d, %d, %d) differs", l, x, y)
				}
			}
		}
	}
}

func TestCSVFileRoundTrip(t *testing.T) {
	g := testTerrain(t)
	path := filepath.Join(t.TempDir(), "terrain.csv")
	if err := WriteFile(path, g); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !got.Equal(g) {
		t.Fatal("file round trip changed the terrain")
	}
}

func TestReadCSVAcceptsShuffledCells(t *testing.T) {
	in := `meta,2,1,5,2
cell,1,0,0,rock
height,0,0,1
cell,0,1,0,grass
height,1,0,0
cell,0,0,0,rock
`
	g, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if g.GetCell(1, 0, 0) != "rock" || g.HeightAt(0, 0) != 1 || g.HeightAt(1, 0) != 0 {
		t.Fatal("cells not rebuilt bottom up")
	}
}

func TestReadCSVRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"no meta":         "height,0,0,0\n",
		"empty":           "# nothing\n",
		"bad dims":        "meta,0,1,1,1\n",
		"area overflow":   "meta,3037000500,3037000500,1,1\n",
		"wrapped area":    "meta,4294967296,4294967296,1,1\n",
		"oversized area":  "meta,100000,100000,1,1\n",
		"bad seed":        "meta,1,1,x,1\n",
		"unknown record":  "meta,1,1,1,1\nlayer,0\n",
		"floating tile":   "meta,1,1,1,2\ncell,1,0,0,rock\nheight,0,0,0\n",
		"out of bounds":   "meta,1,1,1,1\ncell,0,3,0,rock\nheight,0,0,0\n",
		"height mismatch": "meta,1,1,1,1\ncell,0,0,0,rock\nheight,0,0,2\n",
		"missing heights": "meta,2,1,1,1\ncell,0,0,0,rock\ncell,0,1,0,rock\nheight,0,0,0\n",
		"empty tile":      "meta,1,1,1,1\ncell,0,0,0,\nheight,0,0,0\n",
		"short record":    "meta,1,1,1\n",
	}
	for name, in := range cases {
		if _, err := ReadCSV(strings.NewReader(in)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}

func TestWriteMatrices(t *testing.T) {
	g, err := terrain.NewGrid(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct {
		l, x, y int
		id      terrain.TileID
	}{
		{0, 0, 0, "grass"}, {0, 1, 0, "rock"}, {0, 0, 1, "grass"}, {0, 1, 1, "water"},
		{1, 1, 0, "rock"},
	} {
		if err := g.SetCell(c.l, c.x, c.y, c.id); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := WriteMatrices(&buf, g); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := `# Base layer
grass,rock
grass,water
# Elevation layer 1
0,rock
0,0
# Heightmap
0,1
0,0
`
	if buf.String() != want {
		t.Fatalf("unexpected matrices:\n%s", buf.String())
	}
}
