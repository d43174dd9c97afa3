// Package export writes terrains to CSV and reads them back.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"isoterrain/internal/terrain"
)

// ErrMalformed reports an import that does not describe a valid terrain.
var ErrMalformed = errors.New("export: malformed terrain csv")

const header = `# isoterrain terrain
# meta,width,height,seed,depth
# cell,layer,x,y,tile
# height,x,y,h
`

// WriteCSV writes g as records: one meta record, one cell record per
// non-empty cell in draw order, and one height record per column.
func WriteCSV(w io.Writer, g *terrain.Grid) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	meta := []string{
		"meta",
		strconv.Itoa(g.Width()),
		strconv.Itoa(g.Height()),
		strconv.FormatInt(g.Seed(), 10),
		strconv.Itoa(g.Depth()),
	}
	if err := cw.Write(meta); err != nil {
		return err
	}

	var werr error
	g.Walk(func(t terrain.Tile) bool {
		werr = cw.Write([]string{
			"cell",
			strconv.Itoa(t.Layer),
			strconv.Itoa(t.X),
			strconv.Itoa(t.Y),
			string(t.ID),
		})
		return werr == nil
	})
	if werr != nil {
		return werr
	}

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			rec := []string{"height", strconv.Itoa(x), strconv.Itoa(y), strconv.Itoa(g.HeightAt(x, y))}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

type cellRecord struct {
	layer, x, y int
	id          terrain.TileID
	line        int
}

// ReadCSV rebuilds a terrain written by WriteCSV. Cells are placed bottom
// up, and the result is rejected unless every height record matches the
// rebuilt stack.
func ReadCSV(r io.Reader) (*terrain.Grid, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		g       *terrain.Grid
		cells   []cellRecord
		heights = map[[2]int]int{}
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrMalformed)
		}
		line, _ := cr.FieldPos(0)

		switch rec[0] {
		case "meta":
			if g != nil {
				return nil, malformed(line, "duplicate meta record")
			}
			vals, err := ints(rec, 5, line)
			if err != nil {
				return nil, err
			}
			g, err = terrain.NewGrid(vals[0], vals[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %v: %w", line, err, ErrMalformed)
			}
			seed, err := strconv.ParseInt(rec[3], 10, 64)
			if err != nil {
				return nil, malformed(line, "seed %q", rec[3])
			}
			g.SetSeed(seed)
		case "cell":
			if g == nil {
				return nil, malformed(line, "cell before meta")
			}
			if len(rec) != 5 || rec[4] == "" {
				return nil, malformed(line, "cell record needs layer,x,y,tile")
			}
			vals, err := ints(rec[:4], 4, line)
			if err != nil {
				return nil, err
			}
			cells = append(cells, cellRecord{layer: vals[0], x: vals[1], y: vals[2], id: terrain.TileID(rec[4]), line: line})
		case "height":
			if g == nil {
				return nil, malformed(line, "height before meta")
			}
			vals, err := ints(rec, 4, line)
			if err != nil {
				return nil, err
			}
			key := [2]int{vals[0], vals[1]}
			if _, dup := heights[key]; dup {
				return nil, malformed(line, "duplicate height for (%d, %d)", vals[0], vals[1])
			}
			heights[key] = vals[2]
		default:
			return nil, malformed(line, "unknown record %q", rec[0])
		}
	}
	if g == nil {
		return nil, fmt.Errorf("missing meta record: %w", ErrMalformed)
	}

	sort.SliceStable(cells, func(i, j int) bool { return cells[i].layer < cells[j].layer })
	for _, c := range cells {
		if err := g.SetCell(c.layer, c.x, c.y, c.id); err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", c.line, err, ErrMalformed)
		}
	}

	if len(heights) != g.Width()*g.Height() {
		return nil, fmt.Errorf("%d height records for %dx%d grid: %w", len(heights), g.Width(), g.Height(), ErrMalformed)
	}
	for key, h := range heights {
		if got := g.HeightAt(key[0], key[1]); got != h {
			return nil, fmt.Errorf("height (%d, %d) is %d, stack holds %d: %w", key[0], key[1], h, got, ErrMalformed)
		}
	}
	return g, nil
}

// ints parses rec[1:] as integers. The record must have exactly n fields.
func ints(rec []string, n, line int) ([]int, error) {
	if len(rec) != n {
		return nil, malformed(line, "%s record has %d fields, want %d", rec[0], len(rec), n)
	}
	out := make([]int, 0, n-1)
	for _, f := range rec[1:] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, malformed(line, "%s field %q", rec[0], f)
		}
		out = append(out, v)
	}
	return out, nil
}

func malformed(line int, format string, args ...any) error {
	return fmt.Errorf("line %d: %s: %w", line, fmt.Sprintf(format, args...), ErrMalformed)
}

// WriteFile writes g to path with WriteCSV.
func WriteFile(path string, g *terrain.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a terrain written by WriteFile.
func ReadFile(path string) (*terrain.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
