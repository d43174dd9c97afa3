package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"isoterrain/internal/terrain"
)

// emptyCell stands for an empty cell in matrix output.
const emptyCell = "0"

// WriteMatrices writes every layer as a height×width block of tile ids,
// base layer first, followed by the heightmap. Blocks are introduced by a
// comment line so ReadCSV-style readers with Comment '#' skip them.
func WriteMatrices(w io.Writer, g *terrain.Grid) error {
	for l := 0; l < g.Depth(); l++ {
		title := "# Base layer"
		if l > 0 {
			title = fmt.Sprintf("# Elevation layer %d", l)
		}
		err := writeBlock(w, title, g.Width(), g.Height(), func(x, y int) string {
			id := g.GetCell(l, x, y)
			if id == terrain.Empty {
				return emptyCell
			}
			return string(id)
		})
		if err != nil {
			return err
		}
	}
	return writeBlock(w, "# Heightmap", g.Width(), g.Height(), func(x, y int) string {
		return strconv.Itoa(g.HeightAt(x, y))
	})
}

func writeBlock(w io.Writer, title string, width, height int, cell func(x, y int) string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	row := make([]string, width)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			row[x] = cell(x, y)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
