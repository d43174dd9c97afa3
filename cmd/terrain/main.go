// Command terrain generates an isometric terrain headlessly and writes the
// requested exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"isoterrain/internal/cli"
	"isoterrain/internal/export"
	"isoterrain/internal/render"
	"isoterrain/internal/store"
	"isoterrain/internal/terrain"
)

func main() {
	flags := cli.NewFlags()
	flags.Bind(flag.CommandLine)
	in := flag.String("in", "", "start from a CSV export instead of generating")
	csvPath := flag.String("csv", "", "write the record CSV export here")
	matrixPath := flag.String("matrix", "", "write the layer matrix CSV here")
	pngPath := flag.String("png", "", "write the composed isometric image here")
	minimapPath := flag.String("minimap", "", "write a one-pixel-per-column minimap here")
	heights := flag.Bool("minimap-heights", false, "paint the minimap as a heightmap")
	dsn := flag.String("db", "", "save a snapshot to this database")
	driver := flag.String("driver", store.DriverSQLite, "snapshot database driver (sqlite or postgres)")
	name := flag.String("name", "", "snapshot name (defaults to terrain-<seed>)")
	flag.Parse()

	logger, err := flags.Logger(os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	env, err := flags.Setup(logger)
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	if *in != "" {
		g, err := export.ReadFile(*in)
		if err != nil {
			log.Fatal(err)
		}
		env.Session.Adopt(g)
		logger.Info("terrain imported", "path", *in, "width", g.Width(), "height", g.Height())
	} else if err := env.Session.Run(); err != nil {
		log.Fatal(err)
	}
	g := env.Session.Grid()

	if *csvPath != "" {
		if err := export.WriteFile(*csvPath, g); err != nil {
			log.Fatal(err)
		}
		logger.Info("csv written", "path", *csvPath)
	}
	if *matrixPath != "" {
		if err := writeMatrices(*matrixPath, g); err != nil {
			log.Fatal(err)
		}
		logger.Info("layer matrices written", "path", *matrixPath)
	}
	if *pngPath != "" {
		if err := render.SavePNG(*pngPath, render.Compose(g, env.Sprites)); err != nil {
			log.Fatal(err)
		}
		logger.Info("png written", "path", *pngPath)
	}
	if *minimapPath != "" {
		colors := env.Sprites.Colors()
		if *heights {
			colors = nil
		}
		if err := render.SavePNG(*minimapPath, render.Minimap(g, colors)); err != nil {
			log.Fatal(err)
		}
		logger.Info("minimap written", "path", *minimapPath)
	}
	if *dsn != "" {
		if err := saveSnapshot(*driver, *dsn, *name, g, logger.Info); err != nil {
			log.Fatal(err)
		}
	}

	summarize(g, time.Since(start))
}

func writeMatrices(path string, g *terrain.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteMatrices(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func saveSnapshot(driver, dsn, name string, g *terrain.Grid, info func(string, ...any)) error {
	s, err := store.Open(driver, dsn)
	if err != nil {
		return err
	}
	defer s.Close()
	if name == "" {
		name = fmt.Sprintf("terrain-%d", g.Seed())
	}
	id, err := s.Save(context.Background(), name, g)
	if err != nil {
		return err
	}
	info("snapshot saved", "id", id, "name", name)
	return nil
}

func summarize(g *terrain.Grid, elapsed time.Duration) {
	st := terrain.Summarize(g)
	fmt.Printf("%dx%d terrain, seed %d, %s tiles in %s\n",
		g.Width(), g.Height(), g.Seed(), humanize.Comma(int64(st.Stacked)), elapsed.Round(time.Millisecond))
	fmt.Printf("max height %d, mean %.2f, roughness %.2f, %s elevated columns\n",
		st.MaxHeight, st.MeanHeight, st.Roughness, humanize.Comma(int64(st.Elevated)))

	ids := make([]terrain.TileID, 0, len(st.Tiles))
	for id := range st.Tiles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if st.Tiles[ids[i]] != st.Tiles[ids[j]] {
			return st.Tiles[ids[i]] > st.Tiles[ids[j]]
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		fmt.Printf("  %-10s %8s  %5.1f%%\n", id, humanize.Comma(int64(st.Tiles[id])), 100*st.Coverage(id))
	}
}
