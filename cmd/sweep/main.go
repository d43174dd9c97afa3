// Command sweep generates terrains over a grid of elevation settings and
// ranks them by how close their roughness comes to a target.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"isoterrain/internal/cli"
	"isoterrain/internal/export"
	"isoterrain/internal/terrain"
)

func main() {
	flags := cli.NewFlags()
	flags.Bind(flag.CommandLine)
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	target := flag.Float64("target", 1.0, "roughness to aim for")
	top := flag.Int("top", 5, "results to print")
	best := flag.String("best", "", "write the best terrain as CSV here")
	flag.Parse()

	logger, err := flags.Logger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	env, err := flags.Setup(logger)
	if err != nil {
		log.Fatal(err)
	}

	sets := grid(
		[]int{2, 4, 8, 12},
		[]int{1, 3, 6},
		[]int{0, 1, 3},
		terrain.Policies(),
	)
	fmt.Printf("Sweeping %s parameter sets on a %dx%d grid (%d workers)\n",
		humanize.Comma(int64(len(sets))), flags.Config.Width, flags.Config.Height, *workers)

	start := time.Now()
	s := sweep{base: flags.Config, catalog: env.Session.Catalog(), workers: *workers, target: *target}
	all := s.run(sets)
	elapsed := time.Since(start)

	fmt.Printf("\nTop %d results (elapsed %s):\n", *top, elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < *top; i++ {
		res := all[i]
		if res.err != nil {
			fmt.Printf("%2d) failed: %v params=%s\n", i+1, res.err, res.params)
			continue
		}
		fmt.Printf("%2d) rough=%.3f maxHeight=%d mean=%.2f elevated=%s params=%s\n",
			i+1, res.stats.Roughness, res.stats.MaxHeight, res.stats.MeanHeight,
			humanize.Comma(int64(res.stats.Elevated)), res.params)
	}

	if *best != "" && len(all) > 0 && all[0].err == nil {
		if err := export.WriteFile(*best, all[0].grid); err != nil {
			log.Fatal(err)
		}
		logger.Info("best terrain written", "path", *best, "params", all[0].params.String())
	}
}
