//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"isoterrain/internal/app"
	"isoterrain/internal/cli"
	"isoterrain/internal/store"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flags := cli.NewFlags()
	flags.Bind(flag.CommandLine)
	outDir := flag.String("out", ".", "directory for PNG and CSV exports")
	rate := flag.Int("rate", 4, "smoothing passes per second while animating")
	dsn := flag.String("db", "", "snapshot database (K saves a snapshot)")
	driver := flag.String("driver", store.DriverSQLite, "snapshot database driver (sqlite or postgres)")
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 800, "window height")
	flag.Parse()

	logger, err := flags.Logger(os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	env, err := flags.Setup(logger)
	if err != nil {
		log.Fatal(err)
	}
	if err := env.Session.Run(); err != nil {
		log.Fatal(err)
	}

	opts := app.Options{OutDir: *outDir, AnimationRate: *rate, Logger: logger}
	if *dsn != "" {
		s, err := store.Open(*driver, *dsn)
		if err != nil {
			log.Fatal(err)
		}
		defer s.Close()
		opts.Store = s
	}

	game := app.New(env.Session, env.Sprites, opts)
	ebiten.SetWindowTitle("isoterrain")
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
