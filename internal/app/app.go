//go:build ebiten

package app

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"time"

	"isoterrain/internal/core"
	"isoterrain/internal/export"
	"isoterrain/internal/render"
	"isoterrain/internal/terrain"
	"isoterrain/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	panelWidth   = 280
	minimapScale = 3
	minZoom      = 0.25
	maxZoom      = 4
)

// Game adapts a terrain session to the ebiten.Game interface.
type Game struct {
	session *terrain.Session
	proj    render.Projection
	sprites *render.Sprites
	images  map[terrain.TileID]*ebiten.Image
	opts    Options
	log     *slog.Logger

	hud     *ui.HUD
	overlay *ui.Overlay
	pacer   *core.FixedStep

	animating bool
	screenW   int
	screenH   int

	camX, camY float64
	zoom       float64
	centred    bool
	dragging   bool
	dragX      int
	dragY      int

	hover   terrain.Tile
	hovered bool
	message string
}

// New constructs a Game for the provided session. The session should
// already hold a generated terrain; otherwise the first frame shows an
// empty view until G is pressed.
func New(session *terrain.Session, sprites *render.Sprites, opts Options) *Game {
	opts = opts.withDefaults()
	g := &Game{
		session: session,
		proj:    render.NewProjection(session.Config()),
		sprites: sprites,
		images:  map[terrain.TileID]*ebiten.Image{},
		opts:    opts,
		log:     opts.Logger,
		overlay: ui.NewOverlay(sprites.Colors(), minimapScale),
		pacer:   core.NewFixedStep(opts.AnimationRate),
		zoom:    1,
	}
	g.hud = ui.NewHUD(session, "Terrain", panelWidth)
	return g
}

// Update handles per-frame input and runs generation passes.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.hud.Update(g.viewWidth())
	g.overlay.Update()
	g.handleCamera()
	g.updateHover()
	g.handlePasses()
	g.handleEdits()
	g.handleExports()

	if g.animating && g.pacer.ShouldStep() {
		g.apply("smooth", g.session.Smooth)
	}
	g.hud.SetStatus(g.statusLines()...)
	return nil
}

func (g *Game) handlePasses() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.apply("generate", g.session.Run)
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		g.apply("base layer", g.session.Generate)
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.apply("smooth", g.session.Smooth)
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.apply("elevate", g.session.Elevate)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		seed := time.Now().UnixNano()
		g.apply("reseed", func() error { return g.session.Reseed(seed) })
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.apply("seeding", g.cyclePolicy)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.animating = !g.animating
		g.pacer.Reset()
	}
}

// cyclePolicy switches to the next registered elevation seeding policy.
func (g *Game) cyclePolicy() error {
	cfg := g.session.Config()
	names := terrain.Policies()
	current := cfg.SeedPolicy
	if current == "" {
		current = terrain.DefaultSeedPolicy
	}
	i := slices.Index(names, current)
	cfg.SeedPolicy = names[(i+1)%len(names)]
	return g.session.Reconfigure(cfg)
}

func (g *Game) handleEdits() {
	if !g.hovered {
		return
	}
	x, y := g.hover.X, g.hover.Y
	if inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.apply("delete", func() error { return g.session.DeleteTopTile(x, y) })
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		id := g.hover.ID
		g.apply("elevation tile", func() error { return g.useElevationTile(id) })
		return
	}
	ids := g.session.Catalog().IDs()
	column := ebiten.IsKeyPressed(ebiten.KeyShift)
	for d := 0; d < 9 && d < len(ids); d++ {
		if !inpututil.IsKeyJustPressed(ebiten.KeyDigit1 + ebiten.Key(d)) {
			continue
		}
		id := ids[d]
		if column {
			g.apply("retype column", func() error { return g.session.SetTileType(x, y, false, id) })
		} else {
			layer := g.hover.Layer
			g.apply("retype", func() error { return g.session.RetypeAt(layer, x, y, id) })
		}
		return
	}
}

// useElevationTile makes id the only elevation-eligible tile type.
func (g *Game) useElevationTile(id terrain.TileID) error {
	c := g.session.Catalog()
	if !c.Has(id) {
		return fmt.Errorf("tile %q: %w", id, terrain.ErrUnknownTile)
	}
	for _, other := range c.IDs() {
		if err := c.SetElevationEligible(other, other == id); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) handleExports() {
	grid := g.session.Grid()
	if !grid.Generated() {
		return
	}
	stem := filepath.Join(g.opts.OutDir, fmt.Sprintf("terrain-%d", grid.Seed()))
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.apply("png", func() error { return render.SavePNG(stem+".png", render.Compose(grid, g.sprites)) })
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.apply("csv", func() error { return export.WriteFile(stem+".csv", grid) })
	case inpututil.IsKeyJustPressed(ebiten.KeyK) && g.opts.Store != nil:
		g.apply("snapshot", func() error {
			id, err := g.opts.Store.Save(context.Background(), filepath.Base(stem), grid)
			if err == nil {
				g.log.Info("snapshot saved", "id", id)
			}
			return err
		})
	}
}

// apply runs one action and records its outcome for the status panel.
func (g *Game) apply(name string, fn func() error) {
	if err := fn(); err != nil {
		g.message = fmt.Sprintf("%s: %v", name, err)
		g.log.Warn("action failed", "action", name, "error", err)
		return
	}
	g.message = name + " ok"
	g.overlay.Invalidate()
}

func (g *Game) handleCamera() {
	mx, my := ebiten.CursorPosition()
	if _, wy := ebiten.Wheel(); wy != 0 && !g.hud.Contains(mx, my) {
		next := g.zoom * math.Pow(1.1, wy)
		next = math.Max(minZoom, math.Min(maxZoom, next))
		// Keep the point under the cursor fixed.
		g.camX = float64(mx) - (float64(mx)-g.camX)*next/g.zoom
		g.camY = float64(my) - (float64(my)-g.camY)*next/g.zoom
		g.zoom = next
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.dragging = true
		g.dragX, g.dragY = mx, my
	}
	if g.dragging {
		g.camX += float64(mx - g.dragX)
		g.camY += float64(my - g.dragY)
		g.dragX, g.dragY = mx, my
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
			g.dragging = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.centred = false
	}
}

func (g *Game) updateHover() {
	mx, my := ebiten.CursorPosition()
	grid := g.session.Grid()
	if g.hud.Contains(mx, my) || !grid.Generated() {
		g.hovered = false
		return
	}
	px := (float64(mx) - g.camX) / g.zoom
	py := (float64(my) - g.camY) / g.zoom
	g.hover, g.hovered = g.proj.Pick(grid, px, py)
}

// centre places the terrain in the middle of the view at zoom 1.
func (g *Game) centre() {
	grid := g.session.Grid()
	b := g.proj.Bounds(grid.Width(), grid.Height(), grid.MaxHeight())
	g.zoom = 1
	g.camX = float64(g.viewWidth())/2 - float64(b.Min.X+b.Max.X)/2
	g.camY = float64(g.screenH)/2 - float64(b.Min.Y+b.Max.Y)/2
	g.centred = true
}

func (g *Game) statusLines() []string {
	grid := g.session.Grid()
	lines := []string{}
	if g.hovered {
		lines = append(lines,
			fmt.Sprintf("Tile %s at (%d, %d)", g.hover.ID, g.hover.X, g.hover.Y),
			fmt.Sprintf("Layer %d, column height %d", g.hover.Layer, grid.HeightAt(g.hover.X, g.hover.Y)),
		)
	}
	if g.animating {
		lines = append(lines, fmt.Sprintf("Smoothing %d/s", g.pacer.Rate()))
	}
	if g.message != "" {
		lines = append(lines, g.message)
	}
	lines = append(lines, "Elevation: "+joinIDs(g.session.Catalog().ElevationEligibleSet()))
	return append(lines,
		"",
		"G run  B base  S smooth  E elevate",
		"R reseed  N seeding  Space animate",
		"1-9 retype  Shift column  Del drop",
		"T elevation tile",
		"P png  C csv  K snapshot",
		"M minimap  H heights  Home centre",
	)
}

func joinIDs(ids []terrain.TileID) string {
	if len(ids) == 0 {
		return "none"
	}
	out := string(ids[0])
	for _, id := range ids[1:] {
		out += ", " + string(id)
	}
	return out
}

func (g *Game) viewWidth() int {
	w := g.screenW - g.hud.Width()
	if w < 0 {
		return 0
	}
	return w
}

func (g *Game) sprite(id terrain.TileID) *ebiten.Image {
	img, ok := g.images[id]
	if !ok {
		img = ebiten.NewImageFromImage(g.sprites.Sprite(id))
		g.images[id] = img
	}
	return img
}

// Draw renders the terrain in draw order, then the minimap and the panel.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 26, B: 32, A: 255})
	grid := g.session.Grid()
	if grid.Generated() {
		if !g.centred {
			g.centre()
		}
		g.drawTerrain(screen, grid)
		g.overlay.Draw(screen, grid, panelPadding, panelPadding)
	}
	g.hud.Draw(screen, g.viewWidth())
}

const panelPadding = 12

func (g *Game) drawTerrain(screen *ebiten.Image, grid *terrain.Grid) {
	view := screen.Bounds()
	view.Max.X = g.viewWidth()
	sw, sh := g.proj.SpriteSize()
	grid.Walk(func(t terrain.Tile) bool {
		sx, sy := g.proj.Project(t.Layer, t.X, t.Y)
		x := sx*g.zoom + g.camX
		y := sy*g.zoom + g.camY
		if x+float64(sw)*g.zoom < 0 || y+float64(sh)*g.zoom < 0 || x > float64(view.Max.X) || y > float64(view.Max.Y) {
			return true
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(g.zoom, g.zoom)
		op.GeoM.Translate(math.Floor(x), math.Floor(y))
		if g.hovered && t == g.hover {
			op.ColorScale.Scale(1.35, 1.35, 1.35, 1)
		}
		screen.DrawImage(g.sprite(t.ID), op)
		return true
	})
}

// Layout follows the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.screenW || outsideHeight != g.screenH {
		g.screenW, g.screenH = outsideWidth, outsideHeight
		g.centred = false
	}
	return outsideWidth, outsideHeight
}
