// Package tileset loads tile catalogs together with the colours and sprite
// images renderers draw them with.
package tileset

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // sprite decoders
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"isoterrain/internal/terrain"
)

// ErrInvalidManifest reports a manifest that cannot describe a catalog.
var ErrInvalidManifest = errors.New("tileset: invalid manifest")

// Tile is one manifest entry.
type Tile struct {
	ID        string  `json:"id"`
	Weight    float64 `json:"weight"`
	Elevation bool    `json:"elevation,omitempty"`
	// Color is "#rrggbb" or "#rrggbbaa". Empty picks from the fallback palette.
	Color string `json:"color,omitempty"`
	// Image is a sprite path, relative to the manifest's directory.
	Image string `json:"image,omitempty"`
}

// Set is an ordered list of tiles plus the directory sprite paths resolve
// against.
type Set struct {
	Tiles []Tile `json:"tiles"`
	dir   string
}

// Default returns the built-in tiles.
func Default() *Set {
	return &Set{Tiles: []Tile{
		{ID: "grass", Weight: 0.45, Color: "#5a9e3a"},
		{ID: "water", Weight: 0.25, Color: "#3b6fb6"},
		{ID: "sand", Weight: 0.1, Color: "#d8c27a"},
		{ID: "rock", Weight: 0.2, Elevation: true, Color: "#8a8a8a"},
	}}
}

// Load reads a JSON manifest.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tileset %s: %w", path, err)
	}
	s := &Set{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("load tileset %s: %v: %w", path, err, ErrInvalidManifest)
	}
	s.dir = filepath.Dir(path)
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("load tileset %s: %w", path, err)
	}
	return s, nil
}

// spriteExts lists the image formats FromDir picks up.
var spriteExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".webp": true,
}

// FromDir builds a set from every sprite image in dir. Files are taken in
// name order and numbered "1".."n"; each gets weight 1, so all are equally
// likely, and no tile is elevation-eligible.
func FromDir(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("tileset dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !spriteExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, e.Name())
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("tileset dir %s: no tile images: %w", dir, ErrInvalidManifest)
	}
	s := &Set{dir: dir}
	for i, name := range files {
		s.Tiles = append(s.Tiles, Tile{
			ID:     strconv.Itoa(i + 1),
			Weight: 1,
			Image:  name,
		})
	}
	return s, nil
}

// Save writes s as an indented JSON manifest.
func (s *Set) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func (s *Set) validate() error {
	if len(s.Tiles) == 0 {
		return fmt.Errorf("no tiles: %w", ErrInvalidManifest)
	}
	for _, t := range s.Tiles {
		if t.Color == "" {
			continue
		}
		if _, err := ParseColor(t.Color); err != nil {
			return fmt.Errorf("tile %q: %w", t.ID, err)
		}
	}
	return nil
}

// Catalog registers every tile in manifest order.
func (s *Set) Catalog() (*terrain.Catalog, error) {
	c := terrain.NewCatalog()
	for _, t := range s.Tiles {
		err := c.Register(terrain.TileType{
			ID:        terrain.TileID(t.ID),
			Weight:    t.Weight,
			Elevation: t.Elevation,
		})
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// fallback colours for tiles without one.
var fallback = []color.RGBA{
	{0x5a, 0x9e, 0x3a, 0xff},
	{0x3b, 0x6f, 0xb6, 0xff},
	{0xd8, 0xc2, 0x7a, 0xff},
	{0x8a, 0x8a, 0x8a, 0xff},
	{0x7b, 0x4a, 0x2b, 0xff},
	{0xe8, 0xe8, 0xf0, 0xff},
	{0x2f, 0x5d, 0x2a, 0xff},
	{0xb0, 0x4a, 0x3a, 0xff},
}

// Colors maps each tile id to its display colour.
func (s *Set) Colors() map[terrain.TileID]color.RGBA {
	out := make(map[terrain.TileID]color.RGBA, len(s.Tiles))
	for i, t := range s.Tiles {
		c, err := ParseColor(t.Color)
		if err != nil {
			c = fallback[i%len(fallback)]
		}
		out[terrain.TileID(t.ID)] = c
	}
	return out
}

// Images decodes the sprite of every tile that names one.
func (s *Set) Images() (map[terrain.TileID]image.Image, error) {
	out := make(map[terrain.TileID]image.Image)
	for _, t := range s.Tiles {
		if t.Image == "" {
			continue
		}
		path := t.Image
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		img, err := decodeImage(path)
		if err != nil {
			return nil, fmt.Errorf("tile %q: %w", t.ID, err)
		}
		out[terrain.TileID(t.ID)] = img
	}
	return out, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, ErrInvalidManifest)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, ErrInvalidManifest)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Resolve picks the tile set for a command line: the manifest when given,
// otherwise the image directory, otherwise the built-in tiles.
func Resolve(manifest, dir string) (*Set, error) {
	switch {
	case manifest != "":
		return Load(manifest)
	case dir != "":
		return FromDir(dir)
	default:
		return Default(), nil
	}
}
