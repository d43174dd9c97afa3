package terrain

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// TileID identifies a tile type. The zero value marks an empty cell.
type TileID string

// Empty is stored in cells that hold no tile.
const Empty TileID = ""

// TileType describes one kind of tile and how it takes part in generation.
type TileType struct {
	ID TileID
	// Weight is the relative probability of appearing in a fresh base layer.
	// Zero means the tile is never generated.
	Weight float64
	// Elevation marks the tile as substrate for mountain growth.
	Elevation bool
}

// Catalog is the registry of tile types available to a generation run.
// Registration order defines each tile's ordinal.
type Catalog struct {
	order []TileID
	tiles map[TileID]*TileType
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tiles: make(map[TileID]*TileType)}
}

// Register adds a tile type.
func (c *Catalog) Register(t TileType) error {
	if t.ID == Empty {
		return ErrInvalidTileID
	}
	if _, ok := c.tiles[t.ID]; ok {
		return fmt.Errorf("register %q: %w", t.ID, ErrDuplicateTile)
	}
	if !validWeight(t.Weight) {
		return fmt.Errorf("register %q weight %v: %w", t.ID, t.Weight, ErrInvalidWeight)
	}
	tt := t
	c.tiles[t.ID] = &tt
	c.order = append(c.order, t.ID)
	return nil
}

// SetWeight changes the generation weight of a registered tile.
func (c *Catalog) SetWeight(id TileID, weight float64) error {
	t, ok := c.tiles[id]
	if !ok {
		return fmt.Errorf("set weight %q: %w", id, ErrUnknownTile)
	}
	if !validWeight(weight) {
		return fmt.Errorf("set weight %q to %v: %w", id, weight, ErrInvalidWeight)
	}
	t.Weight = weight
	return nil
}

// SetElevationEligible flags or unflags a tile as elevation substrate.
func (c *Catalog) SetElevationEligible(id TileID, eligible bool) error {
	t, ok := c.tiles[id]
	if !ok {
		return fmt.Errorf("set elevation %q: %w", id, ErrUnknownTile)
	}
	t.Elevation = eligible
	return nil
}

// Has reports whether id is registered.
func (c *Catalog) Has(id TileID) bool {
	_, ok := c.tiles[id]
	return ok
}

// Get returns a copy of the registered tile type.
func (c *Catalog) Get(id TileID) (TileType, bool) {
	t, ok := c.tiles[id]
	if !ok {
		return TileType{}, false
	}
	return *t, true
}

// Len returns the number of registered tiles.
func (c *Catalog) Len() int { return len(c.order) }

// IDs returns the registered ids in registration order.
func (c *Catalog) IDs() []TileID {
	return append([]TileID(nil), c.order...)
}

// Ordinal returns the registration position of id, or -1 if unknown.
func (c *Catalog) Ordinal(id TileID) int {
	for i, o := range c.order {
		if o == id {
			return i
		}
	}
	return -1
}

// IsElevationEligible reports whether id is registered and flagged eligible.
func (c *Catalog) IsElevationEligible(id TileID) bool {
	t, ok := c.tiles[id]
	return ok && t.Elevation
}

// ElevationEligibleSet returns the eligible ids in registration order.
func (c *Catalog) ElevationEligibleSet() []TileID {
	var out []TileID
	for _, id := range c.order {
		if c.tiles[id].Elevation {
			out = append(out, id)
		}
	}
	return out
}

// TotalWeight sums the weights of all tiles.
func (c *Catalog) TotalWeight() float64 {
	total := 0.0
	for _, id := range c.order {
		total += c.tiles[id].Weight
	}
	return total
}

// SampleWeighted draws one tile id with probability proportional to its
// weight.
func (c *Catalog) SampleWeighted(rng *rand.Rand) (TileID, error) {
	s := c.sampler()
	if s.total <= 0 {
		return Empty, ErrNoEligibleTile
	}
	return s.pick(rng.Float64()), nil
}

// weightedSampler is the cumulative weight table over tiles with weight > 0.
type weightedSampler struct {
	ids   []TileID
	cum   []float64
	total float64
}

func (c *Catalog) sampler() weightedSampler {
	var s weightedSampler
	for _, id := range c.order {
		w := c.tiles[id].Weight
		if w <= 0 {
			continue
		}
		s.total += w
		s.ids = append(s.ids, id)
		s.cum = append(s.cum, s.total)
	}
	return s
}

// pick maps u in [0, 1) onto the cumulative distribution. The table must be
// non-empty.
func (s weightedSampler) pick(u float64) TileID {
	target := u * s.total
	for i, acc := range s.cum {
		if target < acc {
			return s.ids[i]
		}
	}
	// Rounding can leave target == total on the last bucket.
	return s.ids[len(s.ids)-1]
}

// Clone returns an independent copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	out := NewCatalog()
	for _, id := range c.order {
		_ = out.Register(*c.tiles[id])
	}
	return out
}

func validWeight(w float64) bool {
	return w >= 0 && !math.IsNaN(w) && !math.IsInf(w, 0)
}
