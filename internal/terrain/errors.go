package terrain

import "errors"

// Configuration errors.
var (
	ErrInvalidDimension = errors.New("terrain: invalid dimension")
	ErrInvalidTileID    = errors.New("terrain: invalid tile id")
	ErrDuplicateTile    = errors.New("terrain: duplicate tile")
	ErrUnknownTile      = errors.New("terrain: unknown tile")
	ErrInvalidWeight    = errors.New("terrain: invalid weight")
	ErrInvalidParameter = errors.New("terrain: invalid parameter")
)

// Generation errors. Passes detect these before writing any cell.
var (
	ErrNoEligibleTile  = errors.New("terrain: no tile has a positive weight")
	ErrNoElevationTile = errors.New("terrain: no elevation-eligible tile")
	ErrNotGenerated    = errors.New("terrain: base layer not generated")
)

// Edit errors. They reject a single mutation and leave other cells alone.
var (
	ErrOutOfBounds    = errors.New("terrain: coordinates out of bounds")
	ErrProtectedLayer = errors.New("terrain: base layer tiles cannot be deleted")
	ErrFloatingTile   = errors.New("terrain: tile would float above an empty cell")
	ErrEmptyCell      = errors.New("terrain: cell is empty")
)
