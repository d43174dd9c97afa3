package core

// Size describes the dimensions of a tile grid.
type Size struct {
	W int
	H int
}

// Area returns W*H.
func (s Size) Area() int { return s.W * s.H }
