package terrain

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// DefaultSeedPolicy starts every eligible cell at the maximum elevation.
const DefaultSeedPolicy = "ceiling"

// SeedPolicy picks the elevation an eligible cell starts with before
// diffusion. Values outside [0, maxElevation] are clamped by the caller.
type SeedPolicy interface {
	Initial(x, y, maxElevation int) float64
}

// PolicyFactory builds a policy for one elevation run. Policies that need
// randomness take it from rng so the run stays reproducible.
type PolicyFactory func(rng *rand.Rand) SeedPolicy

var policies = map[string]PolicyFactory{}

// RegisterPolicy adds a seeding policy under the provided name.
func RegisterPolicy(name string, f PolicyFactory) {
	if name == "" || f == nil {
		return
	}
	policies[name] = f
}

// Policies returns the registered policy names in sorted order.
func Policies() []string {
	names := make([]string, 0, len(policies))
	for name := range policies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPolicy instantiates the named policy. An empty name selects
// DefaultSeedPolicy.
func NewPolicy(name string, rng *rand.Rand) (SeedPolicy, error) {
	if name == "" {
		name = DefaultSeedPolicy
	}
	f, ok := policies[name]
	if !ok {
		return nil, fmt.Errorf("seeding policy %q: %w", name, ErrInvalidParameter)
	}
	return f(rng), nil
}

type ceilingPolicy struct{}

func (ceilingPolicy) Initial(_, _, maxElevation int) float64 { return float64(maxElevation) }

type uniformPolicy struct{ rng *rand.Rand }

func (p uniformPolicy) Initial(_, _, maxElevation int) float64 {
	return float64(p.rng.IntN(maxElevation + 1))
}

// simplexPolicy shapes mountains with fractal OpenSimplex noise.
type simplexPolicy struct {
	noise opensimplex.Noise
}

func (p simplexPolicy) Initial(x, y, maxElevation int) float64 {
	return octaveNoise(p.noise, float64(x), float64(y), 4, 0.08, 0.5) * float64(maxElevation)
}

// octaveNoise layers several frequencies of normalized noise into [0, 1).
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

type perlinPolicy struct {
	p *perlin.Perlin
}

func (p perlinPolicy) Initial(x, y, maxElevation int) float64 {
	v := (p.p.Noise2D(float64(x)*0.1, float64(y)*0.1) + 1) / 2
	return v * float64(maxElevation)
}

func init() {
	RegisterPolicy("ceiling", func(*rand.Rand) SeedPolicy { return ceilingPolicy{} })
	RegisterPolicy("uniform", func(rng *rand.Rand) SeedPolicy { return uniformPolicy{rng: rng} })
	RegisterPolicy("simplex", func(rng *rand.Rand) SeedPolicy {
		return simplexPolicy{noise: opensimplex.NewNormalized(rng.Int64())}
	})
	RegisterPolicy("perlin", func(rng *rand.Rand) SeedPolicy {
		return perlinPolicy{p: perlin.NewPerlin(2, 2, 3, rng.Int64())}
	})
}
