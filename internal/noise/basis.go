package noise

import (
	"fmt"
	"strings"

	"github.com/aquilax/go-perlin"
)

// Basis is a single-octave scalar field in [0,1) that FBMWith layers.
// Implementations must be safe for concurrent reads after construction.
type Basis interface {
	Sample(x, y float64) float64
}

// ValueBasis is the default basis backed by Value.
type ValueBasis struct{}

// Sample implements Basis.
func (ValueBasis) Sample(x, y float64) float64 { return Value(x, y) }

// PerlinBasis layers gradient noise instead of value noise. The permutation
// table is fixed by the seed, so output is reproducible.
type PerlinBasis struct {
	p *perlin.Perlin
}

// NewPerlinBasis builds a single-octave Perlin basis for the seed.
func NewPerlinBasis(seed int64) *PerlinBasis {
	// alpha/beta only matter for n > 1; octaves are summed by FBMWith.
	return &PerlinBasis{p: perlin.NewPerlin(2.0, 2.0, 1, seed)}
}

// Sample implements Basis, remapping roughly [-1,1] into [0,1).
func (b *PerlinBasis) Sample(x, y float64) float64 {
	v := (b.p.Noise2D(x, y) + 1) * 0.5
	if v < 0 {
		return 0
	}
	if v >= 1 {
		return 0.9999999
	}
	return v
}

// FBMWith is FBM over an arbitrary basis. A nil basis falls back to Value.
func FBMWith(b Basis, x, y float64) float64 {
	if b == nil {
		return FBM(x, y)
	}
	if _, ok := b.(ValueBasis); ok {
		return FBM(x, y)
	}
	v := 0.0
	amp := 0.5
	for i := 0; i < Octaves; i++ {
		v += amp * b.Sample(x, y)
		x *= Lacunarity
		y *= Lacunarity
		amp *= Gain
	}
	return v
}

// BasisKind names a basis in configuration.
type BasisKind string

const (
	BasisValue  BasisKind = "value"
	BasisPerlin BasisKind = "perlin"
)

// ParseBasisKind maps a configuration string to a BasisKind.
func ParseBasisKind(s string) (BasisKind, error) {
	switch BasisKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", BasisValue:
		return BasisValue, nil
	case BasisPerlin:
		return BasisPerlin, nil
	default:
		return BasisValue, fmt.Errorf("unknown noise basis %q", s)
	}
}

// NewBasis constructs the basis for kind.
func NewBasis(kind BasisKind, seed int64) Basis {
	if kind == BasisPerlin {
		return NewPerlinBasis(seed)
	}
	return ValueBasis{}
}
