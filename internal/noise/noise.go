// Package noise provides the deterministic scalar fields behind the gradient:
// a coordinate hash, lattice value noise and fractal sums of it.
package noise

import "math"

const (
	// Octaves is the fixed number of layers summed by FBM.
	Octaves = 5
	// Lacunarity is slightly off 2 so octave lattices never line up.
	Lacunarity = 2.02
	// Gain is the per-octave amplitude multiplier.
	Gain = 0.5

	hashKX    = 127.1
	hashKY    = 311.7
	hashScale = 43758.5453123
)

// Hash returns a pseudo-random value in [0,1) for the coordinate (x, y).
// It has no state: the same input always yields the same output.
func Hash(x, y float64) float64 {
	return fract(math.Sin(x*hashKX+y*hashKY) * hashScale)
}

// Value samples value noise at (x, y): the hashes of the four surrounding
// lattice points blended with a Hermite ease. The result lies in [0,1).
func Value(x, y float64) float64 {
	ix, iy := math.Floor(x), math.Floor(y)
	fx, fy := x-ix, y-iy

	a := Hash(ix, iy)
	b := Hash(ix+1, iy)
	c := Hash(ix, iy+1)
	d := Hash(ix+1, iy+1)

	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)

	return a + (b-a)*ux + (c-a)*uy*(1-ux) + (d-b)*ux*uy
}

// FBM sums Octaves layers of value noise, starting at amplitude 0.5.
func FBM(x, y float64) float64 {
	v := 0.0
	amp := 0.5
	for i := 0; i < Octaves; i++ {
		v += amp * Value(x, y)
		x *= Lacunarity
		y *= Lacunarity
		amp *= Gain
	}
	return v
}

// fract keeps the result strictly below 1 even when x-floor(x) rounds up.
func fract(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		return 0
	}
	return f
}
