/*

Integer 3D vectors for grid indexing.

*/

package sdfgen

import "gonum.org/v1/gonum/spatial/r3"

// V3i is a 3D integer vector. It addresses grid nodes as (i,j,k).
type V3i [3]int

// SubScalar subtracts a scalar from each component of the vector.
func (a V3i) SubScalar(b int) V3i {
	return V3i{a[0] - b, a[1] - b, a[2] - b}
}

// AddScalar adds a scalar to each component of the vector.
func (a V3i) AddScalar(b int) V3i {
	return V3i{a[0] + b, a[1] + b, a[2] + b}
}

// ToV3 converts V3i (integer) to r3.Vec (float).
func (a V3i) ToV3() r3.Vec {
	return r3.Vec{X: float64(a[0]), Y: float64(a[1]), Z: float64(a[2])}
}

// Clamp limits each component of the vector to the inclusive range [lo,hi].
func (a V3i) Clamp(lo, hi V3i) V3i {
	return V3i{
		clampInt(a[0], lo[0], hi[0]),
		clampInt(a[1], lo[1], hi[1]),
		clampInt(a[2], lo[2], hi[2]),
	}
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
