package sdfgen

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Closed-form point/primitive minimum distance queries. These run once per
// (triangle, nearby grid node) pair and dominate rasterization cost, so they
// stay branch-light and allocation free.

// pointTriangleDistance returns the minimum distance from p to the filled
// triangle (x1,x2,x3) and the barycentric coordinates (w1,w2,w3) of the
// closest point, so that closest = w1*x1 + w2*x2 + w3*x3.
//
// The closest point is classified against the triangle's Voronoi regions:
// interior projection first, otherwise the nearest of the candidate edges,
// whose own endpoint clamping resolves the vertex regions. The guarded
// determinant keeps exactly degenerate triangles finite: their projection
// weights collapse to x3, so the query resolves to a vertex distance, while
// nearly degenerate ones fall through to the edge clamps.
func pointTriangleDistance(p, x1, x2, x3 r3.Vec) (dist float64, bary [3]float64) {
	x13 := r3.Sub(x1, x3)
	x23 := r3.Sub(x2, x3)
	x03 := r3.Sub(p, x3)
	m13 := r3.Norm2(x13)
	m23 := r3.Norm2(x23)
	d := r3.Dot(x13, x23)
	invdet := 1 / math.Max(m13*m23-d*d, 1e-30)
	a := r3.Dot(x13, x03)
	b := r3.Dot(x23, x03)
	// Barycentric weights of the unclamped planar projection.
	w1 := invdet * (m23*a - d*b)
	w2 := invdet * (m13*b - d*a)
	w3 := 1 - w1 - w2

	if w1 >= 0 && w2 >= 0 && w3 >= 0 {
		// Projection falls inside the triangle.
		closest := r3.Add(r3.Scale(w1, x1), r3.Add(r3.Scale(w2, x2), r3.Scale(w3, x3)))
		return r3.Norm(r3.Sub(p, closest)), [3]float64{w1, w2, w3}
	}
	// Clamp to the two edges not ruled out by the offending weight.
	if w1 > 0 {
		// Rules out edge x2-x3.
		d12, s12 := pointSegmentDistance(p, x1, x2)
		d13, s13 := pointSegmentDistance(p, x1, x3)
		if d12 < d13 {
			return d12, [3]float64{s12, 1 - s12, 0}
		}
		return d13, [3]float64{s13, 0, 1 - s13}
	} else if w2 > 0 {
		// Rules out edge x1-x3.
		d12, s12 := pointSegmentDistance(p, x1, x2)
		d23, s23 := pointSegmentDistance(p, x2, x3)
		if d12 < d23 {
			return d12, [3]float64{s12, 1 - s12, 0}
		}
		return d23, [3]float64{0, s23, 1 - s23}
	}
	// w3 > 0, rules out edge x1-x2.
	d13, s13 := pointSegmentDistance(p, x1, x3)
	d23, s23 := pointSegmentDistance(p, x2, x3)
	if d13 < d23 {
		return d13, [3]float64{s13, 0, 1 - s13}
	}
	return d23, [3]float64{0, s23, 1 - s23}
}

// pointSegmentDistance returns the minimum distance from p to segment (x1,x2)
// and the parameter s of the closest point x = s*x1 + (1-s)*x2, s in [0,1].
// A zero-length segment degenerates to point distance with s=0.
func pointSegmentDistance(p, x1, x2 r3.Vec) (dist, s float64) {
	dx := r3.Sub(x2, x1)
	m2 := r3.Norm2(dx)
	if m2 == 0 {
		return r3.Norm(r3.Sub(p, x2)), 0
	}
	// Parameter value of closest point on the infinite line.
	s = r3.Dot(r3.Sub(x2, p), dx) / m2
	if s < 0 {
		s = 0
	} else if s > 1 {
		s = 1
	}
	closest := r3.Add(r3.Scale(s, x1), r3.Scale(1-s, x2))
	return r3.Norm(r3.Sub(p, closest)), s
}
