package meshsdf

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/sdfgen/internal/d3"
	"github.com/soypat/sdfgen/mesh"
)

// kdTriangle is a mesh triangle stored in the k-d tree, compared by
// centroid. A bare centroid with no normal doubles as a query point.
type kdTriangle struct {
	C           r3.Vec          // Centroid
	lastFeature triangleFeature // result from last distance calculation
	lastClosest r3.Vec
	Vertices    mesh.Triangle
	m           *model       // to construct triangle geometry from indices.
	N           r3.Vec       // pseudo face normal, scaled by 2*pi
	T           d3.Transform // Canalis transformation matrix.
	InvT        d3.Transform // inverse of T
}

func (t *kdTriangle) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(*kdTriangle)
	switch d {
	case 0:
		return t.C.X - q.C.X
	case 1:
		return t.C.Y - q.C.Y
	case 2:
		return t.C.Z - q.C.Z
	}
	panic("unreachable")
}

func (t *kdTriangle) Dims() int { return 3 }

// Distance returns the squared distance between the query point wrapped in
// c and this triangle. The triangle is rotated into the XY plane so the
// closest point search happens in 2D, then the result is transformed back.
func (t *kdTriangle) Distance(c kdtree.Comparable) float64 {
	point := c.(*kdTriangle)
	if t.isPoint() {
		if point.isPoint() {
			return r3.Norm2(r3.Sub(t.C, point.C))
		}
		point, t = t, point // make sure `t` is the triangle.
	}
	pxy := t.T.Transform(point.C)
	txy := t.triangle()
	for i := range txy {
		txy[i] = t.T.Transform(txy[i])
	}
	onTriangle, feat := closestOnTriangle2(lowerVec(pxy), [3]r2.Vec{lowerVec(txy[0]), lowerVec(txy[1]), lowerVec(txy[2])})
	t.lastFeature = feat
	t.lastClosest = t.InvT.Transform(r3.Vec{X: onTriangle.X, Y: onTriangle.Y})
	return r3.Norm2(r3.Sub(point.C, t.lastClosest))
}

// copySign gives dist the sign of the dot product between the pseudonormal
// of the feature the last Distance call found closest and the offset from
// that feature to p. It expects p to be the same point passed to Distance.
func (t *kdTriangle) copySign(p r3.Vec, dist float64) (signed float64) {
	if t.lastFeature <= featureV2 {
		// Closest to a triangle vertex.
		vertex := t.m.vertices[t.Vertices[t.lastFeature]]
		signed = r3.Dot(vertex.N, r3.Sub(p, vertex.V))
	} else if t.lastFeature <= featureE2 {
		vertex1 := int(t.lastFeature - featureE0)
		edge := [2]int{t.Vertices[vertex1], t.Vertices[(vertex1+1)%3]}
		if edge[0] > edge[1] {
			edge[0], edge[1] = edge[1], edge[0]
		}
		norm := t.m.pseudoEdgeN[edge]
		signed = r3.Dot(norm, r3.Sub(p, t.lastClosest))
	} else {
		signed = r3.Dot(t.N, r3.Sub(p, t.lastClosest))
	}
	return math.Copysign(dist, signed)
}

func (t *kdTriangle) triangle() mesh.Triangle3 {
	return mesh.Triangle3{
		t.m.vertices[t.Vertices[0]].V,
		t.m.vertices[t.Vertices[1]].V,
		t.m.vertices[t.Vertices[2]].V,
	}
}

func (t *kdTriangle) isPoint() bool {
	return t.N == (r3.Vec{}) // uninitialized fields.
}

// canalisTransform courtesy of Agustin Canalis (acanalis).
// Returns a transformation for a triangle so that:
//   - the triangle's first edge (t_0,t_1) is on the X axis
//   - the triangle's first vertex t_0 is at the origin
//   - the triangle's last vertex t_2 is in the XY plane.
func canalisTransform(t mesh.Triangle3) d3.Transform {
	u2 := r3.Sub(t[1], t[0])
	u3 := r3.Sub(t[2], t[0])

	xc := r3.Unit(u2)
	yc := r3.Sub(u3, r3.Scale(r3.Dot(xc, u3), xc)) // t[2] but no X component
	yc = r3.Unit(yc)
	zc := r3.Cross(xc, yc)

	T := d3.NewTransform([]float64{
		xc.X, xc.Y, xc.Z, 0,
		yc.X, yc.Y, yc.Z, 0,
		zc.X, zc.Y, zc.Z, 0,
		0, 0, 0, 1,
	})
	t0T := T.Transform(t[0])
	return T.Translate(r3.Scale(-1, t0T)) // add offset.
}

func lowerVec(v r3.Vec) r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}
