// Package mesh provides the triangle mesh input contract for level set
// construction: an ordered vertex list and an ordered list of vertex index
// triples. Readers for the Wavefront OBJ and binary STL formats are included.
package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/sdfgen/internal/d3"
)

// Triangle indexes three mesh vertices. Winding is counter-clockwise seen
// from outside the solid for a consistently outward-oriented mesh.
type Triangle [3]int

// Triangle3 is a triangle resolved to vertex positions in 3D space.
type Triangle3 [3]r3.Vec

// Mesh is an indexed triangle mesh. The zero value is an empty mesh.
type Mesh struct {
	Vertices  []r3.Vec
	Triangles []Triangle
}

// Triangle3 resolves triangle t to its vertex positions.
func (m Mesh) Triangle3(t int) Triangle3 {
	tri := m.Triangles[t]
	return Triangle3{m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]}
}

// Bounds returns the axis aligned bounding box of all mesh vertices.
// The bounds of an empty mesh are undefined.
func (m Mesh) Bounds() r3.Box {
	bb := d3.Box{Min: d3.Elem(math.MaxFloat64), Max: d3.Elem(-math.MaxFloat64)}
	for _, v := range m.Vertices {
		bb = bb.Include(v)
	}
	return r3.Box(bb)
}

// Validate checks that every triangle references a valid vertex.
func (m Mesh) Validate() error {
	nv := len(m.Vertices)
	for t, tri := range m.Triangles {
		for _, v := range tri {
			if v < 0 || v >= nv {
				return fmt.Errorf("mesh: triangle %d references vertex %d of %d", t, v, nv)
			}
		}
	}
	return nil
}

// SignedVolume returns the volume enclosed by the mesh via the divergence
// theorem. It is positive for a closed mesh wound counter-clockwise with
// outward normals and negative for the reverse winding. Open meshes return
// a meaningless value.
func (m Mesh) SignedVolume() float64 {
	var vol float64
	for t := range m.Triangles {
		tri := m.Triangle3(t)
		vol += r3.Dot(tri[0], r3.Cross(tri[1], tri[2]))
	}
	return vol / 6
}

// Flipped returns a copy of the mesh with the winding order of every
// triangle reversed, turning an outward-oriented solid inside out.
// Vertex storage is shared with the receiver.
func (m Mesh) Flipped() Mesh {
	flipped := Mesh{Vertices: m.Vertices, Triangles: make([]Triangle, len(m.Triangles))}
	for t, tri := range m.Triangles {
		flipped.Triangles[t] = Triangle{tri[0], tri[2], tri[1]}
	}
	return flipped
}

// Normal returns the unit normal of the triangle following the right hand
// rule on its winding order.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if the triangle has vertices closer than tol to
// one another.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t[0], t[1], tol) ||
		d3.EqualWithin(t[1], t[2], tol) ||
		d3.EqualWithin(t[2], t[0], tol)
}

// Centroid returns the center of mass of the triangle.
func (t Triangle3) Centroid() r3.Vec {
	return r3.Scale(1./3., r3.Add(r3.Add(t[0], t[1]), t[2]))
}

// Bounds returns the axis aligned bounding box of the triangle.
func (t Triangle3) Bounds() r3.Box {
	return r3.Box{
		Min: d3.MinElem(t[0], d3.MinElem(t[1], t[2])),
		Max: d3.MaxElem(t[0], d3.MaxElem(t[1], t[2])),
	}
}
