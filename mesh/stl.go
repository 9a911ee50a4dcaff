package mesh

import (
	"github.com/fogleman/fauxgl"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadSTL reads a triangle mesh from an STL file (binary or ASCII).
// STL files carry triangle soup with no shared vertex indices; vertices at
// bit-identical positions are welded so the result is a proper indexed mesh
// with connectivity, which the crossing-count parity test relies on.
func ReadSTL(path string) (Mesh, error) {
	fm, err := fauxgl.LoadSTL(path)
	if err != nil {
		return Mesh{}, err
	}
	return fromFauxgl(fm), nil
}

func fromFauxgl(fm *fauxgl.Mesh) Mesh {
	m := Mesh{
		Vertices:  make([]r3.Vec, 0, 3*len(fm.Triangles)/2),
		Triangles: make([]Triangle, 0, len(fm.Triangles)),
	}
	welded := make(map[r3.Vec]int)
	index := func(v fauxgl.Vector) int {
		p := r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
		if i, ok := welded[p]; ok {
			return i
		}
		i := len(m.Vertices)
		welded[p] = i
		m.Vertices = append(m.Vertices, p)
		return i
	}
	for _, t := range fm.Triangles {
		tri := Triangle{
			index(t.V1.Position),
			index(t.V2.Position),
			index(t.V3.Position),
		}
		// Welding can collapse slivers to repeated indices. Keep them:
		// the distance kernel treats them as segments or points.
		m.Triangles = append(m.Triangles, tri)
	}
	return m
}
