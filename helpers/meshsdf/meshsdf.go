// Package meshsdf evaluates exact signed distances to a triangle mesh with
// per-query nearest-triangle searches over a k-d tree. It trades the dense
// grid of the sdfgen kernel for exact answers at arbitrary points, which
// makes it the natural cross-check for grid fields and a drop-in SDF3 for
// tooling that only needs sparse queries.
package meshsdf

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/sdfgen/mesh"
)

// SDF3 is an exact signed distance evaluator for a closed triangle mesh.
// Signs come from angle-weighted pseudonormals, so the mesh must be
// consistently oriented for inside/outside to be meaningful.
type SDF3 struct {
	tree  kdtree.Tree
	model *model
}

// New builds the evaluator from an indexed mesh.
func New(m mesh.Mesh) (*SDF3, error) {
	if len(m.Triangles) == 0 {
		return nil, errors.New("meshsdf: mesh has no triangles")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	mod := newModel(m)
	tree := kdtree.New(mod, true)
	return &SDF3{tree: *tree, model: mod}, nil
}

// Evaluate returns the signed distance from q to the mesh surface,
// negative inside the solid.
func (s *SDF3) Evaluate(q r3.Vec) float64 {
	nearest, dist2 := s.tree.Nearest(&kdTriangle{C: q})
	kd := nearest.(*kdTriangle)
	return kd.copySign(q, math.Sqrt(dist2))
}

// Bounds returns the bounding box of the mesh.
func (s *SDF3) Bounds() r3.Box { return s.model.bb }

// model carries the mesh with the pseudonormal data the sign computation
// needs: angle-weighted normals at vertices, sums of adjacent face normals
// at edges.
type model struct {
	bb        r3.Box
	vertices  []pseudoVertex
	triangles []kdTriangle
	// pseudo edge normals keyed by vertex index pair, lower index first.
	pseudoEdgeN map[[2]int]r3.Vec
}

type pseudoVertex struct {
	V r3.Vec
	// N is the pseudo normal weighted by the opening angle each incident
	// triangle subtends at this vertex.
	N r3.Vec
}

func newModel(m mesh.Mesh) *model {
	mod := &model{
		bb:          m.Bounds(),
		vertices:    make([]pseudoVertex, len(m.Vertices)),
		triangles:   make([]kdTriangle, len(m.Triangles)),
		pseudoEdgeN: make(map[[2]int]r3.Vec),
	}
	for i, v := range m.Vertices {
		mod.vertices[i].V = v
	}
	for t, tri := range m.Triangles {
		tri3 := m.Triangle3(t)
		norm := tri3.Normal()
		Tform := canalisTransform(tri3)
		mod.triangles[t] = kdTriangle{
			C:        tri3.Centroid(),
			N:        r3.Scale(2*math.Pi, norm),
			T:        Tform,
			InvT:     Tform.Inv(),
			Vertices: tri,
			m:        mod,
		}
		for j, vi := range tri {
			s1 := r3.Sub(tri3[j], tri3[(j+1)%3])
			s2 := r3.Sub(tri3[j], tri3[(j+2)%3])
			alpha := math.Acos(r3.Cos(s1, s2))
			mod.vertices[vi].N = r3.Add(mod.vertices[vi].N, r3.Scale(alpha, norm))

			edge := [2]int{vi, tri[(j+1)%3]}
			if edge[0] > edge[1] {
				edge[0], edge[1] = edge[1], edge[0]
			}
			mod.pseudoEdgeN[edge] = r3.Add(mod.pseudoEdgeN[edge], r3.Scale(math.Pi, norm))
		}
	}
	return mod
}

// Index returns the ith element of the list of points.
func (mod *model) Index(i int) kdtree.Comparable { return &mod.triangles[i] }

// Len returns the length of the list.
func (mod *model) Len() int { return len(mod.triangles) }

// Pivot partitions the list based on the dimension specified.
func (mod *model) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), triangles: mod.triangles}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (mod *model) Slice(start, end int) kdtree.Interface {
	sliced := *mod
	sliced.triangles = sliced.triangles[start:end]
	return &sliced
}

// Bounds implements the kdtree.Bounder interface on triangle centroids.
func (mod *model) Bounds() *kdtree.Bounding {
	min := kdTriangle{C: r3.Vec{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}}
	max := kdTriangle{C: r3.Vec{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}}
	for _, t := range mod.triangles {
		min.C = minElem(min.C, t.C)
		max.C = maxElem(max.C, t.C)
	}
	return &kdtree.Bounding{
		Min: &min,
		Max: &max,
	}
}

type kdPlane struct {
	dim       int
	triangles []kdTriangle
}

func (p kdPlane) Less(i, j int) bool {
	return p.triangles[i].Compare(&p.triangles[j], kdtree.Dim(p.dim)) < 0
}
func (p kdPlane) Swap(i, j int) {
	p.triangles[i], p.triangles[j] = p.triangles[j], p.triangles[i]
}
func (p kdPlane) Len() int {
	return len(p.triangles)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.triangles = p.triangles[start:end]
	return p
}

func minElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

func maxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}
