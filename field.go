package sdfgen

import (
	"math"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// Field is a dense scalar field sampled on a regular 3D grid.
// A grid node (i,j,k) is located at Origin + Spacing*(i,j,k) in world space.
// Values are stored as float32, matching the resolution signed distance
// fields are typically consumed at, in ascending order of i, then j, then k.
type Field struct {
	dims   V3i
	origin r3.Vec
	dx     float64
	data   []float32
}

// NewField allocates a zeroed field of the given dimensions. All dimensions
// must be positive and spacing dx must be greater than zero.
func NewField(dims V3i, origin r3.Vec, dx float64) (*Field, error) {
	if dims[0] <= 0 || dims[1] <= 0 || dims[2] <= 0 {
		return nil, errBadDims
	}
	if dx <= 0 || math.IsNaN(dx) {
		return nil, errBadSpacing
	}
	return &Field{
		dims:   dims,
		origin: origin,
		dx:     dx,
		data:   make([]float32, dims[0]*dims[1]*dims[2]),
	}, nil
}

// Dims returns the grid dimensions (ni,nj,nk).
func (f *Field) Dims() V3i { return f.dims }

// Origin returns the world position of grid node (0,0,0).
func (f *Field) Origin() r3.Vec { return f.origin }

// Spacing returns the uniform grid cell spacing.
func (f *Field) Spacing() float64 { return f.dx }

// Data returns the underlying flat buffer in ascending order of
// i (fastest), then j, then k. The slice aliases the field storage.
func (f *Field) Data() []float32 { return f.data }

// At returns the field value at grid node (i,j,k).
func (f *Field) At(i, j, k int) float32 {
	return f.data[f.idx(i, j, k)]
}

// Pos returns the world position of grid node (i,j,k).
func (f *Field) Pos(i, j, k int) r3.Vec {
	return r3.Add(f.origin, r3.Scale(f.dx, V3i{i, j, k}.ToV3()))
}

// Bounds returns the world-space box spanned by the grid nodes.
func (f *Field) Bounds() r3.Box {
	return r3.Box{
		Min: f.origin,
		Max: f.Pos(f.dims[0]-1, f.dims[1]-1, f.dims[2]-1),
	}
}

// MinMax returns the minimum and maximum values stored in the field.
func (f *Field) MinMax() (min, max float32) {
	min = math32.Inf(1)
	max = math32.Inf(-1)
	for _, v := range f.data {
		min = math32.Min(min, v)
		max = math32.Max(max, v)
	}
	return min, max
}

// Evaluate returns the field value at an arbitrary world position using
// trilinear interpolation between the surrounding grid nodes. Positions
// outside the grid are clamped to the boundary nodes. Together with Bounds
// this lets a Field stand in wherever an SDF3 is expected.
func (f *Field) Evaluate(p r3.Vec) float64 {
	u := r3.Scale(1/f.dx, r3.Sub(p, f.origin))
	i, fi := cellCoord(u.X, f.dims[0])
	j, fj := cellCoord(u.Y, f.dims[1])
	k, fk := cellCoord(u.Z, f.dims[2])
	// Single-node dimensions have no upper cell node.
	i1 := clampInt(i+1, 0, f.dims[0]-1)
	j1 := clampInt(j+1, 0, f.dims[1]-1)
	k1 := clampInt(k+1, 0, f.dims[2]-1)

	c000 := float64(f.At(i, j, k))
	c100 := float64(f.At(i1, j, k))
	c010 := float64(f.At(i, j1, k))
	c110 := float64(f.At(i1, j1, k))
	c001 := float64(f.At(i, j, k1))
	c101 := float64(f.At(i1, j, k1))
	c011 := float64(f.At(i, j1, k1))
	c111 := float64(f.At(i1, j1, k1))

	c00 := c000 + fi*(c100-c000)
	c10 := c010 + fi*(c110-c010)
	c01 := c001 + fi*(c101-c001)
	c11 := c011 + fi*(c111-c011)
	c0 := c00 + fj*(c10-c00)
	c1 := c01 + fj*(c11-c01)
	return c0 + fk*(c1-c0)
}

// cellCoord splits a continuous grid coordinate into a cell index with a
// valid (index, index+1) node pair and the fractional offset within the cell.
func cellCoord(u float64, n int) (int, float64) {
	if n == 1 {
		return 0, 0
	}
	i := int(math.Floor(u))
	if i < 0 {
		return 0, 0
	}
	if i > n-2 {
		return n - 2, 1
	}
	return i, u - float64(i)
}

// idx maps grid node (i,j,k) to its flat buffer offset.
func (f *Field) idx(i, j, k int) int {
	if i < 0 || j < 0 || k < 0 || i >= f.dims[0] || j >= f.dims[1] || k >= f.dims[2] {
		panic("sdfgen: grid index out of range")
	}
	return i + f.dims[0]*(j+f.dims[1]*k)
}

func (f *Field) set(i, j, k int, v float32) {
	f.data[f.idx(i, j, k)] = v
}

// gridI32 is a dense 3D int32 grid used for transient bookkeeping during
// level set construction: closest-triangle references and ray crossing counts.
type gridI32 struct {
	ni, nj, nk int
	a          []int32
}

func newGridI32(ni, nj, nk int, fill int32) *gridI32 {
	g := &gridI32{ni: ni, nj: nj, nk: nk, a: make([]int32, ni*nj*nk)}
	if fill != 0 {
		for i := range g.a {
			g.a[i] = fill
		}
	}
	return g
}

func (g *gridI32) at(i, j, k int) int32     { return g.a[i+g.ni*(j+g.nj*k)] }
func (g *gridI32) set(i, j, k int, v int32) { g.a[i+g.ni*(j+g.nj*k)] = v }
func (g *gridI32) inc(i, j, k int)          { g.a[i+g.ni*(j+g.nj*k)]++ }
