package sdfgen

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/sdfgen/mesh"
)

// unitCube returns a closed unit cube [0,1]^3 with 12 outward-oriented
// triangles.
func unitCube() mesh.Mesh {
	return mesh.Mesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Triangles: []mesh.Triangle{
			{0, 2, 1}, {0, 3, 2}, // bottom, -z
			{4, 5, 6}, {4, 6, 7}, // top, +z
			{0, 1, 5}, {0, 5, 4}, // front, -y
			{2, 3, 7}, {2, 7, 6}, // back, +y
			{0, 4, 7}, {0, 7, 3}, // left, -x
			{1, 2, 6}, {1, 6, 5}, // right, +x
		},
	}
}

// cubeParms reproduces the canonical scenario: unit cube, dx=0.1,
// 2 cells of padding, yielding a 14x14x14 grid with origin (-0.2,-0.2,-0.2).
func cubeParms() LevelSetParms {
	return LevelSetParms{
		Origin: r3.Vec{X: -0.2, Y: -0.2, Z: -0.2},
		Dx:     0.1,
		Dims:   V3i{14, 14, 14},
	}
}

func TestLevelSetCube(t *testing.T) {
	phi, err := MakeLevelSet3(unitCube(), cubeParms())
	if err != nil {
		t.Fatal(err)
	}
	// Node (7,7,7) lands exactly on the cube centroid (0.5,0.5,0.5).
	center := phi.At(7, 7, 7)
	if center >= 0 {
		t.Errorf("cube centroid not inside: got %g", center)
	}
	if math32.Abs(center+0.5) > 0.05 {
		t.Errorf("cube centroid distance got %g, want about -0.5", center)
	}
	// Node (2,2,2) lands exactly on mesh vertex (0,0,0).
	if d := math32.Abs(phi.At(2, 2, 2)); d > 1e-6 {
		t.Errorf("node on mesh vertex has distance %g, want 0", d)
	}
	// Far corner of the grid is well outside.
	if v := phi.At(0, 0, 0); v <= 0 {
		t.Errorf("grid corner not outside: got %g", v)
	}
	// No node is left at the far-field sentinel.
	dims := phi.Dims()
	sentinel := float32(float64(dims[0]+dims[1]+dims[2]) * phi.Spacing())
	for n, v := range phi.Data() {
		if math32.Abs(v) >= sentinel {
			t.Fatalf("node %d left uninitialized: %g", n, v)
		}
	}
}

// boxSDF is the analytic signed distance to the cube [0,1]^3.
func boxSDF(p r3.Vec) float64 {
	q := r3.Vec{
		X: math.Abs(p.X-0.5) - 0.5,
		Y: math.Abs(p.Y-0.5) - 0.5,
		Z: math.Abs(p.Z-0.5) - 0.5,
	}
	outside := r3.Norm(r3.Vec{
		X: math.Max(q.X, 0),
		Y: math.Max(q.Y, 0),
		Z: math.Max(q.Z, 0),
	})
	inside := math.Min(math.Max(q.X, math.Max(q.Y, q.Z)), 0)
	return outside + inside
}

func TestLevelSetMatchesAnalyticCube(t *testing.T) {
	// The swept far field must agree with the analytic cube distance at
	// every node, not just inside the narrow band.
	const tol = 1e-4
	phi, err := MakeLevelSet3(unitCube(), cubeParms())
	if err != nil {
		t.Fatal(err)
	}
	dims := phi.Dims()
	mismatches := 0
	for k := 0; k < dims[2]; k++ {
		for j := 0; j < dims[1]; j++ {
			for i := 0; i < dims[0]; i++ {
				got := float64(phi.At(i, j, k))
				want := boxSDF(phi.Pos(i, j, k))
				if math.Abs(got-want) > tol {
					mismatches++
					t.Errorf("node (%d,%d,%d): got %g, want %g", i, j, k, got, want)
				}
				if mismatches > 10 {
					t.Fatal("too many mismatches")
				}
			}
		}
	}
}

func TestLevelSetWindingFlip(t *testing.T) {
	// Reversing every triangle turns the solid inside out: every node's
	// sign flips while magnitudes are unchanged.
	const tol = 1e-4
	cube := unitCube()
	phi, err := MakeLevelSet3(cube, cubeParms())
	if err != nil {
		t.Fatal(err)
	}
	flipped, err := MakeLevelSet3(cube.Flipped(), cubeParms())
	if err != nil {
		t.Fatal(err)
	}
	a, b := phi.Data(), flipped.Data()
	for n := range a {
		if math32.Abs(a[n]+b[n]) > tol {
			t.Fatalf("node %d: %g and %g are not sign-flipped copies", n, a[n], b[n])
		}
	}
}

func TestLevelSetSweepFixedPoint(t *testing.T) {
	// Additional sweep passes beyond convergence never change a value.
	p := cubeParms()
	p.SweepPasses = 4
	a, err := MakeLevelSet3(unitCube(), p)
	if err != nil {
		t.Fatal(err)
	}
	p.SweepPasses = 8
	b, err := MakeLevelSet3(unitCube(), p)
	if err != nil {
		t.Fatal(err)
	}
	for n := range a.Data() {
		if a.Data()[n] != b.Data()[n] {
			t.Fatalf("node %d changed between pass 4 and 8: %g != %g", n, a.Data()[n], b.Data()[n])
		}
	}
}

func TestLevelSetMonotonicAlongRay(t *testing.T) {
	const eps = 1e-6
	phi, err := MakeLevelSet3(unitCube(), cubeParms())
	if err != nil {
		t.Fatal(err)
	}
	// Walking from the -x grid boundary to the cube face at i=2, all
	// nodes are outside and distance must not increase.
	prev := phi.At(0, 7, 7)
	for i := 1; i <= 2; i++ {
		v := phi.At(i, 7, 7)
		if v > prev+eps {
			t.Errorf("outside walk: distance grew from %g to %g at i=%d", prev, v, i)
		}
		prev = v
	}
	// Walking from the centroid towards the +x face, all nodes are
	// inside and |distance| must not increase.
	prev = math32.Abs(phi.At(7, 7, 7))
	for i := 8; i <= 12; i++ {
		v := math32.Abs(phi.At(i, 7, 7))
		if v > prev+eps {
			t.Errorf("inside walk: |distance| grew from %g to %g at i=%d", prev, v, i)
		}
		prev = v
	}
}

func TestLevelSetOpenMesh(t *testing.T) {
	// A single flat triangle is not a closed mesh: signs are
	// out-of-contract, but unsigned distances must still be correct.
	const tol = 1e-6
	tri := mesh.Mesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0.5},
			{X: 1, Y: 0, Z: 0.5},
			{X: 0, Y: 1, Z: 0.5},
		},
		Triangles: []mesh.Triangle{{0, 1, 2}},
	}
	phi, err := MakeLevelSet3(tri, LevelSetParms{
		Origin: r3.Vec{X: -0.2, Y: -0.2, Z: 0},
		Dx:     0.1,
		Dims:   V3i{14, 14, 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	dims := phi.Dims()
	for k := 0; k < dims[2]; k++ {
		for j := 0; j < dims[1]; j++ {
			for i := 0; i < dims[0]; i++ {
				want, _ := pointTriangleDistance(phi.Pos(i, j, k),
					tri.Vertices[0], tri.Vertices[1], tri.Vertices[2])
				got := float64(math32.Abs(phi.At(i, j, k)))
				if math.Abs(got-want) > tol {
					t.Fatalf("node (%d,%d,%d): unsigned distance got %g, want %g", i, j, k, got, want)
				}
			}
		}
	}
}

func TestMakeLevelSet3Errors(t *testing.T) {
	cube := unitCube()
	if _, err := MakeLevelSet3(mesh.Mesh{}, cubeParms()); err == nil {
		t.Error("empty mesh: want error")
	}
	p := cubeParms()
	p.Dims = V3i{0, 14, 14}
	if _, err := MakeLevelSet3(cube, p); err == nil {
		t.Error("zero dimension: want error")
	}
	p = cubeParms()
	p.Dx = -1
	if _, err := MakeLevelSet3(cube, p); err == nil {
		t.Error("negative spacing: want error")
	}
}
