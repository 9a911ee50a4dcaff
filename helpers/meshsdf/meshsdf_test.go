package meshsdf_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/sdfgen/helpers/meshsdf"
	"github.com/soypat/sdfgen/mesh"
)

func unitCube() mesh.Mesh {
	return mesh.Mesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Triangles: []mesh.Triangle{
			{0, 2, 1}, {0, 3, 2},
			{4, 5, 6}, {4, 6, 7},
			{0, 1, 5}, {0, 5, 4},
			{2, 3, 7}, {2, 7, 6},
			{0, 4, 7}, {0, 7, 3},
			{1, 2, 6}, {1, 6, 5},
		},
	}
}

func TestEvaluateCube(t *testing.T) {
	const tol = 1e-7
	s, err := meshsdf.New(unitCube())
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		name string
		q    r3.Vec
		want float64
	}{
		{"center", r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}, -0.5},
		{"inside near face", r3.Vec{X: 0.9, Y: 0.5, Z: 0.5}, -0.1},
		{"outside face", r3.Vec{X: 1.5, Y: 0.5, Z: 0.5}, 0.5},
		{"outside edge", r3.Vec{X: -0.3, Y: -0.4, Z: 0.5}, 0.5},
		{"outside corner", r3.Vec{X: -1, Y: -1, Z: -1}, math.Sqrt(3)},
		{"outside far corner", r3.Vec{X: 1.2, Y: 1.3, Z: 1.4}, math.Sqrt(0.29)},
		{"on surface", r3.Vec{X: 1, Y: 0.5, Z: 0.5}, 0},
	} {
		if got := s.Evaluate(tc.q); math.Abs(got-tc.want) > tol {
			t.Errorf("%s: Evaluate(%v) = %g, want %g", tc.name, tc.q, got, tc.want)
		}
	}
}

func TestEvaluateFlippedCube(t *testing.T) {
	const tol = 1e-7
	s, err := meshsdf.New(unitCube().Flipped())
	if err != nil {
		t.Fatal(err)
	}
	// Reversed winding turns the solid inside out.
	if got := s.Evaluate(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}); math.Abs(got-0.5) > tol {
		t.Errorf("center of flipped cube: got %g, want 0.5", got)
	}
	if got := s.Evaluate(r3.Vec{X: 1.5, Y: 0.5, Z: 0.5}); math.Abs(got+0.5) > tol {
		t.Errorf("outside flipped cube: got %g, want -0.5", got)
	}
	if got := s.Evaluate(r3.Vec{X: -1, Y: -1, Z: -1}); math.Abs(got+math.Sqrt(3)) > tol {
		t.Errorf("corner of flipped cube: got %g, want %g", got, -math.Sqrt(3))
	}
}

func TestBounds(t *testing.T) {
	s, err := meshsdf.New(unitCube())
	if err != nil {
		t.Fatal(err)
	}
	bb := s.Bounds()
	if bb.Min != (r3.Vec{}) || bb.Max != (r3.Vec{X: 1, Y: 1, Z: 1}) {
		t.Errorf("bounds got %v, want unit cube", bb)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := meshsdf.New(mesh.Mesh{}); err == nil {
		t.Error("empty mesh: want error")
	}
	bad := unitCube()
	bad.Triangles[0][0] = 99
	if _, err := meshsdf.New(bad); err == nil {
		t.Error("out of range vertex index: want error")
	}
}
