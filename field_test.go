package sdfgen

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewFieldErrors(t *testing.T) {
	origin := r3.Vec{}
	if _, err := NewField(V3i{0, 2, 2}, origin, 0.5); err == nil {
		t.Error("zero dimension: want error")
	}
	if _, err := NewField(V3i{2, -1, 2}, origin, 0.5); err == nil {
		t.Error("negative dimension: want error")
	}
	if _, err := NewField(V3i{2, 2, 2}, origin, 0); err == nil {
		t.Error("zero spacing: want error")
	}
	if _, err := NewField(V3i{2, 2, 2}, origin, math.NaN()); err == nil {
		t.Error("NaN spacing: want error")
	}
}

func TestFieldIndexing(t *testing.T) {
	f, err := NewField(V3i{3, 4, 5}, r3.Vec{X: 1, Y: 2, Z: 3}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	f.set(2, 3, 4, 42)
	if got := f.At(2, 3, 4); got != 42 {
		t.Errorf("At(2,3,4) = %g, want 42", got)
	}
	// i is the fastest-varying index in the flat buffer.
	if got := f.Data()[2+3*(3+4*4)]; got != 42 {
		t.Errorf("flat buffer value = %g, want 42", got)
	}
	if p := f.Pos(2, 0, 4); p != (r3.Vec{X: 2, Y: 2, Z: 5}) {
		t.Errorf("Pos(2,0,4) = %v", p)
	}
	bb := f.Bounds()
	if bb.Min != (r3.Vec{X: 1, Y: 2, Z: 3}) || bb.Max != (r3.Vec{X: 2, Y: 3.5, Z: 5}) {
		t.Errorf("Bounds() = %v", bb)
	}
	defer func() {
		if recover() == nil {
			t.Error("out of range At did not panic")
		}
	}()
	f.At(3, 0, 0)
}

func TestFieldMinMax(t *testing.T) {
	f, _ := NewField(V3i{2, 2, 2}, r3.Vec{}, 1)
	copy(f.Data(), []float32{3, -1, 4, -1, 5, -9, 2, 6})
	min, max := f.MinMax()
	if min != -9 || max != 6 {
		t.Errorf("MinMax() = (%g,%g), want (-9,6)", min, max)
	}
}

func TestFieldEvaluate(t *testing.T) {
	const tol = 1e-12
	// Field sampled from a linear function is reproduced exactly by
	// trilinear interpolation.
	f, err := NewField(V3i{4, 4, 4}, r3.Vec{X: -1, Y: -1, Z: -1}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	lin := func(p r3.Vec) float64 { return 2*p.X - 3*p.Y + 0.5*p.Z + 1 }
	dims := f.Dims()
	for k := 0; k < dims[2]; k++ {
		for j := 0; j < dims[1]; j++ {
			for i := 0; i < dims[0]; i++ {
				f.set(i, j, k, float32(lin(f.Pos(i, j, k))))
			}
		}
	}
	for _, p := range []r3.Vec{
		{X: -1, Y: -1, Z: -1},          // grid node
		{X: -0.75, Y: -0.25, Z: 0.1},   // cell interior
		{X: 0.5, Y: 0.5, Z: 0.5},       // far corner node
	} {
		if got, want := f.Evaluate(p), lin(p); math.Abs(got-want) > 1e-6 {
			t.Errorf("Evaluate(%v) = %g, want %g", p, got, want)
		}
	}
	// Positions outside the grid clamp to the boundary value.
	inside := f.Evaluate(r3.Vec{X: 0.5, Y: 0, Z: 0})
	if got := f.Evaluate(r3.Vec{X: 99, Y: 0, Z: 0}); math.Abs(got-inside) > tol {
		t.Errorf("clamped Evaluate = %g, want boundary value %g", got, inside)
	}
}
