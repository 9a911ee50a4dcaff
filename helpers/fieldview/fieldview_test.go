package fieldview_test

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/sdfgen"
	"github.com/soypat/sdfgen/helpers/fieldview"
	"github.com/soypat/sdfgen/mesh"
)

func TestSaveSlicePNG(t *testing.T) {
	f, err := sdfgen.NewField(sdfgen.V3i{8, 8, 3}, r3.Vec{}, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	data := f.Data()
	for n := range data {
		data[n] = float32(n%8) - 3.5 // sign change across the slice
	}
	path := filepath.Join(t.TempDir(), "slice.png")
	if err := fieldview.SaveSlicePNG(path, f, 1); err != nil {
		t.Fatal(err)
	}
	decodePNG(t, path)

	if err := fieldview.SaveSlicePNG(path, f, 3); err == nil {
		t.Error("slice out of range: want error")
	}
}

func TestSaveMeshPNG(t *testing.T) {
	m := mesh.Mesh{
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
		Triangles: []mesh.Triangle{
			{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3},
		},
	}
	path := filepath.Join(t.TempDir(), "mesh.png")
	err := fieldview.SaveMeshPNG(path, m, fieldview.ViewConfig{
		Up:     r3.Vec{Z: 1},
		Eyepos: r3.Vec{X: 3, Y: 3, Z: 3},
		Near:   1,
		Far:    10,
	})
	if err != nil {
		t.Fatal(err)
	}
	img := decodePNG(t, path)
	if img.Bounds().Dx() != 1920 || img.Bounds().Dy() != 1080 {
		t.Errorf("preview size got %v, want 1920x1080", img.Bounds())
	}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	fp, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	img, err := png.Decode(fp)
	if err != nil {
		t.Fatalf("%s is not a valid PNG: %v", path, err)
	}
	return img
}
