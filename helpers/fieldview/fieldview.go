// Package fieldview renders quick-look diagnostics for distance fields and
// their input meshes: heatmap images of field slices and shaded previews of
// triangle meshes.
package fieldview

import (
	"fmt"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/soypat/sdfgen"
	"github.com/soypat/sdfgen/mesh"
)

// SaveSlicePNG plots the k-th constant-z slice of the field as a heatmap
// and saves it to path. Negative (inside) values map to blue, positive to
// red, with white pinned at the zero level set.
func SaveSlicePNG(path string, f *sdfgen.Field, k int) error {
	dims := f.Dims()
	if k < 0 || k >= dims[2] {
		return fmt.Errorf("fieldview: slice %d out of range [0,%d)", k, dims[2])
	}
	min, max := f.MinMax()
	lim := float64(max)
	if m := float64(-min); m > lim {
		lim = m
	}
	if lim == 0 {
		lim = 1 // constant zero field still renders
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-lim)
	cm.SetMax(lim)
	hm := plotter.NewHeatMap(slice{f: f, k: k}, cm.Palette(256))
	hm.Min = -lim
	hm.Max = lim

	p := plot.New()
	p.Title.Text = fmt.Sprintf("signed distance, slice k=%d", k)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(hm)
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// slice adapts one constant-z plane of a Field to plotter.GridXYZ.
type slice struct {
	f *sdfgen.Field
	k int
}

func (s slice) Dims() (c, r int) {
	dims := s.f.Dims()
	return dims[0], dims[1]
}

func (s slice) Z(c, r int) float64 { return float64(s.f.At(c, r, s.k)) }

func (s slice) X(c int) float64 { return s.f.Pos(c, 0, s.k).X }

func (s slice) Y(r int) float64 { return s.f.Pos(0, r, s.k).Y }

// ViewConfig positions the camera for mesh previews.
type ViewConfig struct {
	Up     r3.Vec
	Eyepos r3.Vec
	Lookat r3.Vec
	Near   float64
	Far    float64
}

// SaveMeshPNG renders a shaded preview of the mesh to a PNG file. The mesh
// is normalized to a bi-unit cube centered at the origin before rendering,
// so Eyepos and Lookat are in normalized coordinates.
func SaveMeshPNG(path string, m mesh.Mesh, view ViewConfig) error {
	triangles := make([]*fauxgl.Triangle, 0, len(m.Triangles))
	for t := range m.Triangles {
		t3 := m.Triangle3(t)
		triangles = append(triangles, fauxgl.NewTriangleForPoints(
			fauxglVec(t3[0]), fauxglVec(t3[1]), fauxglVec(t3[2])))
	}
	fm := fauxgl.NewTriangleMesh(triangles)

	const (
		width, height = 1920, 1080 // output width and height in pixels
		scale         = 1          // optional supersampling
		fovy          = 30         // vertical field of view in degrees
	)
	var (
		eye    = fauxglVec(view.Eyepos)              // camera position
		center = fauxglVec(view.Lookat)              // view center position
		up     = fauxglVec(view.Up)                  // up vector
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize() // light direction
		color  = fauxgl.HexColor("#468966")           // object color
	)

	// fit mesh in a bi-unit cube centered at the origin
	fm.BiUnitCube()
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(fm)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(width, height, image, resize.Bilinear)
	return fauxgl.SavePNG(path, image)
}

func fauxglVec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
