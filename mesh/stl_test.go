package mesh

import (
	"path/filepath"
	"testing"

	"github.com/fogleman/fauxgl"
	"github.com/stretchr/testify/assert"
)

func TestReadSTLWeldsVertices(t *testing.T) {
	// Two triangles sharing an edge: the STL triangle soup carries six
	// vertex records, the welded mesh only four.
	fm := fauxgl.NewTriangleMesh([]*fauxgl.Triangle{
		fauxgl.NewTriangleForPoints(fauxgl.V(0, 0, 0), fauxgl.V(1, 0, 0), fauxgl.V(0, 1, 0)),
		fauxgl.NewTriangleForPoints(fauxgl.V(1, 0, 0), fauxgl.V(1, 1, 0), fauxgl.V(0, 1, 0)),
	})
	path := filepath.Join(t.TempDir(), "quad.stl")
	assert.NoError(t, fauxgl.SaveSTL(path, fm))

	m, err := ReadSTL(path)
	assert.NoError(t, err)
	assert.Len(t, m.Triangles, 2)
	assert.Len(t, m.Vertices, 4)
	assert.NoError(t, m.Validate())
	// Shared edge endpoints resolve to the same indices in both triangles.
	assert.Equal(t, m.Triangles[0][1], m.Triangles[1][0])
	assert.Equal(t, m.Triangles[0][2], m.Triangles[1][2])
}

func TestReadSTLMissingFile(t *testing.T) {
	_, err := ReadSTL("does-not-exist.stl")
	assert.Error(t, err)
}
