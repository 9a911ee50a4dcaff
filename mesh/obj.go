package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Wavefront OBJ reading. Only `v` and `f` lines participate; everything
// else (normals, texture coordinates, comments, groups) is counted and
// ignored. Face indices are 1-based in the file and normalized to 0-based.

// DecodeOBJ reads a triangle mesh in Wavefront OBJ text format.
// It returns the mesh and the number of lines ignored because they
// declared neither a vertex nor a face. Quad and polygon faces are
// rejected: the level set kernel consumes triangles only.
func DecodeOBJ(r io.Reader) (Mesh, int, error) {
	var (
		m       Mesh
		ignored int
		lineno  int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			ignored++
			continue
		}
		switch tokens[0] {
		case "v":
			if len(tokens) < 4 {
				return Mesh{}, ignored, fmt.Errorf("obj line %d: vertex needs 3 coordinates: %q", lineno, line)
			}
			var coord [3]float64
			for i := 0; i < 3; i++ {
				c, err := strconv.ParseFloat(tokens[1+i], 64)
				if err != nil {
					return Mesh{}, ignored, fmt.Errorf("obj line %d: %w", lineno, err)
				}
				coord[i] = c
			}
			m.Vertices = append(m.Vertices, r3.Vec{X: coord[0], Y: coord[1], Z: coord[2]})

		case "f":
			if len(tokens) != 4 {
				return Mesh{}, ignored, fmt.Errorf("obj line %d: only triangle faces supported: %q", lineno, line)
			}
			var tri Triangle
			for i := 0; i < 3; i++ {
				// Strip texture/normal attributes: `f 1/2/3 ...` uses
				// only the leading vertex index.
				idx := tokens[1+i]
				if slash := strings.IndexByte(idx, '/'); slash >= 0 {
					idx = idx[:slash]
				}
				v, err := strconv.Atoi(idx)
				if err != nil {
					return Mesh{}, ignored, fmt.Errorf("obj line %d: %w", lineno, err)
				}
				tri[i] = v - 1
			}
			m.Triangles = append(m.Triangles, tri)

		default:
			ignored++
		}
	}
	if err := scanner.Err(); err != nil {
		return Mesh{}, ignored, err
	}
	if err := m.Validate(); err != nil {
		return Mesh{}, ignored, err
	}
	return m, ignored, nil
}

// ReadOBJ reads a triangle mesh from an OBJ file on disk. See DecodeOBJ.
func ReadOBJ(path string) (Mesh, int, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Mesh{}, 0, err
	}
	defer fp.Close()
	return DecodeOBJ(fp)
}
