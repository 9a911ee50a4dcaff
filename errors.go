package sdfgen

import "errors"

var (
	errBadDims    = errors.New("sdfgen: grid dimensions must be positive")
	errBadSpacing = errors.New("sdfgen: grid spacing must be positive")
	errEmptyMesh  = errors.New("sdfgen: mesh has no triangles")
)
