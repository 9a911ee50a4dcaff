/*
Package sdfgen converts closed, oriented triangle meshes into exact signed
distance fields sampled on regular 3D grids.

Distances are computed exactly against nearby triangles on a narrow band of
grid nodes, propagated to the rest of the grid with a fast sweeping method,
and signed with a three-axis ray crossing parity test. The result is a dense
Field, negative inside the solid and positive outside:

	m, _, err := mesh.ReadOBJ("bunny.obj")
	if err != nil {
		return err
	}
	f, err := sdfgen.MakeLevelSet3(m, sdfgen.LevelSetParms{
		Origin: bb.Min,
		Dx:     0.01,
		Dims:   sdfgen.V3i{128, 128, 128},
	})

See the mesh package for input formats and the sdfio package for writers.
*/
package sdfgen
