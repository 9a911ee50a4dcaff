// Command sdfgen converts closed triangle meshes into grid-based signed
// distance fields.
//
// The output file format is:
//
//	<ni> <nj> <nk>
//	<origin_x> <origin_y> <origin_z>
//	<dx>
//	<value_1> <value_2> <value_3> [...]
//
// (ni,nj,nk) are the integer dimensions of the resulting distance field.
// (origin_x,origin_y,origin_z) is the 3D position of the grid origin.
// <dx> is the grid spacing. <value_n> are the signed distance data values,
// in ascending order of i, then j, then k. The output filename matches the
// input with the mesh suffix replaced by .sdf (or .vti with -vti).
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/gcfg.v1"

	"github.com/soypat/sdfgen"
	"github.com/soypat/sdfgen/helpers/fieldview"
	"github.com/soypat/sdfgen/internal/d3"
	"github.com/soypat/sdfgen/mesh"
	"github.com/soypat/sdfgen/sdfio"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `sdfgen - converts closed oriented triangle meshes into grid-based signed distance fields.

Usage: sdfgen [flags] <filename> <dx> <padding>

Where:
	<filename> is a Wavefront OBJ (.obj) or STL (.stl) triangle mesh.
	<dx> is the length of a grid cell in the resulting distance field.
	<padding> is the number of cells of padding between the mesh bounding
	box and the grid boundary. Minimum is 1.

A batch of conversions can be described in a gcfg configuration file:

	[job "bunny"]
	input = bunny.obj
	dx = 0.01
	padding = 2
	format = vti

and run with: sdfgen -config jobs.cfg

Flags:
`)
	flag.PrintDefaults()
}

// job is one mesh-to-field conversion, either from the command line or a
// [job "name"] config section.
type job struct {
	Input   string
	Dx      float64
	Padding int
	Format  string // "sdf" (default) or "vti"
}

type config struct {
	Job map[string]*job
}

func main() {
	log.SetFlags(0)
	var (
		vti        = flag.Bool("vti", false, "write a VTK ImageData (.vti) volume instead of the .sdf text format")
		configPath = flag.String("config", "", "gcfg configuration file describing a batch of conversion jobs")
		preview    = flag.String("preview", "", "write a shaded PNG preview of the input mesh to this path")
		slicePNG   = flag.String("slice", "", "write a heatmap PNG of the field's middle z-slice to this path")
		band       = flag.Int("band", 1, "width in cells of the exactly-computed narrow band around the surface")
	)
	flag.Usage = usage
	flag.Parse()

	if *configPath != "" {
		var cfg config
		if err := gcfg.ReadFileInto(&cfg, *configPath); err != nil {
			log.Fatal(err)
		}
		if len(cfg.Job) == 0 {
			log.Fatalf("no [job] sections in %s", *configPath)
		}
		for name, j := range cfg.Job {
			log.Printf("job %q: converting %s", name, j.Input)
			if err := convert(*j, *band, "", ""); err != nil {
				log.Fatalf("job %q: %v", name, err)
			}
		}
		return
	}

	args := flag.Args()
	if len(args) != 3 {
		usage()
		os.Exit(1)
	}
	dx, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		log.Fatalf("bad dx %q: %v", args[1], err)
	}
	padding, err := strconv.Atoi(args[2])
	if err != nil {
		log.Fatalf("bad padding %q: %v", args[2], err)
	}
	j := job{Input: args[0], Dx: dx, Padding: padding}
	if *vti {
		j.Format = "vti"
	}
	if err := convert(j, *band, *preview, *slicePNG); err != nil {
		log.Fatal(err)
	}
}

// outputName replaces the input's mesh suffix, whatever its case, with the
// extension of the chosen output format.
func outputName(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if format == "vti" {
		return base + ".vti"
	}
	return base + ".sdf"
}

// convert runs the whole pipeline for one mesh: read, size the grid from
// the padded bounding box, compute the level set and write the result.
// Input validation happens here, before the computation starts.
func convert(j job, band int, preview, slicePNG string) error {
	if j.Dx <= 0 {
		return fmt.Errorf("dx must be positive, got %g", j.Dx)
	}
	if j.Padding < 1 {
		j.Padding = 1
	}
	switch j.Format {
	case "", "sdf", "vti":
	default:
		return fmt.Errorf("unknown output format %q", j.Format)
	}

	log.Println("Reading data.")
	ext := strings.ToLower(filepath.Ext(j.Input))
	var (
		m       mesh.Mesh
		ignored int
		err     error
	)
	switch ext {
	case ".obj":
		m, ignored, err = mesh.ReadOBJ(j.Input)
	case ".stl":
		m, err = mesh.ReadSTL(j.Input)
	default:
		return fmt.Errorf("expected mesh file with suffix .obj or .stl, got %q", j.Input)
	}
	if err != nil {
		return err
	}
	if ignored > 0 {
		log.Printf("Warning: %d lines were ignored since they did not contain faces or vertices.", ignored)
	}
	log.Printf("Read in %d vertices and %d faces.", len(m.Vertices), len(m.Triangles))

	// Pad the bounding box and size the grid from it.
	pad := float64(j.Padding) * j.Dx
	bb := d3.Box(m.Bounds())
	bb.Min = r3.Sub(bb.Min, d3.Elem(pad))
	bb.Max = r3.Add(bb.Max, d3.Elem(pad))
	size := bb.Size()
	dims := sdfgen.V3i{
		int(math.Round(size.X / j.Dx)),
		int(math.Round(size.Y / j.Dx)),
		int(math.Round(size.Z / j.Dx)),
	}
	log.Printf("Bound box size: (%g %g %g) to (%g %g %g) with dimensions %v.",
		bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z, dims)

	log.Println("Computing signed distance field.")
	phi, err := sdfgen.MakeLevelSet3(m, sdfgen.LevelSetParms{
		Origin:    bb.Min,
		Dx:        j.Dx,
		Dims:      dims,
		ExactBand: band,
	})
	if err != nil {
		return err
	}

	outname := outputName(j.Input, j.Format)
	log.Printf("Writing results to: %s", outname)
	if j.Format == "vti" {
		err = sdfio.EncodeVTIFile(outname, phi)
	} else {
		err = sdfio.EncodeFile(outname, phi)
	}
	if err != nil {
		return err
	}

	if preview != "" {
		err = fieldview.SaveMeshPNG(preview, m, fieldview.ViewConfig{
			Up:     r3.Vec{Z: 1},
			Eyepos: d3.Elem(3),
			Near:   1,
			Far:    10,
		})
		if err != nil {
			return err
		}
		log.Printf("Wrote mesh preview to: %s", preview)
	}
	if slicePNG != "" {
		if err = fieldview.SaveSlicePNG(slicePNG, phi, dims[2]/2); err != nil {
			return err
		}
		log.Printf("Wrote field slice to: %s", slicePNG)
	}
	log.Println("Processing complete.")
	return nil
}
