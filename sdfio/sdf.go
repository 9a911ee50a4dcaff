// Package sdfio reads and writes sampled distance fields. The native `.sdf`
// plain-text layout is
//
//	ni nj nk
//	origin_x origin_y origin_z
//	dx
//	value value value ...
//
// with one value per line in ascending order of i (fastest), then j, then k.
// A VTK XML ImageData (`.vti`) writer is provided for volumetric viewers.
package sdfio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/sdfgen"
)

// Encode writes the field to w in `.sdf` plain-text format.
func Encode(w io.Writer, f *sdfgen.Field) error {
	bw := bufio.NewWriter(w)
	dims := f.Dims()
	origin := f.Origin()
	fmt.Fprintln(bw, dims[0], dims[1], dims[2])
	fmt.Fprintln(bw, origin.X, origin.Y, origin.Z)
	fmt.Fprintln(bw, f.Spacing())
	for _, v := range f.Data() {
		bw.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// EncodeFile writes the field to the file at path in `.sdf` format.
func EncodeFile(path string, f *sdfgen.Field) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := Encode(fp, f); err != nil {
		return err
	}
	return fp.Sync()
}

// Decode reads a field in `.sdf` plain-text format.
func Decode(r io.Reader) (*sdfgen.Field, error) {
	br := bufio.NewReader(r)
	var (
		dims   sdfgen.V3i
		origin r3.Vec
		dx     float64
	)
	_, err := fmt.Fscan(br, &dims[0], &dims[1], &dims[2])
	if err != nil {
		return nil, fmt.Errorf("sdfio: reading dimensions: %w", err)
	}
	_, err = fmt.Fscan(br, &origin.X, &origin.Y, &origin.Z)
	if err != nil {
		return nil, fmt.Errorf("sdfio: reading origin: %w", err)
	}
	_, err = fmt.Fscan(br, &dx)
	if err != nil {
		return nil, fmt.Errorf("sdfio: reading spacing: %w", err)
	}
	f, err := sdfgen.NewField(dims, origin, dx)
	if err != nil {
		return nil, err
	}
	data := f.Data()
	for n := range data {
		_, err = fmt.Fscan(br, &data[n])
		if err != nil {
			return nil, fmt.Errorf("sdfio: reading value %d of %d: %w", n+1, len(data), err)
		}
	}
	return f, nil
}

// DecodeFile reads a field from the `.sdf` file at path.
func DecodeFile(path string) (*sdfgen.Field, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Decode(fp)
}
