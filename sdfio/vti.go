package sdfio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/soypat/sdfgen"
)

// EncodeVTI writes the field to w as a VTK XML ImageData file with a single
// point-data array named "Distance". The format is consumed directly by
// ParaView and VTK-based viewers.
func EncodeVTI(w io.Writer, f *sdfgen.Field) error {
	bw := bufio.NewWriter(w)
	dims := f.Dims()
	origin := f.Origin()
	dx := f.Spacing()
	extent := fmt.Sprintf("0 %d 0 %d 0 %d", dims[0]-1, dims[1]-1, dims[2]-1)
	fmt.Fprintln(bw, `<?xml version="1.0"?>`)
	fmt.Fprintln(bw, `<VTKFile type="ImageData" version="0.1" byte_order="LittleEndian">`)
	fmt.Fprintf(bw, "  <ImageData WholeExtent=\"%s\" Origin=\"%g %g %g\" Spacing=\"%g %g %g\">\n",
		extent, origin.X, origin.Y, origin.Z, dx, dx, dx)
	fmt.Fprintf(bw, "    <Piece Extent=\"%s\">\n", extent)
	fmt.Fprintln(bw, `      <PointData Scalars="Distance">`)
	fmt.Fprintln(bw, `        <DataArray type="Float32" Name="Distance" format="ascii">`)
	// VTK point data shares the field's ordering: i fastest, then j, then k.
	const perLine = 6
	data := f.Data()
	for n, v := range data {
		if n%perLine == 0 {
			bw.WriteString("          ")
		}
		bw.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		if n%perLine == perLine-1 || n == len(data)-1 {
			bw.WriteByte('\n')
		} else {
			bw.WriteByte(' ')
		}
	}
	fmt.Fprintln(bw, `        </DataArray>`)
	fmt.Fprintln(bw, `      </PointData>`)
	fmt.Fprintln(bw, `      <CellData></CellData>`)
	fmt.Fprintln(bw, `    </Piece>`)
	fmt.Fprintln(bw, `  </ImageData>`)
	fmt.Fprintln(bw, `</VTKFile>`)
	return bw.Flush()
}

// EncodeVTIFile writes the field to the `.vti` file at path.
func EncodeVTIFile(path string, f *sdfgen.Field) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := EncodeVTI(fp, f); err != nil {
		return err
	}
	return fp.Sync()
}
