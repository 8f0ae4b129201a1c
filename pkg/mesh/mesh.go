// Package mesh turns an envelope into a solid for export. The solid is Z-up:
// local X stays X, local Z (north) becomes Y, and floors stack along Z.
package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/yijongkuk/mdmd/pkg/envelope"
	"github.com/yijongkuk/mdmd/pkg/geo"
)

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 120

// ErrEmpty is returned when the envelope has no buildable floor.
var ErrEmpty = errors.New("mesh: envelope has no buildable floor")

// FloorSolid extrudes one floor polygon to a slab of FloorHeight sitting at
// the floor's elevation.
func FloorSolid(ring geo.Ring, floor int) (sdf.SDF3, error) {
	pts := make([]v2.Vec, len(ring))
	for i, p := range ring {
		pts[i] = v2.Vec{X: p.X, Y: p.Z}
	}
	s2, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, fmt.Errorf("floor %d: %w", floor, err)
	}
	slab := sdf.Extrude3D(s2, envelope.FloorHeight)
	// Extrude3D centers the slab on z=0.
	z := float64(floor-1)*envelope.FloorHeight + envelope.FloorHeight/2
	return sdf.Transform3D(slab, sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: z})), nil
}

// EnvelopeSolid stacks every buildable floor of e into one solid.
func EnvelopeSolid(e *envelope.Envelope) (sdf.SDF3, error) {
	if e.Empty() {
		return nil, ErrEmpty
	}
	var slabs []sdf.SDF3
	for i, ring := range e.FloorPolygons {
		if ring == nil {
			continue
		}
		s, err := FloorSolid(ring, i+1)
		if err != nil {
			return nil, err
		}
		slabs = append(slabs, s)
	}
	if len(slabs) == 0 {
		return nil, ErrEmpty
	}
	if len(slabs) == 1 {
		return slabs[0], nil
	}
	return sdf.Union3D(slabs...), nil
}

// WriteSTL renders e with marching cubes and writes an ASCII STL. cells <= 0
// uses DefaultCells. It returns the number of facets written.
func WriteSTL(w io.Writer, e *envelope.Envelope, cells int) (int, error) {
	s, err := EnvelopeSolid(e)
	if err != nil {
		return 0, err
	}
	if cells <= 0 {
		cells = DefaultCells
	}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "solid envelope")
	for _, tri := range triangles {
		n := tri.Normal()
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintln(bw, "    outer loop")
		for j := 0; j < 3; j++ {
			v := tri[j]
			fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintln(bw, "endsolid envelope")
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("writing stl: %w", err)
	}
	return len(triangles), nil
}
