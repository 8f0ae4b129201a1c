package placement

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/yijongkuk/mdmd/pkg/geo"
)

// separationEpsilon lets boxes that share an edge count as separated.
const separationEpsilon = 1e-9

// OBB is an oriented bounding box in world meters. It is derived from a
// placement per query and never persisted.
type OBB struct {
	CenterX   float64 `json:"center_x"`
	CenterZ   float64 `json:"center_z"`
	HalfWidth float64 `json:"half_width"`
	HalfDepth float64 `json:"half_depth"`
	Cos       float64 `json:"cos"`
	Sin       float64 `json:"sin"`
}

// NewOBB builds the box of a w×d cell module whose un-rotated corner sits on
// cell (gx, gz). The module pivots about that corner.
func NewOBB(g Grid, gx, gz, w, d int, rot Rotation) OBB {
	c, s := rot.CosSin()
	return newOBB(g.ToWorld(gx, gz), float64(w)*CellSize, float64(d)*CellSize, c, s)
}

func newOBB(corner geo.Point2D, width, depth, c, s float64) OBB {
	local := geo.Point2D{X: width / 2, Z: depth / 2}.RotateCS(c, s)
	center := corner.Add(local)
	return OBB{
		CenterX:   center.X,
		CenterZ:   center.Z,
		HalfWidth: width / 2,
		HalfDepth: depth / 2,
		Cos:       c,
		Sin:       s,
	}
}

// Center returns the world-space center.
func (o OBB) Center() geo.Point2D {
	return geo.Point2D{X: o.CenterX, Z: o.CenterZ}
}

// Axes returns the box's local X and Z axes in world space.
func (o OBB) Axes() [2]geo.Point2D {
	return [2]geo.Point2D{
		{X: o.Cos, Z: o.Sin},
		{X: -o.Sin, Z: o.Cos},
	}
}

// Corners returns the four world-space corners, counter-clockwise.
func (o OBB) Corners() [4]geo.Point2D {
	ax := o.Axes()
	u := ax[0].Scale(o.HalfWidth)
	v := ax[1].Scale(o.HalfDepth)
	c := o.Center()
	return [4]geo.Point2D{
		c.Sub(u).Sub(v),
		c.Add(u).Sub(v),
		c.Add(u).Add(v),
		c.Sub(u).Add(v),
	}
}

// Ring returns the box outline as a polygon.
func (o OBB) Ring() geo.Ring {
	cs := o.Corners()
	return geo.Ring(cs[:])
}

// Area returns the footprint area in square meters.
func (o OBB) Area() float64 {
	return 4 * o.HalfWidth * o.HalfDepth
}

// Bounds returns the axis-aligned rectangle enclosing the box.
func (o OBB) Bounds() r2.Rect {
	ex := math.Abs(o.Cos)*o.HalfWidth + math.Abs(o.Sin)*o.HalfDepth
	ez := math.Abs(o.Sin)*o.HalfWidth + math.Abs(o.Cos)*o.HalfDepth
	return r2.RectFromCenterSize(r2.Point{X: o.CenterX, Y: o.CenterZ}, r2.Point{X: 2 * ex, Y: 2 * ez})
}

// projectedRadius is the half-length of the box's shadow on axis.
func (o OBB) projectedRadius(axis geo.Point2D) float64 {
	ax := o.Axes()
	return o.HalfWidth*math.Abs(ax[0].Dot(axis)) + o.HalfDepth*math.Abs(ax[1].Dot(axis))
}

// Overlaps reports whether a and b share interior area, using the separating
// axis test over both boxes' local axes. Boxes that only touch along an edge
// or at a corner do not overlap. Overlaps(a, b) == Overlaps(b, a).
func Overlaps(a, b OBB) bool {
	d := b.Center().Sub(a.Center())
	aa, ba := a.Axes(), b.Axes()
	for _, axis := range [4]geo.Point2D{aa[0], aa[1], ba[0], ba[1]} {
		dist := math.Abs(d.Dot(axis))
		if dist >= a.projectedRadius(axis)+b.projectedRadius(axis)-separationEpsilon {
			return false
		}
	}
	return true
}
