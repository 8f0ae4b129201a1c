package geo

import (
	"math"

	"github.com/golang/geo/r2"
)

// Polyline is an open path, used for road centerlines.
type Polyline struct {
	Points []Point2D `json:"points" yaml:"points"`
}

// NewPolyline creates a polyline from a list of points.
func NewPolyline(pts ...Point2D) Polyline {
	return Polyline{Points: pts}
}

// Length returns the total arc length of the polyline.
func (pl Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(pl.Points); i++ {
		total += pl.Points[i-1].Distance(pl.Points[i])
	}
	return total
}

// NearestPoint returns the closest point on the polyline to p, and the distance.
func (pl Polyline) NearestPoint(p Point2D) (Point2D, float64) {
	if len(pl.Points) == 0 {
		return Point2D{}, math.MaxFloat64
	}
	if len(pl.Points) == 1 {
		return pl.Points[0], p.Distance(pl.Points[0])
	}

	bestPt := pl.Points[0]
	bestDist := p.Distance(pl.Points[0])
	for i := 1; i < len(pl.Points); i++ {
		pt, dist := nearestPointOnSegment(p, pl.Points[i-1], pl.Points[i])
		if dist < bestDist {
			bestDist = dist
			bestPt = pt
		}
	}
	return bestPt, bestDist
}

// nearestPointOnSegment returns the closest point on segment ab to p.
func nearestPointOnSegment(p, a, b Point2D) (Point2D, float64) {
	ab := b.Sub(a)
	abLen2 := ab.Dot(ab)
	if abLen2 < 1e-12 {
		return a, p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / abLen2
	t = math.Max(0, math.Min(1, t))
	closest := a.Add(ab.Scale(t))
	return closest, p.Distance(closest)
}

// Ribbons widens each segment into a rectangle extending halfWidth to either
// side of the centerline. Zero-length segments are skipped, so a polyline
// with fewer than two distinct points yields no rings.
func (pl Polyline) Ribbons(halfWidth float64) []Ring {
	if halfWidth <= 0 {
		return nil
	}
	var out []Ring
	for i := 1; i < len(pl.Points); i++ {
		a, b := pl.Points[i-1], pl.Points[i]
		dir := b.Sub(a).Normalize()
		if dir == (Point2D{}) {
			continue
		}
		n := dir.Perp().Scale(halfWidth)
		out = append(out, Ring{a.Sub(n), b.Sub(n), b.Add(n), a.Add(n)})
	}
	return out
}

// Bounds returns the axis-aligned bounding rectangle of the path.
func (pl Polyline) Bounds() r2.Rect {
	return Ring(pl.Points).Bounds()
}
