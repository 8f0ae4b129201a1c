package geo

import (
	"math"

	"github.com/golang/geo/r2"
)

// Ring is a closed polygon boundary. The closing edge is implicit: the first
// vertex is not repeated at the end. Callers guarantee no self-intersection.
type Ring []Point2D

// NewRing creates a ring from a list of vertices.
func NewRing(pts ...Point2D) Ring {
	return Ring(pts)
}

// Len returns the number of vertices.
func (r Ring) Len() int {
	return len(r)
}

// IsValid reports whether the ring has enough vertices to enclose area.
func (r Ring) IsValid() bool {
	return len(r) >= 3
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (r Ring) Edge(i int) (Point2D, Point2D) {
	n := len(r)
	return r[i%n], r[(i+1)%n]
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (r Ring) SignedArea() float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += r[i].X*r[j].Z - r[j].X*r[i].Z
	}
	return area / 2
}

// Area returns the unsigned area of the ring.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// IsCounterClockwise returns true if vertices are in CCW order.
func (r Ring) IsCounterClockwise() bool {
	return r.SignedArea() > 0
}

// EnsureCCW returns the ring with vertices in counterclockwise order.
func (r Ring) EnsureCCW() Ring {
	if r.SignedArea() < 0 {
		return r.Reverse()
	}
	return r
}

// Reverse returns the ring with reversed vertex order.
func (r Ring) Reverse() Ring {
	n := len(r)
	rev := make(Ring, n)
	for i, v := range r {
		rev[n-1-i] = v
	}
	return rev
}

// Clone returns an independent copy. A nil ring stays nil.
func (r Ring) Clone() Ring {
	if r == nil {
		return nil
	}
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

// Centroid returns the area centroid of the ring, falling back to the
// vertex average for degenerate input.
func (r Ring) Centroid() Point2D {
	n := len(r)
	if n == 0 {
		return Point2D{}
	}
	a := r.SignedArea()
	if n < 3 || math.Abs(a) < 1e-12 {
		sum := Point2D{}
		for _, v := range r {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cz := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := r[i].X*r[j].Z - r[j].X*r[i].Z
		cx += (r[i].X + r[j].X) * cross
		cz += (r[i].Z + r[j].Z) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point2D{cx * f, cz * f}
}

// Bounds returns the axis-aligned bounding rectangle. r2 uses X/Y; Y carries Z.
func (r Ring) Bounds() r2.Rect {
	if len(r) == 0 {
		return r2.EmptyRect()
	}
	pts := make([]r2.Point, len(r))
	for i, v := range r {
		pts[i] = r2.Point{X: v.X, Y: v.Z}
	}
	return r2.RectFromPoints(pts...)
}

// MaxZ returns the largest Z coordinate, i.e. the northernmost extent.
func (r Ring) MaxZ() float64 {
	if len(r) == 0 {
		return 0
	}
	maxZ := r[0].Z
	for _, v := range r[1:] {
		if v.Z > maxZ {
			maxZ = v.Z
		}
	}
	return maxZ
}

// Contains returns true if the point is inside the ring using ray casting
// (odd number of edge crossings). Points exactly on an edge are unspecified.
func (r Ring) Contains(pt Point2D) bool {
	n := len(r)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := r[i]
		vj := r[j]
		if (vi.Z > pt.Z) != (vj.Z > pt.Z) &&
			pt.X < (vj.X-vi.X)*(pt.Z-vi.Z)/(vj.Z-vi.Z)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Translate returns the ring moved by (dx, dz).
func (r Ring) Translate(dx, dz float64) Ring {
	if r == nil {
		return nil
	}
	out := make(Ring, len(r))
	for i, v := range r {
		out[i] = Point2D{v.X + dx, v.Z + dz}
	}
	return out
}

// ScaleAbout returns the ring scaled uniformly toward (factor < 1) or away
// from center. The result is geometrically similar to the input.
func (r Ring) ScaleAbout(center Point2D, factor float64) Ring {
	if r == nil {
		return nil
	}
	out := make(Ring, len(r))
	for i, v := range r {
		out[i] = center.Add(v.Sub(center).Scale(factor))
	}
	return out
}

// Midpoints returns the midpoint of every edge, closing edge included.
func (r Ring) Midpoints() []Point2D {
	n := len(r)
	if n < 2 {
		return nil
	}
	mids := make([]Point2D, n)
	for i := 0; i < n; i++ {
		mids[i] = MidPoint(r[i], r[(i+1)%n])
	}
	return mids
}

// SamplePoints returns the vertices followed by the edge midpoints.
func (r Ring) SamplePoints() []Point2D {
	out := make([]Point2D, 0, 2*len(r))
	out = append(out, r...)
	return append(out, r.Midpoints()...)
}

// HasNaN reports whether any vertex is non-finite.
func (r Ring) HasNaN() bool {
	for _, v := range r {
		if !v.IsFinite() {
			return true
		}
	}
	return false
}

// Perimeter returns the total perimeter length.
func (r Ring) Perimeter() float64 {
	n := len(r)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += r[i].Distance(r[(i+1)%n])
	}
	return total
}

// dedupe drops consecutive vertices closer than tol, including a closing
// vertex that repeats the first.
func (r Ring) dedupe(tol float64) Ring {
	out := make(Ring, 0, len(r))
	for _, v := range r {
		if len(out) > 0 && out[len(out)-1].NearlyEqual(v, tol) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[len(out)-1].NearlyEqual(out[0], tol) {
		out = out[:len(out)-1]
	}
	return out
}

// Rectangle returns the axis-aligned CCW ring spanning min to max.
func Rectangle(minX, minZ, maxX, maxZ float64) Ring {
	return Ring{
		{minX, minZ},
		{maxX, minZ},
		{maxX, maxZ},
		{minX, maxZ},
	}
}
