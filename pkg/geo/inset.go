package geo

import "math"

// Inset erodes the ring inward by a uniform distance d. Each edge is shifted
// along its inward normal and consecutive shifted edges are intersected to
// rebuild the vertices (classic polygon erosion). The result keeps the input
// winding.
//
// The offset is reliable for convex and mildly concave rings while d stays
// below the smallest local feature size. Larger distances collapse edges; in
// that case Inset returns ErrDegeneratePolygon instead of a folded ring.
// An inset of 0 returns an unchanged copy.
func Inset(r Ring, d float64) (Ring, error) {
	if !(d >= 0) {
		return nil, ErrNegativeInset
	}
	src := r.dedupe(dupTolerance)
	if len(src) < 3 || src.Area() < 1e-12 || src.HasNaN() {
		return nil, ErrDegeneratePolygon
	}
	if d == 0 {
		return r.Clone(), nil
	}

	clockwise := src.SignedArea() < 0
	ccw := src.EnsureCCW()
	n := len(ccw)

	type offsetLine struct{ a, b Point2D }
	lines := make([]offsetLine, n)
	for i := 0; i < n; i++ {
		p, q := ccw.Edge(i)
		// For CCW winding the interior lies to the left of each edge.
		shift := q.Sub(p).Normalize().Perp().Scale(d)
		lines[i] = offsetLine{p.Add(shift), q.Add(shift)}
	}

	out := make(Ring, n)
	for i := 0; i < n; i++ {
		prev := lines[(i-1+n)%n]
		cur := lines[i]
		if ix, ok := lineIntersection(prev.a, prev.b, cur.a, cur.b); ok {
			out[i] = ix
		} else {
			// Collinear neighbours share the shifted vertex.
			out[i] = cur.a
		}
	}

	for i := 0; i < n; i++ {
		p, q := ccw.Edge(i)
		a, b := out.Edge(i)
		if b.Sub(a).Dot(q.Sub(p)) <= 1e-12 {
			return nil, ErrDegeneratePolygon
		}
	}
	if out.SignedArea() <= 1e-12 || out.SelfIntersects() {
		return nil, ErrDegeneratePolygon
	}
	for _, v := range out {
		if math.IsNaN(v.X) || math.IsNaN(v.Z) {
			return nil, ErrDegeneratePolygon
		}
	}

	out = out.dedupe(dupTolerance)
	if len(out) < 3 {
		return nil, ErrDegeneratePolygon
	}
	if clockwise {
		out = out.Reverse()
	}
	return out, nil
}
