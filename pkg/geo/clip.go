package geo

import "math"

// dupTolerance is the distance under which consecutive output vertices are
// merged by the clipping and offset routines.
const dupTolerance = 1e-9

// ClipBelowZ clips the ring to the half-plane z <= maxZ using a
// Sutherland-Hodgman edge walk. Vertices on the bound count as inside, and
// where an edge crosses the bound the exact interpolated point is inserted
// with its Z pinned to maxZ. Returns nil when fewer than 3 vertices survive.
//
// A bound that removes nothing returns the input vertices in the same order,
// so clipping a clipped ring again at the same or a looser bound is a no-op.
func ClipBelowZ(r Ring, maxZ float64) Ring {
	if !r.IsValid() {
		return nil
	}
	n := len(r)
	out := make(Ring, 0, n+2)
	for i := 0; i < n; i++ {
		cur := r[i]
		next := r[(i+1)%n]
		curIn := cur.Z <= maxZ
		nextIn := next.Z <= maxZ

		if curIn {
			out = append(out, cur)
		}
		if curIn != nextIn {
			t := (maxZ - cur.Z) / (next.Z - cur.Z)
			ix := cur.Lerp(next, t)
			ix.Z = maxZ
			out = append(out, ix)
		}
	}
	out = out.dedupe(dupTolerance)
	if len(out) < 3 || out.Area() < 1e-12 {
		return nil
	}
	return out
}

// lineIntersection returns the intersection point of lines (p1→p2) and (p3→p4).
func lineIntersection(p1, p2, p3, p4 Point2D) (Point2D, bool) {
	d := (p1.X-p2.X)*(p3.Z-p4.Z) - (p1.Z-p2.Z)*(p3.X-p4.X)
	if math.Abs(d) < 1e-12 {
		return Point2D{}, false
	}
	t := ((p1.X-p3.X)*(p3.Z-p4.Z) - (p1.Z-p3.Z)*(p3.X-p4.X)) / d
	return Point2D{
		X: p1.X + t*(p2.X-p1.X),
		Z: p1.Z + t*(p2.Z-p1.Z),
	}, true
}

// segmentsCross reports whether the open segments a1→a2 and b1→b2 properly
// intersect. Shared endpoints and collinear touching do not count.
func segmentsCross(a1, a2, b1, b2 Point2D) bool {
	d1 := a2.Sub(a1).Cross(b1.Sub(a1))
	d2 := a2.Sub(a1).Cross(b2.Sub(a1))
	d3 := b2.Sub(b1).Cross(a1.Sub(b1))
	d4 := b2.Sub(b1).Cross(a2.Sub(b1))
	const eps = 1e-12
	return ((d1 > eps && d2 < -eps) || (d1 < -eps && d2 > eps)) &&
		((d3 > eps && d4 < -eps) || (d3 < -eps && d4 > eps))
}

// SelfIntersects reports whether any two non-adjacent edges of the ring cross.
func (r Ring) SelfIntersects() bool {
	n := len(r)
	if n < 4 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := r.Edge(i)
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			b1, b2 := r.Edge(j)
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}
