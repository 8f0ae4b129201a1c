// Package align nudges a parcel polygon off neighbouring buildings and roads.
//
// Surveyed parcel boundaries and open-data building footprints rarely agree
// to the meter. The solver searches a small box of translations for the one
// that overlaps the neighbours least, preferring the smallest move. It is a
// deterministic best-effort search, not a global optimum: when nothing in the
// box clears every overlap the best candidate found is returned.
package align

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/yijongkuk/mdmd/pkg/geo"
)

// Offset is a translation in meters, applied by the caller when drawing.
type Offset struct {
	DX float64 `json:"dx"`
	DZ float64 `json:"dz"`
}

// Length returns the distance moved.
func (o Offset) Length() float64 {
	return math.Hypot(o.DX, o.DZ)
}

// Road is a centerline with a half-width, widened into ribbons for scoring.
type Road struct {
	Centerline geo.Polyline `json:"centerline"`
	HalfWidth  float64      `json:"half_width"`
}

// RoadRibbons converts a road into one thin rectangle per segment.
func RoadRibbons(r Road) []geo.Ring {
	return r.Centerline.Ribbons(r.HalfWidth)
}

// Options bound the search.
type Options struct {
	// Range is the largest move along either axis.
	Range      float64 `json:"range" yaml:"range"`
	CoarseStep float64 `json:"coarse_step" yaml:"coarse_step"`
	// FineRange is the half-size of the refinement box around the coarse best.
	FineRange     float64 `json:"fine_range" yaml:"fine_range"`
	FineStep      float64 `json:"fine_step" yaml:"fine_step"`
	OverlapWeight float64 `json:"overlap_weight" yaml:"overlap_weight"`
}

// DefaultOptions searches ±5 m at 1 m, then ±1 m at 0.25 m.
func DefaultOptions() Options {
	return Options{
		Range:         5,
		CoarseStep:    1,
		FineRange:     1,
		FineStep:      0.25,
		OverlapWeight: 10000,
	}
}

// Result is the outcome of a search.
type Result struct {
	Offset Offset `json:"offset"`
	// Overlap is the score at Offset; zero means every overlap was cleared.
	Overlap int `json:"overlap"`
	// InitialOverlap is the score before moving.
	InitialOverlap int `json:"initial_overlap"`
	// Evaluated counts scored candidates, including the origin.
	Evaluated int `json:"evaluated"`
}

// edgeNudge pulls a sample point toward the centroid of the ring it belongs
// to before the point-in-polygon test, so a point on an edge shared with a
// neighbour lands on its own side. Flush neighbours score zero on every side.
const edgeNudge = 1e-6

func nudge(p, toward geo.Point2D) geo.Point2D {
	return p.Add(toward.Sub(p).Normalize().Scale(edgeNudge))
}

type obstacle struct {
	ring geo.Ring
	// inner holds the ring's vertices nudged toward its centroid.
	inner []geo.Point2D
	rect  rtreego.Rect
}

func (o *obstacle) Bounds() rtreego.Rect {
	return o.rect
}

// Solver scores translations of a target polygon against a fixed set of
// obstacles. It is immutable once built and safe for concurrent use.
type Solver struct {
	opts      Options
	obstacles []*obstacle
	tree      *rtreego.Rtree
}

// NewSolver indexes building polygons and road ribbons. Rings with fewer
// than three vertices or no area are ignored.
func NewSolver(buildings []geo.Ring, roads []Road, opts Options) *Solver {
	s := &Solver{opts: opts, tree: rtreego.NewTree(2, 25, 50)}
	add := func(r geo.Ring) {
		if !r.IsValid() || r.Area() <= 0 || r.HasNaN() {
			return
		}
		rect, err := boundsRect(r)
		if err != nil {
			return
		}
		o := &obstacle{ring: r, rect: rect, inner: make([]geo.Point2D, len(r))}
		c := r.Centroid()
		for i, v := range r {
			o.inner[i] = nudge(v, c)
		}
		s.obstacles = append(s.obstacles, o)
		s.tree.Insert(o)
	}
	for _, b := range buildings {
		add(b)
	}
	for _, road := range roads {
		for _, ribbon := range RoadRibbons(road) {
			add(ribbon)
		}
	}
	return s
}

// Len returns the number of indexed obstacle polygons.
func (s *Solver) Len() int {
	return len(s.obstacles)
}

// boundsRect pads the box slightly since rtreego rejects zero-length sides.
func boundsRect(r geo.Ring) (rtreego.Rect, error) {
	const pad = 1e-9
	b := r.Bounds()
	lo := b.Lo()
	return rtreego.NewRect(
		rtreego.Point{lo.X - pad, lo.Y - pad},
		[]float64{b.Hi().X - lo.X + 2*pad, b.Hi().Y - lo.Y + 2*pad},
	)
}

// Score counts obstacle vertices inside the translated target plus target
// sample points (vertices and edge midpoints) inside any obstacle. Only
// interiors count: a point on the shared edge of two touching rings is
// inside neither.
func (s *Solver) Score(target geo.Ring, off Offset) int {
	moved := target.Translate(off.DX, off.DZ)
	if !moved.IsValid() || len(s.obstacles) == 0 {
		return 0
	}

	count := 0
	if rect, err := boundsRect(moved); err == nil {
		for _, sp := range s.tree.SearchIntersect(rect) {
			for _, v := range sp.(*obstacle).inner {
				if moved.Contains(v) {
					count++
				}
			}
		}
	}

	c := moved.Centroid()
	for _, p := range moved.SamplePoints() {
		p = nudge(p, c)
		at := rtreego.Point{p.X, p.Z}.ToRect(1e-9)
		for _, sp := range s.tree.SearchIntersect(at) {
			if sp.(*obstacle).ring.Contains(p) {
				count++
				break
			}
		}
	}
	return count
}

func (s *Solver) objective(overlap int, off Offset) float64 {
	return float64(overlap)*s.opts.OverlapWeight + off.Length()
}

// Solve returns the best translation found for target. With no overlap at
// the origin it returns immediately without searching.
func (s *Solver) Solve(target geo.Ring) Result {
	res := Result{Evaluated: 1}
	res.InitialOverlap = s.Score(target, Offset{})
	res.Overlap = res.InitialOverlap
	if res.InitialOverlap == 0 {
		return res
	}

	best := s.objective(res.Overlap, Offset{})
	scan := func(cx, cz, half, step float64) {
		if step <= 0 {
			return
		}
		n := int(math.Round(half / step))
		for i := -n; i <= n; i++ {
			dx := cx + float64(i)*step
			if math.Abs(dx) > s.opts.Range+1e-9 {
				continue
			}
			for j := -n; j <= n; j++ {
				dz := cz + float64(j)*step
				if math.Abs(dz) > s.opts.Range+1e-9 {
					continue
				}
				off := Offset{DX: dx, DZ: dz}
				overlap := s.Score(target, off)
				res.Evaluated++
				if v := s.objective(overlap, off); v < best {
					best = v
					res.Offset = off
					res.Overlap = overlap
				}
			}
		}
	}

	scan(0, 0, s.opts.Range, s.opts.CoarseStep)
	coarse := res.Offset
	scan(coarse.DX, coarse.DZ, s.opts.FineRange, s.opts.FineStep)
	return res
}
