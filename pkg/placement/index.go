package placement

import (
	"github.com/golang/geo/r2"

	"github.com/yijongkuk/mdmd/pkg/geo"
)

type indexed struct {
	id     string
	obb    OBB
	bounds r2.Rect
}

// Index is an immutable snapshot of a placement list with boxes precomputed
// per floor. A drag loop builds it once when the drag starts and queries it
// on every pointer move.
type Index struct {
	grid   Grid
	floors map[int][]indexed
	n      int
}

// NewIndex snapshots all on grid g.
func NewIndex(g Grid, all []Placement) *Index {
	ix := &Index{grid: g, floors: make(map[int][]indexed), n: len(all)}
	for _, p := range all {
		obb := p.OBB(g)
		ix.floors[p.Floor] = append(ix.floors[p.Floor], indexed{id: p.ID, obb: obb, bounds: obb.Bounds()})
	}
	return ix
}

// Grid returns the grid the snapshot was built on.
func (ix *Index) Grid() Grid {
	return ix.grid
}

// Len returns the number of indexed placements.
func (ix *Index) Len() int {
	return ix.n
}

// Collisions behaves like Kernel.CheckCollision against the snapshot.
func (ix *Index) Collisions(candidate OBB, floor int, exclude map[string]struct{}) CollisionResult {
	return ix.collisions(candidate, floor, "", exclude)
}

func (ix *Index) collisions(candidate OBB, floor int, self string, exclude map[string]struct{}) CollisionResult {
	var res CollisionResult
	cb := candidate.Bounds()
	for _, e := range ix.floors[floor] {
		if self != "" && e.id == self {
			continue
		}
		if _, skip := exclude[e.id]; skip {
			continue
		}
		if !cb.InteriorIntersects(e.bounds) {
			continue
		}
		if Overlaps(candidate, e.obb) {
			res.Collides = true
			res.ConflictingIDs = append(res.ConflictingIDs, e.id)
		}
	}
	return res
}

// Validate behaves like Kernel.Validate against the snapshot. An accepted
// candidate costs no allocation.
func (ix *Index) Validate(candidate Placement, boundary geo.Ring) Decision {
	obb := candidate.OBB(ix.grid)
	if !cornersInside(obb, boundary) {
		return Decision{Reason: ReasonOutOfBounds}
	}
	res := ix.collisions(obb, candidate.Floor, candidate.ID, nil)
	if res.Collides {
		return Decision{Reason: ReasonCollision, ConflictingIDs: res.ConflictingIDs}
	}
	return Decision{Reason: ReasonOK}
}
