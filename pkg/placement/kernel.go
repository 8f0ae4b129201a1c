package placement

import "github.com/yijongkuk/mdmd/pkg/geo"

// containmentNudge pulls corners toward the box center before the
// point-in-polygon test so modules flush with the boundary count as inside.
const containmentNudge = 1e-6

// CollisionResult lists the placements a candidate would overlap.
type CollisionResult struct {
	Collides       bool     `json:"collides"`
	ConflictingIDs []string `json:"conflicting_ids,omitempty"`
}

// Kernel answers placement queries for one grid alignment.
type Kernel struct {
	Grid Grid
}

// NewKernel returns a kernel over grid g.
func NewKernel(g Grid) Kernel {
	return Kernel{Grid: g}
}

// CheckCollision tests candidate against every placement on the same floor,
// skipping IDs in exclude. Placements on other floors never collide.
// Conflicting IDs are returned in list order.
func (k Kernel) CheckCollision(candidate OBB, floor int, all []Placement, exclude map[string]struct{}) CollisionResult {
	return k.collisions(candidate, floor, all, "", exclude)
}

// collisions skips self as well as the IDs in exclude, so callers checking
// a placement against its own list need no exclude map.
func (k Kernel) collisions(candidate OBB, floor int, all []Placement, self string, exclude map[string]struct{}) CollisionResult {
	var res CollisionResult
	for _, p := range all {
		if p.Floor != floor || (self != "" && p.ID == self) {
			continue
		}
		if _, skip := exclude[p.ID]; skip {
			continue
		}
		if Overlaps(candidate, p.OBB(k.Grid)) {
			res.Collides = true
			res.ConflictingIDs = append(res.ConflictingIDs, p.ID)
		}
	}
	return res
}

// CheckInBounds reports whether all four corners of candidate lie inside
// boundary. Only corners are tested, so a concave notch between two corners
// is not detected.
func (k Kernel) CheckInBounds(candidate OBB, boundary geo.Ring) bool {
	return cornersInside(candidate, boundary)
}

func cornersInside(candidate OBB, boundary geo.Ring) bool {
	if !boundary.IsValid() {
		return false
	}
	c := candidate.Center()
	for _, corner := range candidate.Corners() {
		toCenter := c.Sub(corner).Normalize().Scale(containmentNudge)
		if !boundary.Contains(corner.Add(toCenter)) {
			return false
		}
	}
	return true
}

// Validate decides whether candidate may be placed given the other
// placements and the floor's boundary. The candidate's own ID is excluded
// from collision, so a module can be re-validated in place. Bounds are
// checked first.
func (k Kernel) Validate(candidate Placement, all []Placement, boundary geo.Ring) Decision {
	obb := candidate.OBB(k.Grid)
	if !k.CheckInBounds(obb, boundary) {
		return Decision{Reason: ReasonOutOfBounds}
	}
	if res := k.collisions(obb, candidate.Floor, all, candidate.ID, nil); res.Collides {
		return Decision{Reason: ReasonCollision, ConflictingIDs: res.ConflictingIDs}
	}
	return Decision{Reason: ReasonOK}
}
