package validation

import (
	"fmt"

	"github.com/yijongkuk/mdmd/pkg/envelope"
	"github.com/yijongkuk/mdmd/pkg/placement"
)

// ValidatePlacements re-checks a stored layout against the envelope: every
// placement must sit on a buildable floor, inside that floor's polygon and
// clear of the other modules on the floor.
func ValidatePlacements(pls []placement.Placement, e *envelope.Envelope, k placement.Kernel) *Report {
	r := NewReport()
	ix := placement.NewIndex(k.Grid, pls)
	for i, p := range pls {
		path := fmt.Sprintf("placements[%d]", i)
		if err := p.Check(); err != nil {
			r.AddError(Result{Level: LevelPlacement, Message: err.Error(), Path: path})
			continue
		}
		boundary := e.BoundaryForFloor(p.Floor)
		if boundary == nil {
			r.AddError(Result{
				Level:       LevelPlacement,
				Message:     fmt.Sprintf("placement %s is on floor %d, which is not buildable", p.ID, p.Floor),
				Path:        path + ".floor",
				ActualValue: p.Floor,
				Expected:    fmt.Sprintf("one of %d buildable floors", len(e.BuildableFloors())),
			})
			continue
		}
		d := ix.Validate(p, boundary)
		switch d.Reason {
		case placement.ReasonOutOfBounds:
			r.AddError(Result{
				Level:       LevelPlacement,
				Message:     fmt.Sprintf("placement %s extends outside floor %d", p.ID, p.Floor),
				Path:        path,
				ActualValue: string(d.Reason),
				Suggestions: []string{"Move the module inward or drag the grid offset"},
			})
		case placement.ReasonCollision:
			r.AddError(Result{
				Level:        LevelPlacement,
				Message:      fmt.Sprintf("placement %s overlaps %v on floor %d", p.ID, d.ConflictingIDs, p.Floor),
				Path:         path,
				ActualValue:  string(d.Reason),
				ConflictWith: d.ConflictingIDs,
			})
		}
	}
	if len(pls) > 0 && r.Valid {
		r.AddInfo(Result{
			Level:   LevelPlacement,
			Message: fmt.Sprintf("%d placements valid", len(pls)),
			Path:    "placements",
		})
	}
	return r
}
