package interaction

import (
	"fmt"

	"github.com/yijongkuk/mdmd/pkg/geo"
	"github.com/yijongkuk/mdmd/pkg/placement"
)

// GridPreview is the grid alignment under the pointer and the modules that
// alignment would push out of their floor's boundary.
type GridPreview struct {
	State       State          `json:"state"`
	Grid        placement.Grid `json:"grid"`
	OutOfBounds []string       `json:"out_of_bounds,omitempty"`
}

// GridDrag slides the grid offset. Placements keep their cell coordinates,
// so every module moves with the grid.
type GridDrag struct {
	machine
	placements []placement.Placement
	boundary   BoundaryFunc
	origin     placement.Grid
	current    placement.Grid
}

// NewGridDrag creates an idle session over a placement snapshot.
func NewGridDrag(placements []placement.Placement, boundary BoundaryFunc) *GridDrag {
	return &GridDrag{placements: placements, boundary: boundary}
}

// State returns the current phase.
func (d *GridDrag) State() State {
	return d.state
}

// Begin presses on the grid g with the pointer at at.
func (d *GridDrag) Begin(g placement.Grid, at geo.Point2D) error {
	if err := d.to(Tracking); err != nil {
		return err
	}
	d.origin, d.current = g, g
	d.start = at
	return nil
}

// Move translates the grid by the pointer travel since Begin.
func (d *GridDrag) Move(at geo.Point2D) (GridPreview, error) {
	if err := d.moved(at); err != nil {
		return GridPreview{}, err
	}
	if d.state == Dragging {
		delta := at.Sub(d.start)
		d.current = d.origin.Translate(delta.X, delta.Z)
	}
	return d.preview(), nil
}

// Commit ends the drag and returns the new grid alignment.
func (d *GridDrag) Commit() (placement.Grid, error) {
	if !d.active() {
		return placement.Grid{}, fmt.Errorf("%w: commit while %s", ErrInvalidTransition, d.state)
	}
	_ = d.to(Committing)
	return d.current, nil
}

// Cancel abandons the drag and returns the original alignment.
func (d *GridDrag) Cancel() (placement.Grid, error) {
	if err := d.to(Cancelled); err != nil {
		return placement.Grid{}, err
	}
	d.current = d.origin
	return d.origin, nil
}

// Reset returns a committed or cancelled session to Idle.
func (d *GridDrag) Reset() error {
	return d.reset()
}

func (d *GridDrag) preview() GridPreview {
	p := GridPreview{State: d.state, Grid: d.current}
	k := placement.NewKernel(d.current)
	for _, pl := range d.placements {
		var boundary geo.Ring
		if d.boundary != nil {
			boundary = d.boundary(pl.Floor)
		}
		if !k.CheckInBounds(pl.OBB(d.current), boundary) {
			p.OutOfBounds = append(p.OutOfBounds, pl.ID)
		}
	}
	return p
}
