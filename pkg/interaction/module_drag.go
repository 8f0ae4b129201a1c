package interaction

import (
	"fmt"

	"github.com/yijongkuk/mdmd/pkg/geo"
	"github.com/yijongkuk/mdmd/pkg/placement"
)

// Preview is the candidate shown under the pointer during a module drag.
type Preview struct {
	State     State               `json:"state"`
	Placement placement.Placement `json:"placement"`
	OBB       placement.OBB       `json:"obb"`
	Decision  placement.Decision  `json:"decision"`
}

// ModuleDrag moves or turns one placed module. It validates against a
// snapshot of the other placements taken when the session is created and
// never mutates the caller's list; Commit hands back the accepted result.
type ModuleDrag struct {
	machine
	index    *placement.Index
	boundary BoundaryFunc
	origin   placement.Placement
	current  placement.Placement
	grab     geo.Point2D
}

// NewModuleDrag creates an idle session over a placement snapshot.
func NewModuleDrag(ix *placement.Index, boundary BoundaryFunc) *ModuleDrag {
	return &ModuleDrag{index: ix, boundary: boundary}
}

// State returns the current phase.
func (d *ModuleDrag) State() State {
	return d.state
}

// Current returns the candidate placement.
func (d *ModuleDrag) Current() placement.Placement {
	return d.current
}

// Begin presses on target with the pointer at world position at.
func (d *ModuleDrag) Begin(target placement.Placement, at geo.Point2D) error {
	if err := target.Check(); err != nil {
		return err
	}
	if err := d.to(Tracking); err != nil {
		return err
	}
	d.origin, d.current = target, target
	d.start = at
	d.grab = at.Sub(d.index.Grid().ToWorld(target.GridX, target.GridZ))
	return nil
}

// Move snaps the module under the pointer to the nearest cell and returns
// the preview. Small movements stay in Tracking and keep the original cell.
func (d *ModuleDrag) Move(at geo.Point2D) (Preview, error) {
	if err := d.moved(at); err != nil {
		return Preview{}, err
	}
	if d.state == Dragging {
		gx, gz := d.index.Grid().ToGrid(at.Sub(d.grab))
		d.current = d.current.MovedTo(gx, gz)
	}
	return d.preview(), nil
}

// Rotate turns the candidate a quarter turn about its corner cell.
func (d *ModuleDrag) Rotate() (Preview, error) {
	if !d.active() {
		return Preview{}, fmt.Errorf("%w: rotate while %s", ErrInvalidTransition, d.state)
	}
	d.current = d.current.Rotated(d.current.Rotation.Next())
	return d.preview(), nil
}

// Commit ends the drag. An accepted candidate is returned for the caller to
// store. A rejected one leaves the session Cancelled and returns the original
// placement with a *placement.RejectedError.
func (d *ModuleDrag) Commit() (placement.Placement, error) {
	if !d.active() {
		return placement.Placement{}, fmt.Errorf("%w: commit while %s", ErrInvalidTransition, d.state)
	}
	if err := d.validate().Err(); err != nil {
		_ = d.to(Cancelled)
		d.current = d.origin
		return d.origin, err
	}
	_ = d.to(Committing)
	return d.current, nil
}

// Cancel abandons the drag and returns the original placement.
func (d *ModuleDrag) Cancel() (placement.Placement, error) {
	if err := d.to(Cancelled); err != nil {
		return placement.Placement{}, err
	}
	d.current = d.origin
	return d.origin, nil
}

// Reset returns a committed or cancelled session to Idle.
func (d *ModuleDrag) Reset() error {
	return d.reset()
}

func (d *ModuleDrag) validate() placement.Decision {
	var boundary geo.Ring
	if d.boundary != nil {
		boundary = d.boundary(d.current.Floor)
	}
	return d.index.Validate(d.current, boundary)
}

func (d *ModuleDrag) preview() Preview {
	return Preview{
		State:     d.state,
		Placement: d.current,
		OBB:       d.current.OBB(d.index.Grid()),
		Decision:  d.validate(),
	}
}
