package placement

import (
	"errors"
	"fmt"
)

// Placement is a module on the grid. GridX/GridZ name the un-rotated corner
// cell, not the center.
type Placement struct {
	ID         string   `json:"id" yaml:"id"`
	GridX      int      `json:"grid_x" yaml:"grid_x"`
	GridZ      int      `json:"grid_z" yaml:"grid_z"`
	Floor      int      `json:"floor" yaml:"floor"`
	Rotation   Rotation `json:"rotation" yaml:"rotation"`
	WidthCells int      `json:"width_cells" yaml:"width_cells"`
	DepthCells int      `json:"depth_cells" yaml:"depth_cells"`
}

// ErrInvalidPlacement wraps every structural problem found by Check.
var ErrInvalidPlacement = errors.New("invalid placement")

// Check reports structural problems that make a placement meaningless.
func (p Placement) Check() error {
	switch {
	case p.Floor < 1:
		return fmt.Errorf("%w %s: floor %d < 1", ErrInvalidPlacement, p.ID, p.Floor)
	case p.WidthCells < 1 || p.DepthCells < 1:
		return fmt.Errorf("%w %s: size %dx%d cells", ErrInvalidPlacement, p.ID, p.WidthCells, p.DepthCells)
	case !p.Rotation.Valid():
		return fmt.Errorf("%w %s: rotation %d", ErrInvalidPlacement, p.ID, p.Rotation)
	}
	return nil
}

// OBB returns the placement's box on grid g.
func (p Placement) OBB(g Grid) OBB {
	return NewOBB(g, p.GridX, p.GridZ, p.WidthCells, p.DepthCells, p.Rotation)
}

// MovedTo returns a copy of p anchored at (gx, gz).
func (p Placement) MovedTo(gx, gz int) Placement {
	p.GridX, p.GridZ = gx, gz
	return p
}

// Rotated returns a copy of p turned to r.
func (p Placement) Rotated(r Rotation) Placement {
	p.Rotation = r
	return p
}
