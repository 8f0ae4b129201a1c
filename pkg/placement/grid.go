// Package placement answers collision and containment queries for prefab
// modules placed on a square grid.
//
// The kernel never stores placements. Every query takes the caller's current
// placement list as an argument and returns a fresh answer, so concurrent
// queries over different snapshots are safe.
package placement

import (
	"math"

	"github.com/yijongkuk/mdmd/pkg/geo"
)

// CellSize is the edge length of one grid cell, in meters.
const CellSize = 1.0

// Grid anchors integer cells to the ground plane. The offset is a free
// translation the user drags to line the grid up with the envelope.
type Grid struct {
	OffsetX float64 `json:"offset_x" yaml:"offset_x"`
	OffsetZ float64 `json:"offset_z" yaml:"offset_z"`
}

// ToWorld returns the world position of cell corner (gx, gz).
func (g Grid) ToWorld(gx, gz int) geo.Point2D {
	return geo.Point2D{
		X: float64(gx)*CellSize + g.OffsetX,
		Z: float64(gz)*CellSize + g.OffsetZ,
	}
}

// ToGrid returns the nearest cell corner to p.
func (g Grid) ToGrid(p geo.Point2D) (gx, gz int) {
	return int(math.Round((p.X - g.OffsetX) / CellSize)), int(math.Round((p.Z - g.OffsetZ) / CellSize))
}

// Translate returns the grid shifted by (dx, dz).
func (g Grid) Translate(dx, dz float64) Grid {
	return Grid{OffsetX: g.OffsetX + dx, OffsetZ: g.OffsetZ + dz}
}
