package placement

import (
	"fmt"
	"math"
)

// Rotation is a module orientation in degrees. Only right angles take part
// in collision math.
type Rotation int

const (
	Rot0   Rotation = 0
	Rot90  Rotation = 90
	Rot180 Rotation = 180
	Rot270 Rotation = 270
)

// Exact cos/sin per quarter turn, so rotated corners land on whole cells.
var quarterTurns = [4][2]float64{
	{1, 0},
	{0, 1},
	{-1, 0},
	{0, -1},
}

// Valid reports whether r is one of the four right angles.
func (r Rotation) Valid() bool {
	return r == Rot0 || r == Rot90 || r == Rot180 || r == Rot270
}

// CosSin returns the exact cosine and sine of r. r must be valid.
func (r Rotation) CosSin() (float64, float64) {
	cs := quarterTurns[(int(r)/90)&3]
	return cs[0], cs[1]
}

// Radians returns r in radians.
func (r Rotation) Radians() float64 {
	return float64(r) * math.Pi / 180
}

// Next returns the rotation a quarter turn counter-clockwise.
func (r Rotation) Next() Rotation {
	return (r + 90) % 360
}

// ParseRotation normalizes any multiple of 90 degrees, negative included,
// into [0, 360).
func ParseRotation(deg int) (Rotation, error) {
	if deg%90 != 0 {
		return 0, fmt.Errorf("rotation %d is not a multiple of 90 degrees", deg)
	}
	return Rotation(((deg % 360) + 360) % 360), nil
}
