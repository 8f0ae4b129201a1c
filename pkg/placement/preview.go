package placement

import "math"

// PreviewOBB returns the ghost box for a module being turned by hand to an
// arbitrary angle. It is for drawing only; collision uses right angles.
func PreviewOBB(g Grid, gx, gz, w, d int, angleDeg float64) OBB {
	rad := angleDeg * math.Pi / 180
	return newOBB(g.ToWorld(gx, gz), float64(w)*CellSize, float64(d)*CellSize, math.Cos(rad), math.Sin(rad))
}

// SnapRotation returns the right angle nearest to angleDeg.
func SnapRotation(angleDeg float64) Rotation {
	q := int(math.Round(angleDeg/90)) % 4
	if q < 0 {
		q += 4
	}
	return Rotation(q * 90)
}
