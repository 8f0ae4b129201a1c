package envelope

import "github.com/yijongkuk/mdmd/pkg/geo"

// SolarBound returns the northern limit for floor (1-based) of a footprint
// whose north edge sits at northEdgeZ, and whether the slope applies at all.
func SolarBound(northEdgeZ float64, floor int) (float64, bool) {
	ceiling := float64(floor) * FloorHeight
	if ceiling <= SolarThresholdHeight {
		return northEdgeZ, false
	}
	return northEdgeZ - (ceiling-SolarThresholdHeight)/SolarSlopeDivisor, true
}

// ClipFloor returns the footprint of floor (1-based) after the north solar
// slope, or nil when nothing buildable remains.
func ClipFloor(footprint geo.Ring, floor int) geo.Ring {
	if !footprint.IsValid() {
		return nil
	}
	bound, applies := SolarBound(footprint.MaxZ(), floor)
	if !applies {
		return footprint.Clone()
	}
	return geo.ClipBelowZ(footprint, bound)
}

// SolarFloors clips every floor of a footprint. The result has one entry per
// floor; entries for floors the slope removes entirely are nil and later
// floors are still computed.
func SolarFloors(footprint geo.Ring, floors int) []geo.Ring {
	if floors <= 0 {
		return nil
	}
	out := make([]geo.Ring, floors)
	for f := 1; f <= floors; f++ {
		out[f-1] = ClipFloor(footprint, f)
	}
	return out
}
