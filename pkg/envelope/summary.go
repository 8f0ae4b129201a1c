package envelope

import (
	"gonum.org/v1/gonum/floats"
)

// FloorSummary is the area available on one floor.
type FloorSummary struct {
	Floor     int     `json:"floor"`
	Area      float64 `json:"area"`
	Buildable bool    `json:"buildable"`
}

// Summary is the floor-area report published alongside an envelope.
type Summary struct {
	Floors          []FloorSummary `json:"floors"`
	BuildableFloors int            `json:"buildable_floors"`
	TotalFloorArea  float64        `json:"total_floor_area"`
	// CappedFloorArea is TotalFloorArea limited to the floor-area ratio.
	CappedFloorArea float64 `json:"capped_floor_area"`
	CoverageRatio   float64 `json:"coverage_ratio"`
	FloorAreaRatio  float64 `json:"floor_area_ratio"`
	LargestFloor    int     `json:"largest_floor"`
}

// Summarize reports per-floor and total areas. Ratios are percentages of the
// parcel area.
func Summarize(e *Envelope) Summary {
	var s Summary
	if e == nil {
		return s
	}
	areas := make([]float64, len(e.FloorPolygons))
	for i, p := range e.FloorPolygons {
		fs := FloorSummary{Floor: i + 1}
		if p != nil {
			fs.Area = p.Area()
			fs.Buildable = true
			s.BuildableFloors++
		}
		areas[i] = fs.Area
		s.Floors = append(s.Floors, fs)
	}
	if len(areas) > 0 {
		s.TotalFloorArea = floats.Sum(areas)
		s.LargestFloor = floats.MaxIdx(areas) + 1
	}
	s.CappedFloorArea = min(s.TotalFloorArea, e.MaxTotalFloorArea)
	if e.ParcelArea > 0 {
		s.CoverageRatio = e.FootprintArea / e.ParcelArea * 100
		s.FloorAreaRatio = s.TotalFloorArea / e.ParcelArea * 100
	}
	return s
}
