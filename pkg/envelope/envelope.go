// Package envelope derives the three-dimensional buildable envelope of a
// parcel from its surveyed boundary and zoning regulation.
//
// Derivation is a pure function of its inputs. Geometry that collapses along
// the way (a setback that consumes the parcel, a floor removed by the solar
// slope) degrades the envelope and is recorded as a Note; only inputs that
// cannot describe a parcel at all are returned as errors.
package envelope

import (
	"errors"
	"fmt"
	"math"

	"github.com/yijongkuk/mdmd/pkg/geo"
	"github.com/yijongkuk/mdmd/pkg/zoning"
)

const (
	// FloorHeight is the storey height of a prefab module, in meters.
	FloorHeight = 3.0
	// SolarThresholdHeight is the height above which the north slope applies.
	SolarThresholdHeight = 9.0
	// SolarSlopeDivisor converts excess height into northern setback.
	SolarSlopeDivisor = 2.0
	// MinFloors is the floor count an envelope never drops below.
	MinFloors = 2
)

var (
	// ErrNoParcel is returned when neither a boundary nor a positive area is given.
	ErrNoParcel = errors.New("envelope: parcel needs a boundary or a positive area")
	// ErrNonFinite is returned for NaN or infinite input coordinates.
	ErrNonFinite = errors.New("envelope: non-finite coordinate")
)

// ParcelInput describes the land being built on. Boundary is optional; when
// absent a square of the given area centered on the origin is assumed.
type ParcelInput struct {
	Area     float64     `json:"area" yaml:"area"`
	Zone     zoning.Zone `json:"zone" yaml:"zone"`
	Boundary geo.Ring    `json:"boundary,omitempty" yaml:"boundary,omitempty"`
}

// Severity grades a Note.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Note records a degradation that happened while deriving an envelope.
// Floor is 1-based, or 0 when the note concerns the whole envelope.
type Note struct {
	Severity Severity `json:"severity"`
	Floor    int      `json:"floor,omitempty"`
	Message  string   `json:"message"`
}

// Envelope is the buildable volume of a parcel.
type Envelope struct {
	Boundary       geo.Ring `json:"boundary"`
	SetbackPolygon geo.Ring `json:"setback_polygon"`
	Footprint      geo.Ring `json:"footprint"`
	HeightMeters   float64  `json:"height_meters"`
	Floors         int      `json:"floors"`
	// FloorPolygons[i] is the shape of floor i+1; nil marks a floor that is
	// not buildable.
	FloorPolygons []geo.Ring `json:"floor_polygons"`

	ParcelArea        float64 `json:"parcel_area"`
	SetbackDistance   float64 `json:"setback_distance"`
	SetbackArea       float64 `json:"setback_area"`
	FootprintArea     float64 `json:"footprint_area"`
	MaxFootprintArea  float64 `json:"max_footprint_area"`
	MaxTotalFloorArea float64 `json:"max_total_floor_area"`
	FloorsFromRatio   int     `json:"floors_from_ratio"`
	ScaleFactor       float64 `json:"scale_factor"`

	Notes []Note `json:"notes,omitempty"`
}

// Empty reports whether the envelope has no buildable footprint.
func (e *Envelope) Empty() bool {
	return e == nil || !e.Footprint.IsValid()
}

// BuildableFloors returns the polygons of the floors that survived the solar
// clip, in floor order.
func (e *Envelope) BuildableFloors() []geo.Ring {
	var out []geo.Ring
	for _, p := range e.FloorPolygons {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// BoundaryForFloor returns the containment polygon for placements on floor
// (1-based), or nil when that floor cannot be built on.
func (e *Envelope) BoundaryForFloor(floor int) geo.Ring {
	if e == nil || floor < 1 || floor > len(e.FloorPolygons) {
		return nil
	}
	return e.FloorPolygons[floor-1]
}

func (e *Envelope) note(sev Severity, floor int, format string, args ...any) {
	e.Notes = append(e.Notes, Note{Severity: sev, Floor: floor, Message: fmt.Sprintf(format, args...)})
}

// DefaultBoundary is the assumed parcel when no survey is available: a
// square of the given area centered on the origin.
func DefaultBoundary(area float64) geo.Ring {
	half := math.Sqrt(area) / 2
	return geo.Rectangle(-half, -half, half, half)
}

// DeriveForZone looks up the regulation for in.Zone and derives the envelope.
func DeriveForZone(in ParcelInput) (*Envelope, error) {
	return Derive(in, zoning.RegulationFor(in.Zone))
}

// Derive computes the buildable envelope:
//
//  1. inset the boundary by the site setback
//  2. scale the inset toward its centroid until it meets the coverage cap
//  3. floors = floor(FAR area / footprint area), capped by max floors and
//     max height, and never below MinFloors
//  4. clip each floor above the solar threshold against the north slope
func Derive(in ParcelInput, reg zoning.Regulation) (*Envelope, error) {
	if math.IsNaN(in.Area) || math.IsInf(in.Area, 0) {
		return nil, ErrNonFinite
	}
	for _, p := range in.Boundary {
		if !p.IsFinite() {
			return nil, ErrNonFinite
		}
	}

	boundary := in.Boundary.Clone()
	if len(boundary) == 0 {
		if in.Area <= 0 {
			return nil, ErrNoParcel
		}
		boundary = DefaultBoundary(in.Area)
	}

	e := &Envelope{
		Boundary:        boundary,
		ParcelArea:      in.Area,
		SetbackDistance: reg.SiteSetback(),
		ScaleFactor:     1,
	}
	if e.ParcelArea <= 0 {
		e.ParcelArea = boundary.Area()
	}
	e.MaxFootprintArea = e.ParcelArea * reg.MaxCoverageRatio / 100
	e.MaxTotalFloorArea = e.ParcelArea * reg.MaxFloorAreaRatio / 100

	setback, err := geo.Inset(boundary, e.SetbackDistance)
	if err != nil {
		e.note(SeverityError, 0, "setback of %.2f m leaves no buildable area: %v", e.SetbackDistance, err)
		return e, nil
	}
	e.SetbackPolygon = setback
	e.SetbackArea = setback.Area()

	footprint := setback.Clone()
	if e.SetbackArea > e.MaxFootprintArea {
		if e.MaxFootprintArea <= 0 {
			e.note(SeverityError, 0, "coverage ratio %.1f%% allows no footprint", reg.MaxCoverageRatio)
			return e, nil
		}
		e.ScaleFactor = math.Sqrt(e.MaxFootprintArea / e.SetbackArea)
		footprint = setback.ScaleAbout(setback.Centroid(), e.ScaleFactor)
		if escapes(footprint, setback) {
			e.note(SeverityInfo, 0, "scaled footprint extends past the setback line; the setback polygon is not convex enough for uniform scaling")
		}
	}
	e.Footprint = footprint
	e.FootprintArea = footprint.Area()

	e.FloorsFromRatio = floorsFromRatio(e.MaxTotalFloorArea, e.FootprintArea)
	e.Floors = effectiveFloors(e.FloorsFromRatio, reg)
	if e.Floors > e.FloorsFromRatio {
		e.note(SeverityInfo, 0, "floor-area ratio allows %d floors, raised to the minimum of %d", e.FloorsFromRatio, MinFloors)
	}
	e.HeightMeters = float64(e.Floors) * FloorHeight

	e.FloorPolygons = SolarFloors(footprint, e.Floors)
	for i, p := range e.FloorPolygons {
		if p == nil {
			e.note(SeverityWarning, i+1, "floor %d removed by the north solar slope", i+1)
		}
	}
	return e, nil
}

// escapes reports whether any footprint vertex lies outside setback. Scaling
// toward the centroid keeps a convex polygon inside itself but not a concave
// one.
func escapes(footprint, setback geo.Ring) bool {
	for _, v := range footprint {
		if !setback.Contains(v) {
			return true
		}
	}
	return false
}

func floorsFromRatio(maxTotalFloorArea, footprintArea float64) int {
	if footprintArea <= 0 {
		return 0
	}
	return int(math.Floor(maxTotalFloorArea/footprintArea + 1e-9))
}

func effectiveFloors(fromRatio int, reg zoning.Regulation) int {
	floors := fromRatio
	if reg.MaxFloors > 0 && reg.MaxFloors < floors {
		floors = reg.MaxFloors
	}
	if reg.MaxHeight > 0 {
		if byHeight := int(math.Floor(reg.MaxHeight/FloorHeight + 1e-9)); byHeight < floors {
			floors = byHeight
		}
	}
	return max(floors, MinFloors)
}
