package envelope

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yijongkuk/mdmd/pkg/geo"
	"github.com/yijongkuk/mdmd/pkg/zoning"
)

// tower is a 10 m square with no setback, full coverage and enough floor-area
// ratio for sixteen floors.
func tower() (ParcelInput, zoning.Regulation) {
	in := ParcelInput{Boundary: geo.Rectangle(0, 0, 10, 10)}
	reg := zoning.Regulation{MaxCoverageRatio: 100, MaxFloorAreaRatio: 1600}
	return in, reg
}

func TestDeriveScenarioDefaultParcel(t *testing.T) {
	reg := zoning.Regulation{MaxCoverageRatio: 60, MaxFloorAreaRatio: 200}
	e, err := Derive(ParcelInput{Area: 200}, reg)
	require.NoError(t, err)

	assert.InDelta(t, 200, e.Boundary.Area(), 1e-9)
	assert.InDelta(t, 120, e.FootprintArea, 1e-6)
	assert.InDelta(t, 400, e.MaxTotalFloorArea, 1e-9)
	assert.Equal(t, 3, e.FloorsFromRatio)
	assert.Equal(t, 3, e.Floors)
	assert.Equal(t, 9.0, e.HeightMeters)
	assert.Len(t, e.FloorPolygons, 3)
	assert.Len(t, e.BuildableFloors(), 3)
	assert.Empty(t, e.Notes)
}

func TestDeriveForZoneAppliesSetback(t *testing.T) {
	e, err := DeriveForZone(ParcelInput{Area: 200, Zone: zoning.GeneralResidential1})
	require.NoError(t, err)

	side := math.Sqrt(200) - 2
	assert.Equal(t, 1.0, e.SetbackDistance)
	assert.InDelta(t, side*side, e.SetbackArea, 1e-6)
	assert.InDelta(t, 120, e.FootprintArea, 1e-6)
	assert.Less(t, e.ScaleFactor, 1.0)
	assert.Equal(t, 3, e.Floors)

	// Scaling is about the setback centroid, which is the origin here.
	c := e.Footprint.Centroid()
	assert.InDelta(t, 0, c.X, 1e-9)
	assert.InDelta(t, 0, c.Z, 1e-9)
}

func TestDeriveCoverageCap(t *testing.T) {
	for _, area := range []float64{50, 120.5, 200, 333, 1000, 5000} {
		for _, coverage := range []float64{20, 40, 50, 60, 70, 90, 100} {
			reg := zoning.Regulation{MaxCoverageRatio: coverage, MaxFloorAreaRatio: 300, SetbackFront: 0.5}
			e, err := Derive(ParcelInput{Area: area}, reg)
			require.NoError(t, err)
			require.False(t, e.Empty(), "area %v coverage %v", area, coverage)
			assert.LessOrEqual(t, e.FootprintArea, area*coverage/100+1e-6, "area %v coverage %v", area, coverage)
		}
	}
}

func TestDeriveFlagsConcaveScaling(t *testing.T) {
	// A U whose centroid falls in the notch: scaled toward it, the tips of the
	// arms land inside the notch.
	u := geo.Ring{{X: 0, Z: 0}, {X: 10, Z: 0}, {X: 10, Z: 10}, {X: 8, Z: 10}, {X: 8, Z: 2}, {X: 2, Z: 2}, {X: 2, Z: 10}, {X: 0, Z: 10}}
	reg := zoning.Regulation{MaxCoverageRatio: 50, MaxFloorAreaRatio: 100}
	e, err := Derive(ParcelInput{Boundary: u}, reg)
	require.NoError(t, err)

	assert.InDelta(t, 26, e.FootprintArea, 1e-6)
	require.Len(t, e.Notes, 1)
	assert.Equal(t, SeverityInfo, e.Notes[0].Severity)
	assert.Contains(t, e.Notes[0].Message, "setback line")

	// A convex parcel scaled the same way stays inside and says nothing.
	e, err = Derive(ParcelInput{Boundary: geo.Rectangle(0, 0, 10, 10)}, reg)
	require.NoError(t, err)
	assert.Empty(t, e.Notes)
}

func TestDeriveUsesBoundaryAreaWhenAreaMissing(t *testing.T) {
	reg := zoning.Regulation{MaxCoverageRatio: 50, MaxFloorAreaRatio: 100}
	e, err := Derive(ParcelInput{Boundary: geo.Rectangle(0, 0, 20, 10)}, reg)
	require.NoError(t, err)
	assert.Equal(t, 200.0, e.ParcelArea)
	assert.InDelta(t, 100, e.FootprintArea, 1e-6)
	assert.Equal(t, 2, e.Floors)
}

func TestDeriveMinimumFloors(t *testing.T) {
	reg := zoning.Regulation{MaxCoverageRatio: 60, MaxFloorAreaRatio: 50}
	e, err := Derive(ParcelInput{Area: 100}, reg)
	require.NoError(t, err)
	assert.Equal(t, 0, e.FloorsFromRatio)
	assert.Equal(t, MinFloors, e.Floors)
	require.Len(t, e.Notes, 1)
	assert.Equal(t, SeverityInfo, e.Notes[0].Severity)
}

func TestDeriveCaps(t *testing.T) {
	reg := zoning.Regulation{MaxCoverageRatio: 50, MaxFloorAreaRatio: 1000, MaxHeight: 12}
	e, err := Derive(ParcelInput{Area: 400}, reg)
	require.NoError(t, err)
	assert.Equal(t, 20, e.FloorsFromRatio)
	assert.Equal(t, 4, e.Floors)

	reg.MaxFloors = 3
	e, err = Derive(ParcelInput{Area: 400}, reg)
	require.NoError(t, err)
	assert.Equal(t, 3, e.Floors)
	assert.Equal(t, 9.0, e.HeightMeters)
}

func TestDeriveSolarSteps(t *testing.T) {
	in, reg := tower()
	e, err := Derive(in, reg)
	require.NoError(t, err)

	require.Equal(t, 16, e.Floors)
	require.Len(t, e.FloorPolygons, 16)
	assert.Equal(t, 1.0, e.ScaleFactor)

	want := []float64{100, 100, 100, 85, 70, 55, 40, 25, 10}
	for i, area := range want {
		require.NotNil(t, e.FloorPolygons[i], "floor %d", i+1)
		assert.InDelta(t, area, e.FloorPolygons[i].Area(), 1e-9, "floor %d", i+1)
	}
	for f := 10; f <= 16; f++ {
		assert.Nil(t, e.BoundaryForFloor(f), "floor %d", f)
	}
	assert.Len(t, e.BuildableFloors(), 9)

	var warnings int
	for _, n := range e.Notes {
		if n.Severity == SeverityWarning {
			warnings++
			assert.GreaterOrEqual(t, n.Floor, 10)
		}
	}
	assert.Equal(t, 7, warnings)
}

func TestDeriveSetbackCollapseDegrades(t *testing.T) {
	reg := zoning.Regulation{MaxCoverageRatio: 60, MaxFloorAreaRatio: 200, SetbackRear: 2}
	e, err := Derive(ParcelInput{Boundary: geo.Rectangle(0, 0, 3, 3)}, reg)
	require.NoError(t, err)
	assert.True(t, e.Empty())
	assert.Nil(t, e.FloorPolygons)
	require.Len(t, e.Notes, 1)
	assert.Equal(t, SeverityError, e.Notes[0].Severity)
}

func TestDeriveRejectsImpossibleInput(t *testing.T) {
	reg := zoning.RegulationFor(zoning.GeneralResidential2)

	_, err := Derive(ParcelInput{}, reg)
	assert.ErrorIs(t, err, ErrNoParcel)

	_, err = Derive(ParcelInput{Area: math.NaN()}, reg)
	assert.ErrorIs(t, err, ErrNonFinite)

	bad := geo.Rectangle(0, 0, 10, 10)
	bad[2].X = math.Inf(1)
	_, err = Derive(ParcelInput{Boundary: bad}, reg)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestDeriveIsIdempotent(t *testing.T) {
	in := ParcelInput{
		Area:     260,
		Zone:     zoning.GeneralResidential3,
		Boundary: geo.Ring{{X: 0, Z: 0}, {X: 18, Z: 0}, {X: 18, Z: 9}, {X: 9, Z: 9}, {X: 9, Z: 16}, {X: 0, Z: 16}},
	}
	first, err := DeriveForZone(in)
	require.NoError(t, err)
	second, err := DeriveForZone(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, geo.Point2D{X: 18, Z: 0}, in.Boundary[1], "input must not be mutated")
}

func TestClipFloor(t *testing.T) {
	fp := geo.Rectangle(0, 0, 10, 10)
	for f := 1; f <= 3; f++ {
		assert.Equal(t, fp, ClipFloor(fp, f))
	}
	got := ClipFloor(fp, 4)
	assert.InDelta(t, 8.5, got.MaxZ(), 1e-12)
	assert.Nil(t, ClipFloor(fp, 12))
	assert.Nil(t, ClipFloor(nil, 1))

	bound, applies := SolarBound(10, 3)
	assert.False(t, applies)
	assert.Equal(t, 10.0, bound)
	bound, applies = SolarBound(10, 5)
	assert.True(t, applies)
	assert.Equal(t, 7.0, bound)
}

func TestSolarFloorsIsMonotonic(t *testing.T) {
	fp := geo.Ring{{X: 0, Z: 0}, {X: 12, Z: 0}, {X: 14, Z: 8}, {X: 6, Z: 13}, {X: -2, Z: 7}}
	floors := SolarFloors(fp, 14)
	prev := math.Inf(1)
	for i, p := range floors {
		area := p.Area()
		assert.LessOrEqual(t, area, prev+1e-9, "floor %d", i+1)
		prev = area
	}
	assert.Nil(t, SolarFloors(fp, 0))
}

func TestSummarize(t *testing.T) {
	in, reg := tower()
	e, err := Derive(in, reg)
	require.NoError(t, err)

	s := Summarize(e)
	require.Len(t, s.Floors, 16)
	assert.Equal(t, 9, s.BuildableFloors)
	assert.InDelta(t, 585, s.TotalFloorArea, 1e-9)
	assert.InDelta(t, 585, s.CappedFloorArea, 1e-9)
	assert.InDelta(t, 100, s.CoverageRatio, 1e-9)
	assert.InDelta(t, 585, s.FloorAreaRatio, 1e-9)
	assert.Equal(t, 1, s.LargestFloor)
	assert.False(t, s.Floors[12].Buildable)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func BenchmarkDerive(b *testing.B) {
	in := ParcelInput{Area: 330, Zone: zoning.GeneralResidential2}
	for b.Loop() {
		if _, err := DeriveForZone(in); err != nil {
			b.Fatal(err)
		}
	}
}
