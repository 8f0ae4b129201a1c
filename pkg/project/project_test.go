package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yijongkuk/mdmd/pkg/placement"
	"github.com/yijongkuk/mdmd/pkg/projection"
	"github.com/yijongkuk/mdmd/pkg/zoning"
)

const sample = `version: "1"
name: seongsu lot
parcel:
  area: 240
  zone: general_residential_2
  boundary:
    - [127.0, 37.5]
    - [127.0002, 37.5]
    - [127.0002, 37.5002]
    - [127.0, 37.5002]
grid:
  offset_x: 0.5
  offset_z: 0
modules:
  - id: m3x2
    name: studio
    width_cells: 3
    depth_cells: 2
    unit_price: 42000000
  - id: m2x2
    name: core
    width_cells: 2
    depth_cells: 2
    unit_price: 30000000
placements:
  - id: p1
    module_id: m3x2
    grid_x: 1
    grid_z: 1
    rotation: 0
    floor: 1
  - id: p2
    module_id: m2x2
    grid_x: 5
    grid_z: 1
    rotation: 270
    floor: 2
    custom_color: "#aa3300"
`

func writeProject(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
	return dir
}

func TestLoadProject(t *testing.T) {
	p, err := LoadProject(writeProject(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "seongsu lot", p.Name)
	assert.Equal(t, zoning.GeneralResidential2, p.Parcel.Zone)
	assert.Equal(t, placement.Grid{OffsetX: 0.5}, p.Grid)
	require.Len(t, p.Modules, 2)
	require.Len(t, p.Records, 2)
	assert.Equal(t, "#aa3300", p.Records[1].CustomColor)

	m, ok := p.Module("m2x2")
	require.True(t, ok)
	assert.Equal(t, "core", m.Name)
	_, ok = p.Module("missing")
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadProject(t.TempDir())
	assert.Error(t, err)

	_, err = LoadProject(writeProject(t, "parcel: [unclosed"))
	assert.Error(t, err)

	_, err = LoadProject(writeProject(t, "parcel:\n  zone: downtown\n"))
	assert.Error(t, err)
}

func TestPlacements(t *testing.T) {
	p, err := LoadProject(writeProject(t, sample))
	require.NoError(t, err)

	pls, err := p.Placements()
	require.NoError(t, err)
	require.Len(t, pls, 2)
	assert.Equal(t, placement.Placement{ID: "p1", GridX: 1, GridZ: 1, Floor: 1, WidthCells: 3, DepthCells: 2}, pls[0])
	assert.Equal(t, placement.Rot270, pls[1].Rotation)

	p.Records[0].ModuleID = "gone"
	_, err = p.Placements()
	assert.ErrorContains(t, err, "unknown module")

	p.Records[0].ModuleID = "m3x2"
	p.Records[0].Rotation = 45
	_, err = p.Placements()
	assert.Error(t, err)
}

func TestItems(t *testing.T) {
	p, err := LoadProject(writeProject(t, sample))
	require.NoError(t, err)

	items, err := p.Items()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "studio", items[0].Module.Name)
	assert.Equal(t, "p2", items[1].Placement.ID)
	assert.Equal(t, "#aa3300", items[1].CustomColor)
}

func TestParcelInputProjectsBoundary(t *testing.T) {
	p, err := LoadProject(writeProject(t, sample))
	require.NoError(t, err)

	in, proj, err := p.ParcelInput()
	require.NoError(t, err)
	assert.Equal(t, projection.LonLat{Lon: 127.0001, Lat: 37.5001}, roundLL(proj.Reference()))
	require.Len(t, in.Boundary, 4)
	assert.InDelta(t, 0, in.Boundary.Centroid().X, 1e-6)
	assert.InDelta(t, 0, in.Boundary.Centroid().Z, 1e-6)
	assert.Equal(t, 240.0, in.Area)

	env, _, err := p.Envelope()
	require.NoError(t, err)
	assert.False(t, env.Empty())
	assert.LessOrEqual(t, env.FootprintArea, 240*0.6+1e-6)
}

func TestExplicitReferenceAndOverride(t *testing.T) {
	p := &Project{Parcel: Parcel{
		Area:       100,
		Zone:       zoning.GeneralResidential1,
		Reference:  &projection.LonLat{Lon: 127, Lat: 37},
		Regulation: &zoning.Regulation{MaxCoverageRatio: 30, MaxFloorAreaRatio: 90},
	}}
	proj, err := p.Projector()
	require.NoError(t, err)
	assert.Equal(t, projection.LonLat{Lon: 127, Lat: 37}, proj.Reference())
	assert.Equal(t, 30.0, p.Regulation().MaxCoverageRatio)

	in, _, err := p.ParcelInput()
	require.NoError(t, err)
	assert.Empty(t, in.Boundary)

	p.Parcel.Regulation = nil
	assert.Equal(t, 60.0, p.Regulation().MaxCoverageRatio)
}

func TestBoundaryInKoreanGrid(t *testing.T) {
	p := &Project{Parcel: Parcel{
		CRS:      "EPSG:5186",
		Boundary: [][2]float64{{200000, 600000}, {200020, 600000}, {200020, 600015}, {200000, 600015}},
	}}
	ring, err := p.GeodeticBoundary()
	require.NoError(t, err)
	require.Len(t, ring, 4)
	assert.InDelta(t, 127, ring[0].Lon, 1e-6)

	in, _, err := p.ParcelInput()
	require.NoError(t, err)
	// The local frame is equirectangular about the centroid, so a 20x15 m
	// survey comes back within a percent of its true area.
	assert.InEpsilon(t, 300, in.Boundary.Area(), 0.01)

	p.Parcel.CRS = "EPSG:9999"
	_, err = p.GeodeticBoundary()
	assert.Error(t, err)
}

func TestBoundaryFileAndObstacles(t *testing.T) {
	dir := writeProject(t, `parcel:
  area: 400
  zone: semi_residential
  boundary_file: parcel.geojson
obstacles: around.geojson
modules: []
placements: []
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "parcel.geojson"), []byte(`{"type":"Polygon","coordinates":[[[127,37.5],[127.0002,37.5],[127.0002,37.5002],[127,37.5]]]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "around.geojson"), []byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[127,37.4999],[127.001,37.4999]]}}]}`), 0o644))

	p, err := LoadProject(dir)
	require.NoError(t, err)
	ring, err := p.GeodeticBoundary()
	require.NoError(t, err)
	assert.Len(t, ring, 3)

	_, proj, err := p.ParcelInput()
	require.NoError(t, err)
	obs, err := p.LoadObstacles(proj)
	require.NoError(t, err)
	assert.Len(t, obs.Roads, 1)

	p.Obstacles = "missing.geojson"
	_, err = p.LoadObstacles(proj)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	p, err := LoadProject(writeProject(t, sample))
	require.NoError(t, err)

	rec, err := p.AddPlacement("m2x2", 8, 8, 1, placement.Rot90)
	require.NoError(t, err)
	_, err = uuid.FromString(rec.ID)
	assert.NoError(t, err)

	moved := placement.Placement{ID: "p1", GridX: 4, GridZ: 6, Floor: 2, Rotation: placement.Rot180}
	require.NoError(t, p.Apply(moved))
	assert.Error(t, p.Apply(placement.Placement{ID: "nope"}))
	_, err = p.AddPlacement("nope", 0, 0, 1, placement.Rot0)
	assert.Error(t, err)

	out := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, p.Save(out))
	back, err := Load(out)
	require.NoError(t, err)

	back.dir, p.dir = "", ""
	assert.Equal(t, p, back)
	assert.Equal(t, 180, back.Records[0].Rotation)
	assert.Equal(t, 4, back.Records[0].GridX)
}

func TestNewPlacementIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		id, err := NewPlacementID()
		require.NoError(t, err)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func roundLL(ll projection.LonLat) projection.LonLat {
	const q = 1e7
	return projection.LonLat{Lon: float64(int64(ll.Lon*q+0.5)) / q, Lat: float64(int64(ll.Lat*q+0.5)) / q}
}
