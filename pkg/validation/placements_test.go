package validation

import (
	"testing"

	"github.com/yijongkuk/mdmd/pkg/envelope"
	"github.com/yijongkuk/mdmd/pkg/placement"
	"github.com/yijongkuk/mdmd/pkg/zoning"
)

func testEnvelope(t *testing.T) *envelope.Envelope {
	t.Helper()
	e, err := envelope.DeriveForZone(envelope.ParcelInput{Area: 200, Zone: zoning.GeneralResidential1})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	return e
}

func box(id string, gx, gz, floor int) placement.Placement {
	return placement.Placement{ID: id, GridX: gx, GridZ: gz, Floor: floor, WidthCells: 2, DepthCells: 2}
}

func TestValidatePlacementsClean(t *testing.T) {
	e := testEnvelope(t)
	pls := []placement.Placement{box("a", 0, 0, 1), box("b", -3, -3, 1), box("c", 0, 0, 2)}
	r := ValidatePlacements(pls, e, placement.NewKernel(placement.Grid{}))
	if !r.Valid {
		t.Fatalf("expected valid, got %v", r.Errors)
	}
	if len(r.Info) != 1 {
		t.Errorf("expected a summary info, got %v", r.Info)
	}
}

func TestValidatePlacementsFindings(t *testing.T) {
	e := testEnvelope(t)
	pls := []placement.Placement{
		box("a", 0, 0, 1),
		box("b", 1, 1, 1),
		box("c", 5, 0, 1),
		box("d", 0, 0, 5),
	}
	r := ValidatePlacements(pls, e, placement.NewKernel(placement.Grid{}))
	if r.Valid {
		t.Fatal("expected invalid report")
	}
	if len(r.Errors) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(r.Errors), r.Errors)
	}

	want := map[string]string{
		"placements[0]":       string(placement.ReasonCollision),
		"placements[1]":       string(placement.ReasonCollision),
		"placements[2]":       string(placement.ReasonOutOfBounds),
		"placements[3].floor": "",
	}
	for _, res := range r.Errors {
		reason, ok := want[res.Path]
		if !ok {
			t.Errorf("unexpected error at %s: %s", res.Path, res.Message)
			continue
		}
		if reason != "" && res.ActualValue != reason {
			t.Errorf("%s: reason %v, want %s", res.Path, res.ActualValue, reason)
		}
	}
	if got := r.Errors[0].ConflictWith; len(got) != 1 || got[0] != "b" {
		t.Errorf("a should conflict with b, got %v", got)
	}
}

func TestFromEnvelope(t *testing.T) {
	e := testEnvelope(t)
	r := FromEnvelope(e)
	if !r.Valid {
		t.Errorf("healthy envelope should be valid, got %v", r.Errors)
	}

	tower, err := envelope.Derive(
		envelope.ParcelInput{Boundary: envelope.DefaultBoundary(100)},
		zoning.Regulation{MaxCoverageRatio: 100, MaxFloorAreaRatio: 2000},
	)
	if err != nil {
		t.Fatal(err)
	}
	r = FromEnvelope(tower)
	if !r.Valid {
		t.Errorf("solar removals are warnings, got errors %v", r.Errors)
	}
	if len(r.Warnings) == 0 {
		t.Fatal("expected solar warnings")
	}
	if r.Warnings[0].Level != LevelEnvelope {
		t.Errorf("level = %s", r.Warnings[0].Level)
	}

	collapsed, err := envelope.Derive(
		envelope.ParcelInput{Area: 4},
		zoning.Regulation{MaxCoverageRatio: 60, MaxFloorAreaRatio: 200, SetbackFront: 3},
	)
	if err != nil {
		t.Fatal(err)
	}
	r = FromEnvelope(collapsed)
	if r.Valid {
		t.Error("collapsed envelope should be invalid")
	}
}

func TestFromNilEnvelope(t *testing.T) {
	if FromEnvelope(nil).Valid {
		t.Error("nil envelope should be invalid")
	}
}
