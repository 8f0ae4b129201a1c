package cost

import (
	"math"
	"testing"

	"github.com/yijongkuk/mdmd/pkg/placement"
	"github.com/yijongkuk/mdmd/pkg/project"
)

func testItems() []project.Item {
	studio := project.ModuleDef{ID: "m3x2", Name: "studio", WidthCells: 3, DepthCells: 2, UnitPrice: 42_000_000}
	core := project.ModuleDef{ID: "m2x2", Name: "core", WidthCells: 2, DepthCells: 2, UnitPrice: 30_000_000}
	item := func(id string, m project.ModuleDef, floor int) project.Item {
		return project.Item{
			Placement: placement.Placement{ID: id, Floor: floor, WidthCells: m.WidthCells, DepthCells: m.DepthCells},
			Module:    m,
		}
	}
	return []project.Item{
		item("a", studio, 1),
		item("b", core, 1),
		item("c", studio, 2),
	}
}

func TestEstimateLayout(t *testing.T) {
	report := Estimate(testItems(), Options{})

	if report.Summary.Modules != 3 {
		t.Errorf("modules = %d, want 3", report.Summary.Modules)
	}
	if report.Summary.Area != 16 {
		t.Errorf("area = %.1f, want 16", report.Summary.Area)
	}

	wantModules := 114_000_000.0
	if report.Total.Modules != wantModules {
		t.Errorf("module cost = %.0f, want %.0f", report.Total.Modules, wantModules)
	}
	if report.Total.Transport != 3*TransportCostPerModule || report.Total.Crane != 3*CraneCostPerModule {
		t.Errorf("site work = %.0f/%.0f", report.Total.Transport, report.Total.Crane)
	}
	// Only the 6 m² studio and 4 m² core on floor 1 need a foundation.
	if report.Total.Foundation != 10*FoundationCostPerM2 {
		t.Errorf("foundation = %.0f, want %.0f", report.Total.Foundation, 10*FoundationCostPerM2)
	}
	sum := report.Total.Modules + report.Total.Transport + report.Total.Crane + report.Total.Foundation
	if report.Total.Total != sum || report.Summary.TotalConstruction != sum {
		t.Errorf("total = %.0f, want %.0f", report.Total.Total, sum)
	}
	if math.Abs(report.Summary.PerM2-sum/16) > 1e-6 {
		t.Errorf("per m2 = %.2f", report.Summary.PerM2)
	}
	if report.Summary.AnnualDebtService != 0 {
		t.Error("no financing terms should mean no debt service")
	}
}

func TestEstimateFloorBreakdown(t *testing.T) {
	report := Estimate(testItems(), DefaultOptions())

	if len(report.Floors) != 2 {
		t.Fatalf("expected 2 floors, got %d", len(report.Floors))
	}
	f1, f2 := report.Floors[0], report.Floors[1]
	if f1.Floor != 1 || f2.Floor != 2 {
		t.Errorf("floors out of order: %d, %d", f1.Floor, f2.Floor)
	}
	if f1.Modules != 2 || f1.Area != 10 {
		t.Errorf("floor 1 = %d modules / %.1f m2", f1.Modules, f1.Area)
	}
	if f2.Cost.Foundation != 0 {
		t.Error("upper floors carry no foundation")
	}
	if math.Abs(f1.Cost.Total+f2.Cost.Total-report.Total.Total) > 1e-6 {
		t.Error("floor totals should sum to the grand total")
	}
	if report.Summary.AnnualDebtService <= 0 || report.Summary.MonthlyPayment <= 0 {
		t.Error("expected positive debt service with default terms")
	}
}

func TestEstimateByModule(t *testing.T) {
	report := Estimate(testItems(), Options{})
	if len(report.ByModule) != 2 {
		t.Fatalf("expected 2 module rows, got %d", len(report.ByModule))
	}
	core, studio := report.ByModule[0], report.ByModule[1]
	if core.ModuleID != "m2x2" || core.Count != 1 || core.Subtotal != 30_000_000 {
		t.Errorf("core row = %+v", core)
	}
	if studio.ModuleID != "m3x2" || studio.Count != 2 || studio.Subtotal != 84_000_000 {
		t.Errorf("studio row = %+v", studio)
	}
}

func TestEstimateEmpty(t *testing.T) {
	report := Estimate(nil, DefaultOptions())
	if report.Total.Total != 0 || report.Summary.PerM2 != 0 {
		t.Errorf("empty layout should cost nothing, got %+v", report.Total)
	}
	if report.Floors == nil || report.ByModule == nil {
		t.Error("slices should be non-nil for JSON output")
	}
}

func TestAnnuityFormula(t *testing.T) {
	// ₩1M at 5% for 30 years
	annual := computeAnnualDebtService(1_000_000, 0.05, 30)
	// Expected: ~65,051 (standard amortization)
	if math.Abs(annual-65051) > 100 {
		t.Errorf("annuity = %.0f, want ~65,051", annual)
	}
}

func TestAnnuityZeroRate(t *testing.T) {
	annual := computeAnnualDebtService(1_000_000, 0, 30)
	expected := 1_000_000.0 / 30.0
	if math.Abs(annual-expected) > 1 {
		t.Errorf("annuity at 0%% = %.0f, want %.0f", annual, expected)
	}
}

func TestAnnuityZeroTerm(t *testing.T) {
	annual := computeAnnualDebtService(1_000_000, 0.05, 0)
	if annual != 0 {
		t.Errorf("annuity at 0 term = %.0f, want 0", annual)
	}
}
