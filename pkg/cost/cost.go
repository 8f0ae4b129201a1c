// Package cost estimates what a module layout costs to build.
package cost

import (
	"cmp"
	"math"
	"slices"

	"github.com/yijongkuk/mdmd/pkg/placement"
	"github.com/yijongkuk/mdmd/pkg/project"
)

// Breakdown itemizes costs by category.
type Breakdown struct {
	Modules    float64 `json:"modules"`
	Transport  float64 `json:"transport"`
	Crane      float64 `json:"crane"`
	Foundation float64 `json:"foundation"`
	Total      float64 `json:"total"`
}

// FloorCost is the cost of one floor's modules.
type FloorCost struct {
	Floor   int       `json:"floor"`
	Modules int       `json:"modules"`
	Area    float64   `json:"area"`
	Cost    Breakdown `json:"cost"`
}

// ModuleCost totals one catalog entry.
type ModuleCost struct {
	ModuleID  string  `json:"module_id"`
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// Options sets the financing terms for the summary.
type Options struct {
	InterestRate float64 `json:"interest_rate"`
	TermYears    int     `json:"term_years"`
}

// DefaultOptions returns the default financing terms.
func DefaultOptions() Options {
	return Options{InterestRate: DefaultInterestRate, TermYears: DefaultTermYears}
}

// Report is the complete cost output.
type Report struct {
	Floors   []FloorCost  `json:"floors"`
	ByModule []ModuleCost `json:"by_module"`
	Total    Breakdown    `json:"total"`

	Summary struct {
		Modules           int     `json:"modules"`
		Area              float64 `json:"area"`
		TotalConstruction float64 `json:"total_construction"`
		PerM2             float64 `json:"per_m2"`
		AnnualDebtService float64 `json:"annual_debt_service"`
		MonthlyPayment    float64 `json:"monthly_payment"`
	} `json:"summary"`
}

// Estimate prices a layout: catalog unit prices plus per-module site work,
// with a foundation under every ground-floor module.
func Estimate(items []project.Item, opts Options) *Report {
	report := &Report{Floors: []FloorCost{}, ByModule: []ModuleCost{}}

	floors := map[int]*FloorCost{}
	modules := map[string]*ModuleCost{}

	for _, it := range items {
		p := it.Placement
		area := float64(p.WidthCells*p.DepthCells) * placement.CellSize * placement.CellSize

		foundation := 0.0
		if p.Floor == 1 {
			foundation = area * FoundationCostPerM2
		}
		b := makeBreakdown(it.Module.UnitPrice, TransportCostPerModule, CraneCostPerModule, foundation)

		fc, ok := floors[p.Floor]
		if !ok {
			fc = &FloorCost{Floor: p.Floor}
			floors[p.Floor] = fc
		}
		fc.Modules++
		fc.Area += area
		fc.Cost = addBreakdown(fc.Cost, b)

		mc, ok := modules[it.Module.ID]
		if !ok {
			mc = &ModuleCost{ModuleID: it.Module.ID, Name: it.Module.Name, UnitPrice: it.Module.UnitPrice}
			modules[it.Module.ID] = mc
		}
		mc.Count++
		mc.Subtotal += it.Module.UnitPrice

		report.Total = addBreakdown(report.Total, b)
		report.Summary.Modules++
		report.Summary.Area += area
	}

	for _, fc := range floors {
		report.Floors = append(report.Floors, *fc)
	}
	slices.SortFunc(report.Floors, func(a, b FloorCost) int { return cmp.Compare(a.Floor, b.Floor) })
	for _, mc := range modules {
		report.ByModule = append(report.ByModule, *mc)
	}
	slices.SortFunc(report.ByModule, func(a, b ModuleCost) int { return cmp.Compare(a.ModuleID, b.ModuleID) })

	total := report.Total.Total
	report.Summary.TotalConstruction = total
	if report.Summary.Area > 0 {
		report.Summary.PerM2 = total / report.Summary.Area
	}
	report.Summary.AnnualDebtService = computeAnnualDebtService(total, opts.InterestRate, opts.TermYears)
	report.Summary.MonthlyPayment = report.Summary.AnnualDebtService / 12

	return report
}

// computeAnnualDebtService uses the standard annuity formula.
// P * r(1+r)^n / ((1+r)^n - 1)
// At 0% interest, returns principal / term.
func computeAnnualDebtService(principal, rate float64, termYears int) float64 {
	if termYears <= 0 {
		return 0
	}
	if rate <= 0 {
		return principal / float64(termYears)
	}
	n := float64(termYears)
	factor := math.Pow(1+rate, n)
	return principal * rate * factor / (factor - 1)
}

func makeBreakdown(modules, transport, crane, foundation float64) Breakdown {
	return Breakdown{
		Modules:    modules,
		Transport:  transport,
		Crane:      crane,
		Foundation: foundation,
		Total:      modules + transport + crane + foundation,
	}
}

func addBreakdown(a, b Breakdown) Breakdown {
	return makeBreakdown(a.Modules+b.Modules, a.Transport+b.Transport, a.Crane+b.Crane, a.Foundation+b.Foundation)
}
