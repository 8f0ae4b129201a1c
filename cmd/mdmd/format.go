package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/yijongkuk/mdmd/pkg/align"
	"github.com/yijongkuk/mdmd/pkg/cost"
	"github.com/yijongkuk/mdmd/pkg/envelope"
	"github.com/yijongkuk/mdmd/pkg/validation"
	"github.com/yijongkuk/mdmd/pkg/zoning"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	printResults := func(title string, results []validation.Result, detail bool) {
		if len(results) == 0 {
			return
		}
		fmt.Fprintf(w, "%s (%d):\n", title, len(results))
		for _, res := range results {
			fmt.Fprintf(w, "  [%s] %s\n", res.Level, res.Message)
			if !detail {
				continue
			}
			if res.Path != "" {
				if res.ActualValue != nil {
					fmt.Fprintf(w, "    -> %s = %v\n", res.Path, res.ActualValue)
				} else {
					fmt.Fprintf(w, "    -> %s\n", res.Path)
				}
			}
			if res.Expected != "" {
				fmt.Fprintf(w, "    expected: %s\n", res.Expected)
			}
			if len(res.ConflictWith) > 0 {
				fmt.Fprintf(w, "    conflicts with: %s\n", strings.Join(res.ConflictWith, ", "))
			}
			for _, s := range res.Suggestions {
				fmt.Fprintf(w, "    * %s\n", s)
			}
		}
		fmt.Fprintln(w)
	}

	printResults("ERRORS", r.Errors, true)
	printResults("WARNINGS", r.Warnings, true)
	printResults("INFO", r.Info, false)

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printEnvelope(w io.Writer, e *envelope.Envelope, s envelope.Summary) {
	fmt.Fprintln(w, "Buildable Envelope")
	fmt.Fprintln(w, "==================")
	fmt.Fprintf(w, "  Parcel area:        %10.2f m²\n", e.ParcelArea)
	fmt.Fprintf(w, "  Setback:            %10.2f m  (%.2f m² remaining)\n", e.SetbackDistance, e.SetbackArea)
	fmt.Fprintf(w, "  Footprint:          %10.2f m²  (max %.2f m²)\n", e.FootprintArea, e.MaxFootprintArea)
	fmt.Fprintf(w, "  Floors:             %10d     (%.1f m)\n", e.Floors, e.HeightMeters)
	fmt.Fprintf(w, "  Coverage ratio:     %10.1f %%\n", s.CoverageRatio)
	fmt.Fprintf(w, "  Floor area ratio:   %10.1f %%\n", s.FloorAreaRatio)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-8s %12s %10s\n", "Floor", "Area (m²)", "Buildable")
	fmt.Fprintf(w, "%-8s %12s %10s\n", "--------", "------------", "----------")
	for _, f := range s.Floors {
		mark := "yes"
		if !f.Buildable {
			mark = "no"
		}
		fmt.Fprintf(w, "%-8d %12.2f %10s\n", f.Floor, f.Area, mark)
	}
	fmt.Fprintf(w, "%-8s %12.2f\n", "TOTAL", s.TotalFloorArea)

	for _, n := range e.Notes {
		fmt.Fprintf(w, "  [%s] %s\n", n.Severity, n.Message)
	}
}

func printAlignResult(w io.Writer, r align.Result) {
	fmt.Fprintf(w, "Overlap before:  %d\n", r.InitialOverlap)
	fmt.Fprintf(w, "Overlap after:   %d\n", r.Overlap)
	fmt.Fprintf(w, "Offset:          dx=%.2f m, dz=%.2f m (%.2f m)\n", r.Offset.DX, r.Offset.DZ, r.Offset.Length())
	fmt.Fprintf(w, "Candidates:      %d\n", r.Evaluated)
	if r.Overlap > 0 {
		fmt.Fprintln(w, "No offset in range clears every overlap.")
	}
}

func printZones(w io.Writer) {
	fmt.Fprintf(w, "%-26s %8s %8s %8s %7s %8s\n", "Zone", "BCR %", "FAR %", "Height", "Floors", "Setback")
	for _, z := range zoning.AllZones() {
		reg := zoning.RegulationFor(z)
		fmt.Fprintf(w, "%-26s %8.0f %8.0f %8s %7s %8.1f  %s\n",
			z, reg.MaxCoverageRatio, reg.MaxFloorAreaRatio,
			limit(reg.MaxHeight, "%.0f m"), limit(float64(reg.MaxFloors), "%.0f"),
			reg.SiteSetback(), z.KoreanName())
	}
}

// limit formats a cap, with "-" for uncapped.
func limit(v float64, format string) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

func printCostReport(w io.Writer, r *cost.Report) {
	if r.Summary.Modules == 0 {
		fmt.Fprintln(w, "No modules placed.")
		return
	}

	fmt.Fprintln(w, "Cost Estimate")
	fmt.Fprintln(w, "=============")
	fmt.Fprintln(w)

	printBreakdownTable(w, r)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-24s %6s %14s %14s\n", "Module", "Count", "Unit", "Subtotal")
	for _, m := range r.ByModule {
		fmt.Fprintf(w, "%-24s %6d %14s %14s\n", m.Name, m.Count, formatMoney(m.UnitPrice), formatMoney(m.Subtotal))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary")
	fmt.Fprintln(w, "-------")
	fmt.Fprintf(w, "  Modules:                %d (%.1f m²)\n", r.Summary.Modules, r.Summary.Area)
	fmt.Fprintf(w, "  Total construction:     ₩%s\n", formatMoney(r.Summary.TotalConstruction))
	fmt.Fprintf(w, "  Per m²:                 ₩%s\n", formatMoney(r.Summary.PerM2))
	fmt.Fprintf(w, "  Annual debt service:    ₩%s\n", formatMoney(r.Summary.AnnualDebtService))
	fmt.Fprintf(w, "  Monthly payment:        ₩%s\n", formatMoney(r.Summary.MonthlyPayment))
}

func printBreakdownTable(w io.Writer, r *cost.Report) {
	fmt.Fprintf(w, "%-8s %7s %14s %14s %14s %14s %14s\n",
		"Floor", "Modules", "Modules", "Transport", "Crane", "Foundation", "Total")
	fmt.Fprintf(w, "%-8s %7s %14s %14s %14s %14s %14s\n",
		"--------", "-------", "--------------", "--------------", "--------------", "--------------", "--------------")

	row := func(label string, count int, b cost.Breakdown) {
		fmt.Fprintf(w, "%-8s %7d %14s %14s %14s %14s %14s\n", label, count,
			formatMoney(b.Modules), formatMoney(b.Transport), formatMoney(b.Crane),
			formatMoney(b.Foundation), formatMoney(b.Total))
	}
	for _, f := range r.Floors {
		row(fmt.Sprintf("%d", f.Floor), f.Modules, f.Cost)
	}
	row("TOTAL", r.Summary.Modules, r.Total)
}

func formatMoney(v float64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("%.2fB", v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.0fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}
