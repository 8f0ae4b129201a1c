package validation

import (
	"fmt"
	"math"
	"regexp"

	"github.com/yijongkuk/mdmd/pkg/placement"
	"github.com/yijongkuk/mdmd/pkg/project"
	"github.com/yijongkuk/mdmd/pkg/projection"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateSchema performs structural validation on a loaded project before
// any geometry is derived.
func ValidateSchema(p *project.Project) *Report {
	r := NewReport()

	validateParcel(p, r)
	validateGrid(p, r)
	validateModules(p, r)
	validatePlacements(p, r)

	return r
}

func validateParcel(p *project.Project, r *Report) {
	pc := p.Parcel
	if !pc.Zone.Valid() {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "parcel.zone is not a known use district",
			Path:        "parcel.zone",
			ActualValue: int(pc.Zone),
		})
	}
	if pc.Area < 0 || math.IsNaN(pc.Area) {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "parcel.area must not be negative",
			Path:        "parcel.area",
			ActualValue: pc.Area,
			Expected:    ">= 0",
		})
	}
	hasBoundary := len(pc.Boundary) > 0 || pc.BoundaryFile != ""
	if !hasBoundary && pc.Area <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "parcel needs a boundary, a boundary_file or a positive area",
			Path:        "parcel",
			Suggestions: []string{"Set parcel.area to the registered lot area"},
		})
	}
	if len(pc.Boundary) > 0 && len(pc.Boundary) < 3 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("parcel.boundary has %d points, need at least 3", len(pc.Boundary)),
			Path:        "parcel.boundary",
			ActualValue: len(pc.Boundary),
			Expected:    ">= 3",
		})
	}
	if len(pc.Boundary) > 0 && pc.BoundaryFile != "" {
		r.AddWarning(Result{
			Level:   LevelSchema,
			Message: "both boundary and boundary_file are set; boundary_file wins",
			Path:    "parcel.boundary",
		})
	}
	if _, err := projection.ParseCRS(pc.CRS); err != nil {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     err.Error(),
			Path:        "parcel.crs",
			ActualValue: pc.CRS,
			Expected:    "EPSG:4326, EPSG:5186 or EPSG:5179",
		})
	}
	if reg := pc.Regulation; reg != nil {
		if reg.MaxCoverageRatio <= 0 || reg.MaxCoverageRatio > 100 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("max_coverage_ratio %.1f must be in (0, 100]", reg.MaxCoverageRatio),
				Path:        "parcel.regulation.max_coverage_ratio",
				ActualValue: reg.MaxCoverageRatio,
				Expected:    "(0, 100]",
			})
		}
		if reg.MaxFloorAreaRatio <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     "max_floor_area_ratio must be > 0",
				Path:        "parcel.regulation.max_floor_area_ratio",
				ActualValue: reg.MaxFloorAreaRatio,
				Expected:    "> 0",
			})
		}
		if reg.MaxFloors < 0 || reg.MaxHeight < 0 {
			r.AddError(Result{
				Level:   LevelSchema,
				Message: "max_floors and max_height must not be negative (0 means no cap)",
				Path:    "parcel.regulation",
			})
		}
	}
}

func validateGrid(p *project.Project, r *Report) {
	g := p.Grid
	if math.IsNaN(g.OffsetX) || math.IsNaN(g.OffsetZ) || math.IsInf(g.OffsetX, 0) || math.IsInf(g.OffsetZ, 0) {
		r.AddError(Result{
			Level:   LevelSchema,
			Message: "grid offset must be finite",
			Path:    "grid",
		})
		return
	}
	if math.Abs(g.OffsetX) >= placement.CellSize || math.Abs(g.OffsetZ) >= placement.CellSize {
		r.AddInfo(Result{
			Level:       LevelSchema,
			Message:     "grid offset is a cell or more; placements shift with it",
			Path:        "grid",
			ActualValue: fmt.Sprintf("%.2f,%.2f", g.OffsetX, g.OffsetZ),
		})
	}
}

func validateModules(p *project.Project, r *Report) {
	seen := map[string]bool{}
	for i, m := range p.Modules {
		path := fmt.Sprintf("modules[%d]", i)
		if m.ID == "" {
			r.AddError(Result{Level: LevelSchema, Message: "module id is empty", Path: path + ".id"})
		} else if seen[m.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate module id %q", m.ID),
				Path:        path + ".id",
				ActualValue: m.ID,
			})
		}
		seen[m.ID] = true

		if m.WidthCells < 1 || m.DepthCells < 1 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("module %s must be at least 1x1 cells", m.ID),
				Path:        path,
				ActualValue: fmt.Sprintf("%dx%d", m.WidthCells, m.DepthCells),
				Expected:    ">= 1x1",
			})
		}
		if m.UnitPrice < 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("module %s has a negative unit_price", m.ID),
				Path:        path + ".unit_price",
				ActualValue: m.UnitPrice,
				Expected:    ">= 0",
			})
		}
		if m.Color != "" && !hexColor.MatchString(m.Color) {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("module %s color %q is not #rrggbb", m.ID, m.Color),
				Path:        path + ".color",
				ActualValue: m.Color,
			})
		}
	}
}

func validatePlacements(p *project.Project, r *Report) {
	seen := map[string]bool{}
	for i, rec := range p.Records {
		path := fmt.Sprintf("placements[%d]", i)
		if rec.ID == "" {
			r.AddError(Result{Level: LevelSchema, Message: "placement id is empty", Path: path + ".id"})
		} else if seen[rec.ID] {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("duplicate placement id %q", rec.ID),
				Path:        path + ".id",
				ActualValue: rec.ID,
			})
		}
		seen[rec.ID] = true

		if _, ok := p.Module(rec.ModuleID); !ok {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("placement %s references unknown module %q", rec.ID, rec.ModuleID),
				Path:        path + ".module_id",
				ActualValue: rec.ModuleID,
			})
		}
		if _, err := placement.ParseRotation(rec.Rotation); err != nil {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     err.Error(),
				Path:        path + ".rotation",
				ActualValue: rec.Rotation,
				Expected:    "0, 90, 180 or 270",
			})
		}
		if rec.Floor < 1 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("placement %s floor must be >= 1", rec.ID),
				Path:        path + ".floor",
				ActualValue: rec.Floor,
				Expected:    ">= 1",
			})
		}
		if rec.CustomColor != "" && !hexColor.MatchString(rec.CustomColor) {
			r.AddWarning(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("placement %s custom_color %q is not #rrggbb", rec.ID, rec.CustomColor),
				Path:        path + ".custom_color",
				ActualValue: rec.CustomColor,
			})
		}
	}
}
