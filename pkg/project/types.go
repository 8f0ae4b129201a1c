package project

import (
	"github.com/yijongkuk/mdmd/pkg/placement"
	"github.com/yijongkuk/mdmd/pkg/projection"
	"github.com/yijongkuk/mdmd/pkg/zoning"
)

// Project is the persisted state of one site design.
type Project struct {
	Version    string         `yaml:"version" json:"version"`
	Name       string         `yaml:"name" json:"name"`
	Parcel     Parcel         `yaml:"parcel" json:"parcel"`
	Grid       placement.Grid `yaml:"grid" json:"grid"`
	Modules    []ModuleDef    `yaml:"modules" json:"modules"`
	Records    []Record       `yaml:"placements" json:"placements"`
	// Obstacles is a GeoJSON file of neighbouring buildings and roads,
	// relative to the project directory.
	Obstacles string `yaml:"obstacles,omitempty" json:"obstacles,omitempty"`

	dir string
}

// Parcel is the surveyed land. Boundary holds raw coordinate pairs in CRS;
// BoundaryFile names a GeoJSON polygon instead. With neither, a square of
// Area is assumed.
type Parcel struct {
	Area         float64            `yaml:"area" json:"area"`
	Zone         zoning.Zone        `yaml:"zone" json:"zone"`
	Reference    *projection.LonLat `yaml:"reference,omitempty" json:"reference,omitempty"`
	CRS          string             `yaml:"crs,omitempty" json:"crs,omitempty"`
	Boundary     [][2]float64       `yaml:"boundary,omitempty" json:"boundary,omitempty"`
	BoundaryFile string             `yaml:"boundary_file,omitempty" json:"boundary_file,omitempty"`
	// Regulation overrides the zone table, e.g. for a district unit plan.
	Regulation *zoning.Regulation `yaml:"regulation,omitempty" json:"regulation,omitempty"`
}

// ModuleDef is a prefab module type in the catalog.
type ModuleDef struct {
	ID         string  `yaml:"id" json:"id"`
	Name       string  `yaml:"name" json:"name"`
	WidthCells int     `yaml:"width_cells" json:"width_cells"`
	DepthCells int     `yaml:"depth_cells" json:"depth_cells"`
	UnitPrice  float64 `yaml:"unit_price" json:"unit_price"`
	Material   string  `yaml:"material,omitempty" json:"material,omitempty"`
	Color      string  `yaml:"color,omitempty" json:"color,omitempty"`
}

// Record is a stored placement.
type Record struct {
	ID          string `yaml:"id" json:"id"`
	ModuleID    string `yaml:"module_id" json:"module_id"`
	GridX       int    `yaml:"grid_x" json:"grid_x"`
	GridZ       int    `yaml:"grid_z" json:"grid_z"`
	Rotation    int    `yaml:"rotation" json:"rotation"`
	Floor       int    `yaml:"floor" json:"floor"`
	MaterialID  string `yaml:"material_id,omitempty" json:"material_id,omitempty"`
	CustomColor string `yaml:"custom_color,omitempty" json:"custom_color,omitempty"`
}
