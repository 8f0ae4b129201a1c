// Package project loads and saves site designs: the parcel, the module
// catalog and the stored placements.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/yijongkuk/mdmd/pkg/envelope"
	"github.com/yijongkuk/mdmd/pkg/geodata"
	"github.com/yijongkuk/mdmd/pkg/placement"
	"github.com/yijongkuk/mdmd/pkg/projection"
	"github.com/yijongkuk/mdmd/pkg/zoning"
)

// FileName is the project file looked up by LoadProject.
const FileName = "project.yaml"

// Load reads a project from a YAML file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading project file")
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "parsing project YAML")
	}
	p.dir = filepath.Dir(path)
	return &p, nil
}

// LoadProject loads project.yaml from a project directory.
func LoadProject(projectDir string) (*Project, error) {
	return Load(filepath.Join(projectDir, FileName))
}

// Save writes the project as YAML.
func (p *Project) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encoding project YAML")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing project file")
	}
	p.dir = filepath.Dir(path)
	return nil
}

// Dir returns the directory relative file references resolve against.
func (p *Project) Dir() string {
	if p.dir == "" {
		return "."
	}
	return p.dir
}

func (p *Project) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.Dir(), name)
}

// Module returns the catalog entry with the given id.
func (p *Project) Module(id string) (ModuleDef, bool) {
	for _, m := range p.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return ModuleDef{}, false
}

// Regulation returns the override if present, else the zone table row.
func (p *Project) Regulation() zoning.Regulation {
	if p.Parcel.Regulation != nil {
		return *p.Parcel.Regulation
	}
	return zoning.RegulationFor(p.Parcel.Zone)
}

// Placements converts stored records to kernel placements, taking sizes
// from the catalog.
func (p *Project) Placements() ([]placement.Placement, error) {
	out := make([]placement.Placement, 0, len(p.Records))
	for _, rec := range p.Records {
		pl, err := p.toPlacement(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, pl)
	}
	return out, nil
}

func (p *Project) toPlacement(rec Record) (placement.Placement, error) {
	m, ok := p.Module(rec.ModuleID)
	if !ok {
		return placement.Placement{}, fmt.Errorf("placement %s: unknown module %q", rec.ID, rec.ModuleID)
	}
	rot, err := placement.ParseRotation(rec.Rotation)
	if err != nil {
		return placement.Placement{}, fmt.Errorf("placement %s: %w", rec.ID, err)
	}
	return placement.Placement{
		ID:         rec.ID,
		GridX:      rec.GridX,
		GridZ:      rec.GridZ,
		Floor:      rec.Floor,
		Rotation:   rot,
		WidthCells: m.WidthCells,
		DepthCells: m.DepthCells,
	}, nil
}

// AddPlacement appends a record for module at (gx, gz) with a fresh id and
// returns it.
func (p *Project) AddPlacement(moduleID string, gx, gz, floor int, rot placement.Rotation) (Record, error) {
	if _, ok := p.Module(moduleID); !ok {
		return Record{}, fmt.Errorf("unknown module %q", moduleID)
	}
	id, err := NewPlacementID()
	if err != nil {
		return Record{}, err
	}
	rec := Record{ID: id, ModuleID: moduleID, GridX: gx, GridZ: gz, Floor: floor, Rotation: int(rot)}
	p.Records = append(p.Records, rec)
	return rec, nil
}

// Apply writes an accepted placement back into its record.
func (p *Project) Apply(pl placement.Placement) error {
	for i := range p.Records {
		if p.Records[i].ID == pl.ID {
			p.Records[i].GridX = pl.GridX
			p.Records[i].GridZ = pl.GridZ
			p.Records[i].Floor = pl.Floor
			p.Records[i].Rotation = int(pl.Rotation)
			return nil
		}
	}
	return fmt.Errorf("no placement %q", pl.ID)
}

// NewPlacementID returns a time-ordered unique id.
func NewPlacementID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", errors.Wrap(err, "generating placement id")
	}
	return id.String(), nil
}

// GeodeticBoundary returns the parcel boundary in longitude/latitude, read
// from BoundaryFile or converted from Boundary. It is nil when neither is
// set.
func (p *Project) GeodeticBoundary() ([]projection.LonLat, error) {
	if p.Parcel.BoundaryFile != "" {
		data, err := os.ReadFile(p.resolve(p.Parcel.BoundaryFile))
		if err != nil {
			return nil, errors.Wrap(err, "reading boundary file")
		}
		return geodata.ParseBoundary(data)
	}
	if len(p.Parcel.Boundary) == 0 {
		return nil, nil
	}
	crs, err := projection.ParseCRS(p.Parcel.CRS)
	if err != nil {
		return nil, err
	}
	return projection.RingToLonLat(crs, p.Parcel.Boundary), nil
}

// Projector centers on the explicit reference, or on the boundary's vertex
// average.
func (p *Project) Projector() (projection.Projector, error) {
	if p.Parcel.Reference != nil {
		return projection.New(*p.Parcel.Reference), nil
	}
	ring, err := p.GeodeticBoundary()
	if err != nil {
		return projection.Projector{}, err
	}
	return projection.New(projection.CentroidReference(ring)), nil
}

// ParcelInput builds the envelope input in local meters.
func (p *Project) ParcelInput() (envelope.ParcelInput, projection.Projector, error) {
	proj, err := p.Projector()
	if err != nil {
		return envelope.ParcelInput{}, proj, err
	}
	ring, err := p.GeodeticBoundary()
	if err != nil {
		return envelope.ParcelInput{}, proj, err
	}
	in := envelope.ParcelInput{Area: p.Parcel.Area, Zone: p.Parcel.Zone}
	if len(ring) > 0 {
		in.Boundary = proj.RingToLocal(ring)
	}
	return in, proj, nil
}

// Envelope derives the buildable envelope for the project's parcel.
func (p *Project) Envelope() (*envelope.Envelope, projection.Projector, error) {
	in, proj, err := p.ParcelInput()
	if err != nil {
		return nil, proj, err
	}
	env, err := envelope.Derive(in, p.Regulation())
	return env, proj, err
}

// LoadObstacles reads the obstacle GeoJSON, if any, into local meters.
func (p *Project) LoadObstacles(proj projection.Projector) (geodata.Obstacles, error) {
	if p.Obstacles == "" {
		return geodata.Obstacles{}, nil
	}
	data, err := os.ReadFile(p.resolve(p.Obstacles))
	if err != nil {
		return geodata.Obstacles{}, errors.Wrap(err, "reading obstacles file")
	}
	return geodata.ParseObstacles(data, proj)
}

// Item is a placement joined with its catalog entry.
type Item struct {
	Placement   placement.Placement `json:"placement"`
	Module      ModuleDef           `json:"module"`
	MaterialID  string              `json:"material_id,omitempty"`
	CustomColor string              `json:"custom_color,omitempty"`
}

// Items resolves every stored placement against the catalog.
func (p *Project) Items() ([]Item, error) {
	out := make([]Item, 0, len(p.Records))
	for _, rec := range p.Records {
		pl, err := p.toPlacement(rec)
		if err != nil {
			return nil, err
		}
		m, _ := p.Module(rec.ModuleID)
		out = append(out, Item{Placement: pl, Module: m, MaterialID: rec.MaterialID, CustomColor: rec.CustomColor})
	}
	return out, nil
}
