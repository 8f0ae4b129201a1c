// Package scene builds the presentation graph a 3D viewer renders: the
// parcel, its buildable floor plates and the placed modules.
package scene

import "github.com/yijongkuk/mdmd/pkg/geo"

// LayerType identifies a vertical layer.
type LayerType string

const (
	LayerGround LayerType = "ground"
	LayerFloors LayerType = "floors"
	LayerModule LayerType = "modules"
)

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityParcel    EntityType = "parcel"
	EntitySetback   EntityType = "setback"
	EntityFootprint EntityType = "footprint"
	EntityFloor     EntityType = "floor_plate"
	EntityModule    EntityType = "module"
)

// Vec3 is a 3D vector. Y is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BoundingBox defines an axis-aligned bounding box.
type BoundingBox struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Entity is a single element in the scene graph. Position is the center of
// the base; Dimensions are in the entity's own frame before Rotation.
type Entity struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	Position   Vec3           `json:"position"`
	Dimensions Vec3           `json:"dimensions"`
	Rotation   [4]float64     `json:"rotation"` // quaternion [x, y, z, w]
	Material   string         `json:"material"`
	Color      string         `json:"color,omitempty"`
	Floor      int            `json:"floor,omitempty"`
	Module     string         `json:"module,omitempty"`
	Layer      LayerType      `json:"layer"`
	Outline    geo.Ring       `json:"outline,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Graph is the complete scene graph.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
	Groups   Groups   `json:"groups"`
}

// Metadata holds scene-level information.
type Metadata struct {
	GeneratedAt  string      `json:"generated_at"`
	Floors       int         `json:"floors"`
	HeightMeters float64     `json:"height_meters"`
	Bounds       BoundingBox `json:"bounds"`
}

// Groups organizes entity IDs by various axes for fast filtering.
type Groups struct {
	Floors      map[string][]string     `json:"floors"`
	Modules     map[string][]string     `json:"modules"`
	Layers      map[LayerType][]string  `json:"layers"`
	EntityTypes map[EntityType][]string `json:"entity_types"`
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: []Entity{},
		Groups: Groups{
			Floors:      make(map[string][]string),
			Modules:     make(map[string][]string),
			Layers:      make(map[LayerType][]string),
			EntityTypes: make(map[EntityType][]string),
		},
	}
}

// Entity returns the entity with the given id.
func (g *Graph) Entity(id string) (Entity, bool) {
	for _, e := range g.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}
