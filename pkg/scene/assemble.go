package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/yijongkuk/mdmd/pkg/envelope"
	"github.com/yijongkuk/mdmd/pkg/geo"
	"github.com/yijongkuk/mdmd/pkg/placement"
	"github.com/yijongkuk/mdmd/pkg/project"
)

const (
	groundThickness = 0.05
	slabThickness   = 0.2

	defaultModuleMaterial = "timber"
)

// Assemble converts an envelope and the placed catalog items into a scene
// graph.
func Assemble(env *envelope.Envelope, grid placement.Grid, items []project.Item) *Graph {
	g := NewGraph()

	if env != nil {
		assembleGround(env, g)
		assembleFloors(env, g)
	}
	assembleModules(grid, items, g)

	g.Metadata = Metadata{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Bounds:      computeBounds(g.Entities),
	}
	if env != nil {
		g.Metadata.Floors = env.Floors
		g.Metadata.HeightMeters = env.HeightMeters
	}
	return g
}

func assembleGround(env *envelope.Envelope, g *Graph) {
	outlines := []struct {
		id   string
		typ  EntityType
		ring geo.Ring
		mat  string
	}{
		{"parcel", EntityParcel, env.Boundary, "grass"},
		{"setback", EntitySetback, env.SetbackPolygon, "gravel"},
		{"footprint", EntityFootprint, env.Footprint, "concrete"},
	}
	for _, o := range outlines {
		if !o.ring.IsValid() {
			continue
		}
		addEntity(g, flatEntity(o.id, o.typ, o.ring, 0, groundThickness, o.mat, LayerGround, map[string]any{
			"area": o.ring.Area(),
		}))
	}
}

func assembleFloors(env *envelope.Envelope, g *Graph) {
	for i, ring := range env.FloorPolygons {
		if ring == nil {
			continue
		}
		floor := i + 1
		e := flatEntity(fmt.Sprintf("floor_%d", floor), EntityFloor, ring,
			float64(i)*envelope.FloorHeight, slabThickness, "concrete", LayerFloors, map[string]any{
				"area":      ring.Area(),
				"elevation": float64(i) * envelope.FloorHeight,
			})
		e.Floor = floor
		addEntity(g, e)
	}
}

func assembleModules(grid placement.Grid, items []project.Item, g *Graph) {
	for _, it := range items {
		p := it.Placement
		box := p.OBB(grid)
		c := box.Center()

		mat := it.MaterialID
		if mat == "" {
			mat = it.Module.Material
		}
		if mat == "" {
			mat = defaultModuleMaterial
		}
		color := it.CustomColor
		if color == "" {
			color = it.Module.Color
		}

		addEntity(g, Entity{
			ID:   p.ID,
			Type: EntityModule,
			Position: Vec3{
				X: c.X,
				Y: float64(p.Floor-1) * envelope.FloorHeight,
				Z: c.Z,
			},
			Dimensions: Vec3{
				X: float64(p.WidthCells) * placement.CellSize,
				Y: envelope.FloorHeight,
				Z: float64(p.DepthCells) * placement.CellSize,
			},
			Rotation: yawQuat(p.Rotation.Radians()),
			Material: mat,
			Color:    color,
			Floor:    p.Floor,
			Module:   it.Module.ID,
			Layer:    LayerModule,
			Metadata: map[string]any{
				"name":       it.Module.Name,
				"grid_x":     p.GridX,
				"grid_z":     p.GridZ,
				"rotation":   int(p.Rotation),
				"unit_price": it.Module.UnitPrice,
			},
		})
	}
}

// flatEntity is an axis-aligned slab covering ring's bounding box at
// elevation y. The exact shape travels in Outline.
func flatEntity(id string, typ EntityType, ring geo.Ring, y, thickness float64, mat string, layer LayerType, meta map[string]any) Entity {
	b := ring.Bounds()
	c := b.Center()
	size := b.Size()
	return Entity{
		ID:         id,
		Type:       typ,
		Position:   Vec3{X: c.X, Y: y, Z: c.Y},
		Dimensions: Vec3{X: size.X, Y: thickness, Z: size.Y},
		Rotation:   identityQuat(),
		Material:   mat,
		Layer:      layer,
		Outline:    ring.Clone(),
		Metadata:   meta,
	}
}

// addEntity appends an entity and updates all group indices.
func addEntity(g *Graph, e Entity) {
	g.Entities = append(g.Entities, e)
	id := e.ID

	if e.Floor > 0 {
		key := floorKey(e.Floor)
		g.Groups.Floors[key] = append(g.Groups.Floors[key], id)
	}
	if e.Module != "" {
		g.Groups.Modules[e.Module] = append(g.Groups.Modules[e.Module], id)
	}
	g.Groups.Layers[e.Layer] = append(g.Groups.Layers[e.Layer], id)
	g.Groups.EntityTypes[e.Type] = append(g.Groups.EntityTypes[e.Type], id)
}

func floorKey(floor int) string {
	return fmt.Sprintf("floor_%d", floor)
}

// horizontalExtent returns the half extents of e's rotated footprint along
// world X and Z.
func horizontalExtent(e Entity) (float64, float64) {
	yaw := 2 * math.Atan2(e.Rotation[1], e.Rotation[3])
	c, s := math.Abs(math.Cos(yaw)), math.Abs(math.Sin(yaw))
	hx := (c*e.Dimensions.X + s*e.Dimensions.Z) / 2
	hz := (s*e.Dimensions.X + c*e.Dimensions.Z) / 2
	return hx, hz
}

// computeBounds calculates the AABB of all entities.
func computeBounds(entities []Entity) BoundingBox {
	if len(entities) == 0 {
		return BoundingBox{}
	}
	minV := Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	maxV := Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}

	for _, e := range entities {
		halfX, halfZ := horizontalExtent(e)

		minV.X = math.Min(minV.X, e.Position.X-halfX)
		maxV.X = math.Max(maxV.X, e.Position.X+halfX)
		minV.Y = math.Min(minV.Y, e.Position.Y)
		maxV.Y = math.Max(maxV.Y, e.Position.Y+e.Dimensions.Y)
		minV.Z = math.Min(minV.Z, e.Position.Z-halfZ)
		maxV.Z = math.Max(maxV.Z, e.Position.Z+halfZ)
	}
	return BoundingBox{Min: minV, Max: maxV}
}

func identityQuat() [4]float64 {
	return [4]float64{0, 0, 0, 1}
}

func yawQuat(angle float64) [4]float64 {
	if angle == 0 {
		return identityQuat()
	}
	half := angle / 2
	return [4]float64{0, math.Sin(half), 0, math.Cos(half)}
}
