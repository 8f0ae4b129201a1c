package scene

import (
	"testing"
)

func validGraph() *Graph {
	g := NewGraph()
	g.Entities = []Entity{
		{
			ID:         "floor_1",
			Type:       EntityFloor,
			Position:   Vec3{X: 0, Y: 0, Z: 0},
			Dimensions: Vec3{X: 10, Y: 0.2, Z: 10},
			Rotation:   [4]float64{0, 0, 0, 1},
			Material:   "concrete",
			Floor:      1,
			Layer:      LayerFloors,
		},
		{
			ID:         "p1",
			Type:       EntityModule,
			Position:   Vec3{X: 1, Y: 0, Z: 1.5},
			Dimensions: Vec3{X: 2, Y: 3, Z: 3},
			Rotation:   [4]float64{0, 0, 0, 1},
			Material:   "timber",
			Floor:      1,
			Module:     "m2x3",
			Layer:      LayerModule,
		},
	}
	g.Groups.Floors["floor_1"] = []string{"floor_1", "p1"}
	g.Groups.Modules["m2x3"] = []string{"p1"}
	g.Groups.Layers[LayerFloors] = []string{"floor_1"}
	g.Groups.Layers[LayerModule] = []string{"p1"}
	g.Groups.EntityTypes[EntityFloor] = []string{"floor_1"}
	g.Groups.EntityTypes[EntityModule] = []string{"p1"}
	g.Metadata = Metadata{
		Floors: 1,
		Bounds: BoundingBox{
			Min: Vec3{X: -5, Y: 0, Z: -5},
			Max: Vec3{X: 5, Y: 3, Z: 5},
		},
	}
	return g
}

func TestValidateGraph_Valid(t *testing.T) {
	r := ValidateGraph(validGraph())
	if !r.Valid {
		t.Errorf("expected valid, got %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
}

func TestValidateGraph_Nil(t *testing.T) {
	r := ValidateGraph(nil)
	if r.Valid {
		t.Error("expected invalid for nil graph")
	}
}

func TestValidateGraph_DuplicateID(t *testing.T) {
	g := validGraph()
	g.Entities = append(g.Entities, Entity{
		ID:         "p1",
		Type:       EntityModule,
		Position:   Vec3{X: 3, Y: 0, Z: 3},
		Dimensions: Vec3{X: 2, Y: 3, Z: 2},
		Rotation:   [4]float64{0, 0, 0, 1},
		Layer:      LayerModule,
	})
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for duplicate ID")
	}
}

func TestValidateGraph_OrphanedGroupReference(t *testing.T) {
	g := validGraph()
	g.Groups.Modules["m2x3"] = append(g.Groups.Modules["m2x3"], "nonexistent")
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for orphaned group reference")
	}
}

func TestValidateGraph_MissingGroupMembership(t *testing.T) {
	g := validGraph()
	g.Groups.Layers[LayerModule] = []string{}
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for missing group membership")
	}
}

func TestValidateGraph_MissingFloorGroup(t *testing.T) {
	g := validGraph()
	delete(g.Groups.Floors, "floor_1")
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid when the floor group is gone")
	}
}

func TestValidateGraph_EmptyID(t *testing.T) {
	g := validGraph()
	g.Entities = append(g.Entities, Entity{
		ID:         "",
		Type:       EntityModule,
		Dimensions: Vec3{X: 2, Y: 3, Z: 2},
		Rotation:   [4]float64{0, 0, 0, 1},
		Layer:      LayerModule,
	})
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for empty ID")
	}
}

func TestValidateGraph_ZeroDimensionWarning(t *testing.T) {
	g := validGraph()
	g.Entities[0].Dimensions.Y = 0
	r := ValidateGraph(g)
	if len(r.Warnings) == 0 {
		t.Error("expected warning for zero dimension")
	}
}

func TestValidateGraph_OutOfBoundsWarning(t *testing.T) {
	g := validGraph()
	g.Entities[1].Position.X = 20
	r := ValidateGraph(g)
	if len(r.Warnings) != 1 {
		t.Errorf("expected one bounds warning, got %v", r.Warnings)
	}
}

func TestValidateGraph_RealGraph(t *testing.T) {
	g := assembleTestGraph(t)
	r := ValidateGraph(g)
	if !r.Valid {
		t.Errorf("real graph validation failed: %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
	t.Logf("validated %d entities: %s", len(g.Entities), r.Summary)
}
