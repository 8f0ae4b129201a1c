package scene

import (
	"fmt"

	"github.com/yijongkuk/mdmd/pkg/validation"
)

// ValidateGraph performs structural validation on a scene graph output.
// It checks entity integrity, group index consistency, and bounds enclosure.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelPlacement,
			Message: "scene graph is nil",
		})
		return r
	}

	validateEntityIDs(g, r)
	validateGroupIndices(g, r)
	validateGroupMembership(g, r)
	validateBoundsEnclosure(g, r)
	validateEntityDimensions(g, r)

	return r
}

func validateEntityIDs(g *Graph, r *validation.Report) {
	seen := make(map[string]int, len(g.Entities))

	for i, e := range g.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("entity at index %d has empty ID", i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("duplicate entity ID %q at indices %d and %d", e.ID, prev, i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

func validateGroupIndices(g *Graph, r *validation.Report) {
	entityIDs := make(map[string]bool, len(g.Entities))
	for _, e := range g.Entities {
		entityIDs[e.ID] = true
	}

	checkGroup := func(groupType, groupName string, ids []string) {
		for _, id := range ids {
			if !entityIDs[id] {
				r.AddError(validation.Result{
					Level:       validation.LevelPlacement,
					Message:     fmt.Sprintf("group %s.%s references non-existent entity %q", groupType, groupName, id),
					Path:        fmt.Sprintf("groups.%s.%s", groupType, groupName),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
			}
		}
	}

	for name, ids := range g.Groups.Floors {
		checkGroup("floors", name, ids)
	}
	for name, ids := range g.Groups.Modules {
		checkGroup("modules", name, ids)
	}
	for name, ids := range g.Groups.Layers {
		checkGroup("layers", string(name), ids)
	}
	for name, ids := range g.Groups.EntityTypes {
		checkGroup("entity_types", string(name), ids)
	}
}

func memberSet[K ~string](groups map[K][]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(groups))
	for k, ids := range groups {
		m := make(map[string]bool, len(ids))
		for _, id := range ids {
			m[id] = true
		}
		out[string(k)] = m
	}
	return out
}

func validateGroupMembership(g *Graph, r *validation.Report) {
	groups := []struct {
		name    string
		members map[string]map[string]bool
		key     func(Entity) string
	}{
		{"layers", memberSet(g.Groups.Layers), func(e Entity) string { return string(e.Layer) }},
		{"entity_types", memberSet(g.Groups.EntityTypes), func(e Entity) string { return string(e.Type) }},
		{"modules", memberSet(g.Groups.Modules), func(e Entity) string { return e.Module }},
		{"floors", memberSet(g.Groups.Floors), func(e Entity) string {
			if e.Floor <= 0 {
				return ""
			}
			return floorKey(e.Floor)
		}},
	}

	for _, e := range g.Entities {
		if e.ID == "" {
			continue
		}
		for _, grp := range groups {
			key := grp.key(e)
			if key == "" {
				continue
			}
			m, ok := grp.members[key]
			if !ok {
				r.AddError(validation.Result{
					Level:       validation.LevelPlacement,
					Message:     fmt.Sprintf("entity %q belongs to %s %q but no such group exists", e.ID, grp.name, key),
					Path:        "groups." + grp.name,
					ActualValue: key,
				})
				continue
			}
			if !m[e.ID] {
				r.AddError(validation.Result{
					Level:       validation.LevelPlacement,
					Message:     fmt.Sprintf("entity %q belongs to %s %q but is not listed there", e.ID, grp.name, key),
					Path:        fmt.Sprintf("groups.%s.%s", grp.name, key),
					ActualValue: e.ID,
				})
			}
		}
	}
}

func validateBoundsEnclosure(g *Graph, r *validation.Report) {
	bounds := g.Metadata.Bounds
	const tolerance = 0.01

	for _, e := range g.Entities {
		halfX, halfZ := horizontalExtent(e)

		if e.Position.X-halfX < bounds.Min.X-tolerance || e.Position.X+halfX > bounds.Max.X+tolerance ||
			e.Position.Z-halfZ < bounds.Min.Z-tolerance || e.Position.Z+halfZ > bounds.Max.Z+tolerance {
			r.AddWarning(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("entity %q extends outside scene bounds", e.ID),
				Path:        "metadata.bounds",
				ActualValue: fmt.Sprintf("%.2f,%.2f", e.Position.X, e.Position.Z),
			})
			break
		}
	}
}

func validateEntityDimensions(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		if e.Dimensions.X <= 0 || e.Dimensions.Y <= 0 || e.Dimensions.Z <= 0 {
			r.AddWarning(validation.Result{
				Level:       validation.LevelPlacement,
				Message:     fmt.Sprintf("entity %q has zero or negative dimension (%.2f, %.2f, %.2f)", e.ID, e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				Path:        fmt.Sprintf("entities.%s.dimensions", e.ID),
				ActualValue: fmt.Sprintf("%.2f x %.2f x %.2f", e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				Expected:    "all dimensions > 0",
			})
		}
	}
}
