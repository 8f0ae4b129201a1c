package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yijongkuk/mdmd/pkg/geo"
)

var target = geo.Rectangle(0, 0, 4, 4)

// neighbour covers the west half of the target; everything from x=1.9 east
// is clear.
var neighbour = geo.Rectangle(-4, -0.5, 1.9, 4.5)

func TestSolveMovesClearOfNeighbour(t *testing.T) {
	s := NewSolver([]geo.Ring{neighbour}, nil, DefaultOptions())
	res := s.Solve(target)

	assert.Equal(t, 3, res.InitialOverlap)
	assert.Equal(t, 0, res.Overlap)
	assert.InDelta(t, 2, res.Offset.DX, 1e-9)
	assert.InDelta(t, 0, res.Offset.DZ, 1e-9)
	assert.Greater(t, res.Evaluated, 1)
}

func TestSolveNoOverlapFastPath(t *testing.T) {
	far := geo.Rectangle(20, 20, 30, 30)
	s := NewSolver([]geo.Ring{far}, nil, DefaultOptions())
	res := s.Solve(target)
	assert.Equal(t, Result{Evaluated: 1}, res)

	empty := NewSolver(nil, nil, DefaultOptions())
	assert.Equal(t, Result{Evaluated: 1}, empty.Solve(target))
	assert.Equal(t, Result{Evaluated: 1}, empty.Solve(nil))
}

func TestSolveIsDeterministic(t *testing.T) {
	obstacles := []geo.Ring{
		neighbour,
		geo.Rectangle(3.5, -3, 8, 1.2),
		{{X: 5, Z: 5}, {X: 9, Z: 6}, {X: 6, Z: 9}},
	}
	roads := []Road{{Centerline: geo.NewPolyline(geo.Pt(-10, 7), geo.Pt(10, 7.5)), HalfWidth: 1}}
	first := NewSolver(obstacles, roads, DefaultOptions()).Solve(target)
	for range 5 {
		assert.Equal(t, first, NewSolver(obstacles, roads, DefaultOptions()).Solve(target))
	}
}

func TestSolveFineStep(t *testing.T) {
	road := Road{Centerline: geo.NewPolyline(geo.Pt(-10, -1), geo.Pt(10, -1)), HalfWidth: 1.4}
	s := NewSolver(nil, []Road{road}, DefaultOptions())
	require.Equal(t, 1, s.Len())

	res := s.Solve(target)
	assert.Equal(t, 3, res.InitialOverlap)
	assert.Equal(t, 0, res.Overlap)
	assert.InDelta(t, 0, res.Offset.DX, 1e-9)
	assert.InDelta(t, 0.5, res.Offset.DZ, 1e-9)
}

func TestSolveReturnsBestEffort(t *testing.T) {
	everywhere := geo.Rectangle(-100, -100, 100, 100)
	s := NewSolver([]geo.Ring{everywhere}, nil, DefaultOptions())
	res := s.Solve(target)
	assert.Equal(t, 8, res.Overlap)
	assert.Equal(t, Offset{}, res.Offset)
	assert.Equal(t, 1+11*11+9*9, res.Evaluated)
}

func TestSolveStaysInRange(t *testing.T) {
	opts := DefaultOptions()
	opts.Range = 2
	s := NewSolver([]geo.Ring{geo.Rectangle(-3, -3, 3.5, 7)}, nil, opts)
	res := s.Solve(target)
	assert.LessOrEqual(t, res.Offset.DX, 2.0)
	assert.GreaterOrEqual(t, res.Offset.DX, -2.0)
	assert.LessOrEqual(t, res.Offset.DZ, 2.0)
	assert.GreaterOrEqual(t, res.Offset.DZ, -2.0)
}

func TestScore(t *testing.T) {
	inner := geo.Rectangle(1, 1, 3, 3)
	s := NewSolver([]geo.Ring{inner}, nil, DefaultOptions())
	assert.Equal(t, 4, s.Score(target, Offset{}))
	assert.Equal(t, 0, s.Score(target, Offset{DX: 10}))

	// Moving right by 2 leaves the west edge midpoint (2,2) inside and the
	// obstacle's east corners inside the target.
	assert.Equal(t, 3, s.Score(target, Offset{DX: 2}))
}

func TestFlushRoadIsSymmetric(t *testing.T) {
	lot := geo.Rectangle(0, 0, 10, 10)
	south := Road{Centerline: geo.NewPolyline(geo.Pt(-5, -1), geo.Pt(15, -1)), HalfWidth: 1}
	north := Road{Centerline: geo.NewPolyline(geo.Pt(-5, 11), geo.Pt(15, 11)), HalfWidth: 1}
	west := Road{Centerline: geo.NewPolyline(geo.Pt(-1, -5), geo.Pt(-1, 15)), HalfWidth: 1}
	east := Road{Centerline: geo.NewPolyline(geo.Pt(11, -5), geo.Pt(11, 15)), HalfWidth: 1}

	for name, road := range map[string]Road{"south": south, "north": north, "west": west, "east": east} {
		s := NewSolver(nil, []Road{road}, DefaultOptions())
		assert.Equal(t, 0, s.Score(lot, Offset{}), name)
		assert.Equal(t, Result{Evaluated: 1}, s.Solve(lot), name)
	}
}

func TestSolveCoincidentObstacle(t *testing.T) {
	// The target sits exactly on an obstacle, walled in on the west, north
	// and south; the only clear spot within 2 m is east.
	square := geo.Rectangle(0, 0, 2, 2)
	obstacles := []geo.Ring{
		square,
		geo.Rectangle(-6, -6, 0, 8),
		geo.Rectangle(0, 2, 2, 8),
		geo.Rectangle(0, -6, 2, 0),
	}
	s := NewSolver(obstacles, nil, DefaultOptions())
	res := s.Solve(square)

	assert.Equal(t, 12, res.InitialOverlap)
	assert.Equal(t, 0, res.Overlap)
	assert.InDelta(t, 2, res.Offset.DX, 1e-9)
	assert.InDelta(t, 0, res.Offset.DZ, 1e-9)
}

func TestNewSolverSkipsDegenerate(t *testing.T) {
	s := NewSolver([]geo.Ring{
		nil,
		{{X: 0, Z: 0}, {X: 1, Z: 1}},
		{{X: 0, Z: 0}, {X: 1, Z: 0}, {X: 2, Z: 0}},
		geo.Rectangle(0, 0, 1, 1),
	}, []Road{{Centerline: geo.NewPolyline(geo.Pt(0, 0)), HalfWidth: 2}}, DefaultOptions())
	assert.Equal(t, 1, s.Len())
}

func TestRoadRibbons(t *testing.T) {
	r := Road{Centerline: geo.NewPolyline(geo.Pt(0, 0), geo.Pt(0, 10), geo.Pt(5, 10)), HalfWidth: 0.5}
	ribbons := RoadRibbons(r)
	require.Len(t, ribbons, 2)
	assert.InDelta(t, 10, ribbons[0].Area(), 1e-9)
	assert.InDelta(t, 5, ribbons[1].Area(), 1e-9)
}

func BenchmarkSolve(b *testing.B) {
	var obstacles []geo.Ring
	for i := range 30 {
		x := float64(i%6)*7 - 20
		z := float64(i/6)*7 - 20
		obstacles = append(obstacles, geo.Rectangle(x, z, x+5, z+5))
	}
	s := NewSolver(obstacles, nil, DefaultOptions())
	for b.Loop() {
		s.Solve(target)
	}
}
