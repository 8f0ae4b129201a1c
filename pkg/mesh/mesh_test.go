package mesh

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yijongkuk/mdmd/pkg/envelope"
	"github.com/yijongkuk/mdmd/pkg/geo"
	"github.com/yijongkuk/mdmd/pkg/zoning"
)

func defaultEnvelope(t testing.TB) *envelope.Envelope {
	t.Helper()
	e, err := envelope.DeriveForZone(envelope.ParcelInput{Area: 200, Zone: zoning.GeneralResidential1})
	require.NoError(t, err)
	return e
}

func TestFloorSolidBounds(t *testing.T) {
	s, err := FloorSolid(geo.Rectangle(0, 0, 4, 2), 2)
	require.NoError(t, err)

	bb := s.BoundingBox()
	assert.InDelta(t, 0, bb.Min.X, 1e-9)
	assert.InDelta(t, 4, bb.Max.X, 1e-9)
	assert.InDelta(t, 2, bb.Max.Y, 1e-9)
	assert.InDelta(t, envelope.FloorHeight, bb.Min.Z, 1e-9)
	assert.InDelta(t, 2*envelope.FloorHeight, bb.Max.Z, 1e-9)
}

func TestEnvelopeSolidStacksFloors(t *testing.T) {
	e := defaultEnvelope(t)
	s, err := EnvelopeSolid(e)
	require.NoError(t, err)

	half := math.Sqrt(e.FootprintArea) / 2
	bb := s.BoundingBox()
	assert.InDelta(t, -half, bb.Min.X, 1e-6)
	assert.InDelta(t, half, bb.Max.Y, 1e-6)
	assert.InDelta(t, 0, bb.Min.Z, 1e-9)
	assert.InDelta(t, e.HeightMeters, bb.Max.Z, 1e-9)

	// Inside the middle floor, outside above the roof.
	assert.Less(t, s.Evaluate(vec(0, 0, 4.5)), 0.0)
	assert.Greater(t, s.Evaluate(vec(0, 0, e.HeightMeters+1)), 0.0)
}

func TestEnvelopeSolidEmpty(t *testing.T) {
	_, err := EnvelopeSolid(&envelope.Envelope{})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = WriteSTL(&bytes.Buffer{}, nil, 10)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestWriteSTL(t *testing.T) {
	e := defaultEnvelope(t)
	var buf bytes.Buffer
	n, err := WriteSTL(&buf, e, 24)
	require.NoError(t, err)
	require.Positive(t, n)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "solid envelope\n"))
	assert.True(t, strings.HasSuffix(out, "endsolid envelope\n"))
	assert.Equal(t, n, strings.Count(out, "facet normal"))
	assert.Equal(t, 3*n, strings.Count(out, "vertex "))
}

func BenchmarkWriteSTL(b *testing.B) {
	e := defaultEnvelope(b)
	for b.Loop() {
		var buf bytes.Buffer
		if _, err := WriteSTL(&buf, e, 48); err != nil {
			b.Fatal(err)
		}
	}
}
