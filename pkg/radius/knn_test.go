package radius

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
)

func TestNeighborRadiiNearestVertex(t *testing.T) {
	vertices := []geom.Vec3{
		{X: 1}, {X: -2}, {Y: 3}, {X: 5, Y: 5, Z: 5},
	}

	// k=1 with mean reduces to the plain nearest-vertex distance.
	got, err := NeighborRadii([]geom.Vec3{{}, {Y: 2.5}}, vertices, 1, AggregateMean)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 1.0, got[0], 1e-9)
	assert.InDelta(t, 0.5, got[1], 1e-9)
}

func TestNeighborRadiiAggregates(t *testing.T) {
	// Vertices at known distances 1, 2, 3 from the origin.
	vertices := []geom.Vec3{{X: 1}, {Y: 2}, {Z: -3}}

	tests := []struct {
		agg  Aggregate
		want float64
	}{
		{AggregateMean, 2},
		{AggregateMedian, 2},
		{AggregateMin, 1},
		{AggregateMax, 3},
	}
	for _, tt := range tests {
		t.Run(tt.agg.String(), func(t *testing.T) {
			got, err := NeighborRadii([]geom.Vec3{{}}, vertices, 3, tt.agg)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got[0], 1e-9)
		})
	}
}

func TestNeighborRadiiCapsK(t *testing.T) {
	vertices := []geom.Vec3{{X: 1}, {X: 2}}

	// k beyond the vertex count falls back to all vertices.
	got, err := NeighborRadii([]geom.Vec3{{}}, vertices, 10, AggregateMax)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got[0], 1e-9)
}

func TestNeighborRadiiErrors(t *testing.T) {
	queries := []geom.Vec3{{}}
	vertices := []geom.Vec3{{X: 1}}

	_, err := NeighborRadii(queries, nil, 1, AggregateMean)
	assert.ErrorIs(t, err, ErrNoVertices)

	_, err = NeighborRadii(queries, vertices, 0, AggregateMean)
	assert.ErrorIs(t, err, ErrBadK)

	_, err = NeighborRadii(queries, vertices, 1, Aggregate(42))
	assert.ErrorIs(t, err, ErrBadAggregate)
}

func TestNeighborRadiiDeterministic(t *testing.T) {
	vertices := make([]geom.Vec3, 0, 50)
	for i := 0; i < 50; i++ {
		vertices = append(vertices, geom.Vec3{
			X: float64(i % 7), Y: float64(i % 11), Z: float64(i % 5),
		})
	}
	queries := []geom.Vec3{{X: 3, Y: 4, Z: 2}, {X: 0.5, Y: 9, Z: 1}}

	a, err := NeighborRadii(queries, vertices, 5, AggregateMedian)
	require.NoError(t, err)
	b, err := NeighborRadii(queries, vertices, 5, AggregateMedian)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
