package radius

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAggregate(t *testing.T) {
	for want, name := range aggregateNames {
		got, err := ParseAggregate(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}

	_, err := ParseAggregate("p50")
	assert.ErrorIs(t, err, ErrBadAggregate)
}

func TestAggregateApply(t *testing.T) {
	samples := []float64{4, 1, 3, 2, 5}

	tests := []struct {
		agg  Aggregate
		want float64
	}{
		{AggregateMean, 3},
		{AggregateMedian, 3},
		{AggregateMax, 5},
		{AggregateMin, 1},
		{AggregateP75, 4},
	}
	for _, tt := range tests {
		t.Run(tt.agg.String(), func(t *testing.T) {
			got, err := tt.agg.Apply(samples)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAggregateApplyDoesNotMutate(t *testing.T) {
	samples := []float64{4, 1, 3}
	_, err := AggregateMedian.Apply(samples)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 1, 3}, samples)
}

func TestAggregateApplyEmpty(t *testing.T) {
	for agg := range aggregateNames {
		_, err := agg.Apply(nil)
		assert.ErrorIs(t, err, ErrNoSamples, agg.String())
	}
}

func TestAggregateApplyUnknown(t *testing.T) {
	_, err := Aggregate(99).Apply([]float64{1})
	assert.ErrorIs(t, err, ErrBadAggregate)
}
