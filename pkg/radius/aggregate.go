// Package radius estimates the local thickness of a tubular structure at a
// point. The primary estimator casts a bundle of rays from the point and
// aggregates the distances at which they exit the surrounding mesh; a
// k-nearest-neighbor estimator over the mesh vertex cloud serves as a
// coarser proxy and as the fallback for degenerate queries.
package radius

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Errors for invalid estimator configuration. These are integration
// mistakes and are reported immediately, never silently defaulted.
var (
	ErrBadAggregate = errors.New("radius: unknown aggregation policy")
	ErrNoSamples    = errors.New("radius: aggregation over zero samples")
)

// Aggregate selects the statistic that collapses a group of distance
// samples into one radius value.
type Aggregate int

const (
	AggregateMean Aggregate = iota
	AggregateMedian
	AggregateMax
	AggregateMin
	AggregateP75
	AggregateP99
)

var aggregateNames = map[Aggregate]string{
	AggregateMean:   "mean",
	AggregateMedian: "median",
	AggregateMax:    "max",
	AggregateMin:    "min",
	AggregateP75:    "percentile75",
	AggregateP99:    "percentile99",
}

// ParseAggregate maps a config string to its Aggregate.
func ParseAggregate(s string) (Aggregate, error) {
	for a, name := range aggregateNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadAggregate, s)
}

func (a Aggregate) String() string {
	if name, ok := aggregateNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Aggregate(%d)", int(a))
}

func (a Aggregate) valid() bool {
	_, ok := aggregateNames[a]
	return ok
}

// Apply collapses samples into a single value. The sample slice is not
// modified. Quantile-style policies use linear interpolation between order
// statistics.
func (a Aggregate) Apply(samples []float64) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrNoSamples
	}
	switch a {
	case AggregateMean:
		return stat.Mean(samples, nil), nil
	case AggregateMax:
		return floats.Max(samples), nil
	case AggregateMin:
		return floats.Min(samples), nil
	case AggregateMedian:
		return quantile(samples, 0.5), nil
	case AggregateP75:
		return quantile(samples, 0.75), nil
	case AggregateP99:
		return quantile(samples, 0.99), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrBadAggregate, int(a))
	}
}

// quantile returns the p-quantile of samples with linear interpolation
// between the two nearest order statistics.
func quantile(samples []float64, p float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	pos := p * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
