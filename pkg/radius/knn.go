package radius

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
)

// kNN configuration errors.
var (
	ErrNoVertices = errors.New("radius: mesh vertex cloud is empty")
	ErrBadK       = errors.New("radius: neighbor count must be at least 1")
)

// NeighborRadii returns, for each query point, the aggregate of the
// distances to its k nearest mesh vertices. A k-d tree over the vertex
// cloud is built once per call; k is capped at the vertex count.
// Nearest-neighbor ties are broken arbitrarily by tree order, which only
// perturbs the aggregate at floating-point level.
func NeighborRadii(queries, vertices []geom.Vec3, k int, agg Aggregate) ([]float64, error) {
	if len(vertices) == 0 {
		return nil, ErrNoVertices
	}
	if k < 1 {
		return nil, ErrBadK
	}
	if !agg.valid() {
		return nil, ErrBadAggregate
	}
	if k > len(vertices) {
		k = len(vertices)
	}

	pts := make(kdtree.Points, len(vertices))
	for i, v := range vertices {
		pts[i] = kdtree.Point{v.X, v.Y, v.Z}
	}
	tree := kdtree.New(pts, false)

	out := make([]float64, len(queries))
	dists := make([]float64, 0, k)
	for i, q := range queries {
		keep := kdtree.NewNKeeper(k)
		tree.NearestSet(keep, kdtree.Point{q.X, q.Y, q.Z})

		dists = dists[:0]
		for _, cd := range keep.Heap {
			if cd.Comparable == nil || math.IsInf(cd.Dist, 1) {
				continue
			}
			// The keeper stores squared Euclidean distances.
			dists = append(dists, math.Sqrt(cd.Dist))
		}

		v, err := agg.Apply(dists)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
