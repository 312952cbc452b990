package radius

import (
	"context"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/collide"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/mesh"
)

// BatchRadii estimates the radius at every query point. Points are
// independent, so the work fans out across at most workers goroutines
// (NumCPU when workers < 1) over a single shared read-only collision
// volume. When cfg.Rand is set, each point gets its own source seeded from
// it up front, keeping results reproducible regardless of scheduling.
func BatchRadii(ctx context.Context, points []geom.Vec3, m *mesh.TriMesh, cfg Config, workers int) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	vol, err := collide.NewVolume(m)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var seeds []int64
	if cfg.Rand != nil {
		seeds = make([]int64, len(points))
		for i := range seeds {
			seeds[i] = cfg.Rand.Int63()
		}
	}

	out := make([]float64, len(points))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range points {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pointCfg := cfg
			if seeds != nil {
				pointCfg.Rand = rand.New(rand.NewSource(seeds[i]))
			}
			r, err := PointRadius(p, m, vol, pointCfg)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
