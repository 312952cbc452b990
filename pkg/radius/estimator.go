package radius

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/collide"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/mesh"
)

// Configuration errors for the ray-cast estimator.
var (
	ErrBadRayCount    = errors.New("radius: ray count must be at least 1")
	ErrBadProjection  = errors.New("radius: unknown projection")
	ErrBadFallback    = errors.New("radius: unknown fallback policy")
	ErrMissingTangent = errors.New("radius: tangent-disk projection needs a tangent direction")
	ErrEmptyMesh      = errors.New("radius: mesh has no geometry")
)

// fallbackNeighbors is the neighbor count used by the kNN fallback.
const fallbackNeighbors = 5

// Projection selects how the ray bundle is arranged around a query point.
type Projection int

const (
	// ProjectionSphere casts rays quasi-uniformly in all directions.
	ProjectionSphere Projection = iota
	// ProjectionTangentDisk casts rays in a regular fan within the plane
	// orthogonal to a supplied tangent direction, probing the structure's
	// cross-section.
	ProjectionTangentDisk
)

// ParseProjection maps a config string to its Projection.
func ParseProjection(s string) (Projection, error) {
	switch s {
	case "sphere":
		return ProjectionSphere, nil
	case "tangent-disk":
		return ProjectionTangentDisk, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadProjection, s)
}

func (p Projection) String() string {
	switch p {
	case ProjectionSphere:
		return "sphere"
	case ProjectionTangentDisk:
		return "tangent-disk"
	}
	return fmt.Sprintf("Projection(%d)", int(p))
}

// FallbackKind selects what happens when the ray-cast result is judged
// unreliable (zero-hit aggregate, or query point outside the mesh).
type FallbackKind int

const (
	// FallbackDisabled returns the raw aggregate, zero included.
	FallbackDisabled FallbackKind = iota
	// FallbackFixed substitutes a caller-chosen constant.
	FallbackFixed
	// FallbackKNN substitutes the k-nearest-neighbor vertex distance
	// aggregate, which is coarser but always defined.
	FallbackKNN
)

// ParseFallback maps a config string to its FallbackKind.
func ParseFallback(s string) (FallbackKind, error) {
	switch s {
	case "disabled", "none":
		return FallbackDisabled, nil
	case "fixed":
		return FallbackFixed, nil
	case "knn":
		return FallbackKNN, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFallback, s)
}

func (f FallbackKind) String() string {
	switch f {
	case FallbackDisabled:
		return "disabled"
	case FallbackFixed:
		return "fixed"
	case FallbackKNN:
		return "knn"
	}
	return fmt.Sprintf("FallbackKind(%d)", int(f))
}

// Config holds the full estimator configuration. There are no hidden
// defaults: the zero value casts a zero-ray bundle and fails Validate.
type Config struct {
	Rays          int
	Aggregate     Aggregate
	Projection    Projection
	Fallback      FallbackKind
	FallbackValue float64    // substituted when Fallback is FallbackFixed
	Tangent       *geom.Vec3 // required for ProjectionTangentDisk
	Rand          *rand.Rand // optional sphere-sampling randomization; nil is deterministic
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	if c.Rays < 1 {
		return ErrBadRayCount
	}
	if !c.Aggregate.valid() {
		return ErrBadAggregate
	}
	switch c.Projection {
	case ProjectionSphere:
	case ProjectionTangentDisk:
		if c.Tangent == nil {
			return ErrMissingTangent
		}
		if c.Tangent.Length() == 0 {
			return fmt.Errorf("%w: tangent has zero length", ErrMissingTangent)
		}
	default:
		return ErrBadProjection
	}
	switch c.Fallback {
	case FallbackDisabled, FallbackFixed, FallbackKNN:
	default:
		return ErrBadFallback
	}
	return nil
}

// directions builds the unit ray directions for one query point.
func (c Config) directions() ([]geom.Vec3, error) {
	switch c.Projection {
	case ProjectionSphere:
		return geom.FibonacciSphere(c.Rays, c.Rand), nil
	case ProjectionTangentDisk:
		return geom.RotateToNormal(geom.DiskFan(c.Rays, 1), *c.Tangent)
	}
	return nil, ErrBadProjection
}

// PointRadius estimates the local radius at point by casting cfg.Rays rays
// against the mesh through vol and aggregating the exit distances.
//
// Rays are sized to the mesh's largest bounding-box extent so any ray from
// an interior point is guaranteed to reach the surface. Only rays that
// actually intersect contribute to the aggregate; a bundle with zero hits
// has raw radius 0 by construction, which is treated as a degenerate
// outcome rather than a measurement. When a fallback is enabled, a raw
// radius of exactly 0 or a query point lying outside the mesh triggers it.
func PointRadius(point geom.Vec3, m *mesh.TriMesh, vol collide.Collider, cfg Config) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if m == nil || m.IsEmpty() {
		return 0, ErrEmptyMesh
	}

	dirs, err := cfg.directions()
	if err != nil {
		return 0, err
	}

	reach := m.MaxExtent()
	hits := make([]float64, 0, len(dirs))
	for _, d := range dirs {
		if hit, ok := vol.Segment(point, d, reach); ok {
			hits = append(hits, hit.Distance)
		}
	}

	// 0 here means "no hits aggregated", not a measured radius.
	raw := 0.0
	if len(hits) > 0 {
		raw, err = cfg.Aggregate.Apply(hits)
		if err != nil {
			return 0, err
		}
	}

	if cfg.Fallback == FallbackDisabled {
		return raw, nil
	}
	if raw != 0 && vol.Contains(point) {
		return raw, nil
	}

	switch cfg.Fallback {
	case FallbackFixed:
		return cfg.FallbackValue, nil
	case FallbackKNN:
		res, err := NeighborRadii([]geom.Vec3{point}, m.Vertices, fallbackNeighbors, cfg.Aggregate)
		if err != nil {
			return 0, err
		}
		return res[0], nil
	}
	return 0, ErrBadFallback
}
