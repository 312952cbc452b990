// Package collide provides the spatial acceleration structure backing mesh
// queries: nearest ray-segment intersection and point containment. A Volume
// is built once per mesh from immutable data and is safe to share read-only
// across concurrent queries.
package collide

import (
	"errors"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
)

// ErrEmptyMesh reports a volume built from a mesh with no geometry.
var ErrEmptyMesh = errors.New("collide: mesh has no vertices or faces")

// Hit describes a ray-mesh intersection.
type Hit struct {
	Distance float64   // distance from the ray origin to the hit
	Point    geom.Vec3 // hit location
	Tri      int       // index of the intersected face
	BackFace bool      // true when the ray crossed the surface from inside
}

// Collider is the query surface the radius estimator receives. Segment
// returns the nearest intersection along a unit direction within maxDist;
// Contains reports whether a point lies inside the (assumed closed) surface.
type Collider interface {
	Segment(origin, dir geom.Vec3, maxDist float64) (Hit, bool)
	Contains(p geom.Vec3) bool
}
