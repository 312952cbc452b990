package collide

import (
	"math"
	"sort"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/mesh"
)

// Compile-time interface check.
var _ Collider = (*Volume)(nil)

const (
	// leafSize is the maximum triangle count per BVH leaf.
	leafSize = 4
	// hitEps skips intersections at the ray origin itself so a query point
	// sitting exactly on the surface does not count its own triangle.
	hitEps = 1e-9
	// detEps rejects rays parallel to a triangle's plane.
	detEps = 1e-12
)

// containmentProbe is the fixed direction used for parity tests. It is
// deliberately incommensurate with the coordinate axes so axis-aligned
// meshes are not probed through shared edges or corners.
var containmentProbe = mustUnit(geom.Vec3{X: 0.9037, Y: 0.3931, Z: 0.1684})

func mustUnit(v geom.Vec3) geom.Vec3 {
	u, _ := v.Normalize()
	return u
}

// triangle is a precomputed face: one corner plus the two edge vectors
// Möller-Trumbore works on.
type triangle struct {
	a, e1, e2 geom.Vec3
	face      int
}

// bvhNode is a node of the flattened AABB tree. Interior nodes reference
// children by index; leaves own a range of the reordered triangle slice.
type bvhNode struct {
	min, max     geom.Vec3
	left, right  int // child node indices, -1 on leaves
	start, count int // leaf triangle range
}

// Volume is an AABB-tree-accelerated triangle soup built once per mesh.
// It is immutable after construction.
type Volume struct {
	tris  []triangle
	nodes []bvhNode
}

// NewVolume builds the acceleration structure for m. An empty mesh is a
// configuration error.
func NewVolume(m *mesh.TriMesh) (*Volume, error) {
	if m == nil || m.IsEmpty() {
		return nil, ErrEmptyMesh
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	v := &Volume{tris: make([]triangle, m.TriangleCount())}
	for i := range v.tris {
		a, b, c := m.Triangle(i)
		v.tris[i] = triangle{a: a, e1: b.Sub(a), e2: c.Sub(a), face: i}
	}
	v.nodes = make([]bvhNode, 0, 2*len(v.tris))
	v.build(0, len(v.tris))
	return v, nil
}

// build recursively partitions tris[start:end] and appends the subtree,
// returning its root node index.
func (v *Volume) build(start, end int) int {
	min, max := v.bounds(start, end)
	idx := len(v.nodes)
	v.nodes = append(v.nodes, bvhNode{min: min, max: max, left: -1, right: -1, start: start, count: end - start})

	if end-start <= leafSize {
		return idx
	}

	axis := widestAxis(min, max)
	mid := (start + end) / 2
	sub := v.tris[start:end]
	sort.Slice(sub, func(i, j int) bool {
		return centroidAxis(sub[i], axis) < centroidAxis(sub[j], axis)
	})

	left := v.build(start, mid)
	right := v.build(mid, end)
	v.nodes[idx].left = left
	v.nodes[idx].right = right
	v.nodes[idx].count = 0
	return idx
}

func (v *Volume) bounds(start, end int) (min, max geom.Vec3) {
	min = geom.Vec3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = geom.Vec3{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := start; i < end; i++ {
		tr := v.tris[i]
		for _, p := range [3]geom.Vec3{tr.a, tr.a.Add(tr.e1), tr.a.Add(tr.e2)} {
			min.X = math.Min(min.X, p.X)
			min.Y = math.Min(min.Y, p.Y)
			min.Z = math.Min(min.Z, p.Z)
			max.X = math.Max(max.X, p.X)
			max.Y = math.Max(max.Y, p.Y)
			max.Z = math.Max(max.Z, p.Z)
		}
	}
	return min, max
}

func widestAxis(min, max geom.Vec3) int {
	d := max.Sub(min)
	switch {
	case d.X >= d.Y && d.X >= d.Z:
		return 0
	case d.Y >= d.Z:
		return 1
	default:
		return 2
	}
}

func centroidAxis(tr triangle, axis int) float64 {
	c := tr.a.Add(tr.a.Add(tr.e1)).Add(tr.a.Add(tr.e2)).Scale(1.0 / 3.0)
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}

// Segment returns the nearest intersection along the unit direction dir
// within maxDist of origin, and whether one exists.
func (v *Volume) Segment(origin, dir geom.Vec3, maxDist float64) (Hit, bool) {
	var best Hit
	found := false
	v.walk(0, origin, dir, func(t float64, back bool, face int) {
		if !found || t < best.Distance {
			best = Hit{Distance: t, Point: origin.Add(dir.Scale(t)), Tri: face, BackFace: back}
			found = true
		}
	}, maxDist)
	return best, found
}

// crossings counts every surface crossing along dir out to maxDist.
func (v *Volume) crossings(origin, dir geom.Vec3, maxDist float64) int {
	n := 0
	v.walk(0, origin, dir, func(float64, bool, int) { n++ }, maxDist)
	return n
}

// Contains reports whether p lies inside the surface, by crossing parity
// along a fixed probe direction. On a non-watertight mesh parity can
// misreport; callers treat an "outside" answer as a degeneracy signal, so
// the failure mode is a conservative fallback rather than a crash.
func (v *Volume) Contains(p geom.Vec3) bool {
	return v.crossings(p, containmentProbe, math.Inf(1))%2 == 1
}

// walk visits every triangle intersection under node n within tMax.
func (v *Volume) walk(n int, origin, dir geom.Vec3, visit func(t float64, back bool, face int), tMax float64) {
	node := &v.nodes[n]
	if !rayBoxHit(node.min, node.max, origin, dir, tMax) {
		return
	}
	if node.left < 0 {
		for i := node.start; i < node.start+node.count; i++ {
			if t, back, ok := v.tris[i].hit(origin, dir, hitEps, tMax); ok {
				visit(t, back, v.tris[i].face)
			}
		}
		return
	}
	v.walk(node.left, origin, dir, visit, tMax)
	v.walk(node.right, origin, dir, visit, tMax)
}

// hit runs Möller-Trumbore against one triangle. The returned t is the
// distance along the unit direction; back reports a crossing from inside
// (ray and geometric normal on the same side).
func (tr triangle) hit(origin, dir geom.Vec3, tMin, tMax float64) (t float64, back, ok bool) {
	p := dir.Cross(tr.e2)
	det := tr.e1.Dot(p)
	if math.Abs(det) < detEps {
		return 0, false, false
	}
	inv := 1 / det
	s := origin.Sub(tr.a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false, false
	}
	q := s.Cross(tr.e1)
	vv := dir.Dot(q) * inv
	if vv < 0 || u+vv > 1 {
		return 0, false, false
	}
	t = tr.e2.Dot(q) * inv
	if t < tMin || t > tMax {
		return 0, false, false
	}
	return t, det < 0, true
}

// rayBoxHit is the slab test against an AABB, with explicit handling of
// zero direction components so boundary origins do not produce NaNs.
func rayBoxHit(min, max, origin, dir geom.Vec3, tMax float64) bool {
	t0, t1 := 0.0, tMax
	for axis := 0; axis < 3; axis++ {
		var o, d, lo, hi float64
		switch axis {
		case 0:
			o, d, lo, hi = origin.X, dir.X, min.X, max.X
		case 1:
			o, d, lo, hi = origin.Y, dir.Y, min.Y, max.Y
		default:
			o, d, lo, hi = origin.Z, dir.Z, min.Z, max.Z
		}
		if d == 0 {
			if o < lo || o > hi {
				return false
			}
			continue
		}
		ta := (lo - o) / d
		tb := (hi - o) / d
		if ta > tb {
			ta, tb = tb, ta
		}
		if ta > t0 {
			t0 = ta
		}
		if tb < t1 {
			t1 = tb
		}
		if t0 > t1 {
			return false
		}
	}
	return true
}
