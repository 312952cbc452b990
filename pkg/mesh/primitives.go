package mesh

import (
	"math"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
)

// Cuboid returns a closed axis-aligned box mesh spanning min..max,
// twelve triangles with outward winding.
func Cuboid(min, max geom.Vec3) *TriMesh {
	v := []geom.Vec3{
		{X: min.X, Y: min.Y, Z: min.Z}, // 0
		{X: max.X, Y: min.Y, Z: min.Z}, // 1
		{X: max.X, Y: max.Y, Z: min.Z}, // 2
		{X: min.X, Y: max.Y, Z: min.Z}, // 3
		{X: min.X, Y: min.Y, Z: max.Z}, // 4
		{X: max.X, Y: min.Y, Z: max.Z}, // 5
		{X: max.X, Y: max.Y, Z: max.Z}, // 6
		{X: min.X, Y: max.Y, Z: max.Z}, // 7
	}
	f := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // -Z
		{4, 5, 6}, {4, 6, 7}, // +Z
		{0, 1, 5}, {0, 5, 4}, // -Y
		{3, 7, 6}, {3, 6, 2}, // +Y
		{0, 4, 7}, {0, 7, 3}, // -X
		{1, 2, 6}, {1, 6, 5}, // +X
	}
	return &TriMesh{Vertices: v, Faces: f}
}

// UVSphere returns a closed latitude/longitude sphere mesh. Every vertex
// lies exactly at the given radius from the center, which makes it the
// reference surface for radius-estimation tests. segments is the slice
// count around the equator, rings the stack count pole to pole; both are
// clamped to sane minimums.
func UVSphere(center geom.Vec3, radius float64, segments, rings int) *TriMesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	m := &TriMesh{}

	// Poles plus interior rings of vertices.
	m.Vertices = append(m.Vertices, center.Add(geom.Vec3{Z: radius}))
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		sinPhi, cosPhi := math.Sincos(phi)
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			sinTheta, cosTheta := math.Sincos(theta)
			m.Vertices = append(m.Vertices, center.Add(geom.Vec3{
				X: radius * sinPhi * cosTheta,
				Y: radius * sinPhi * sinTheta,
				Z: radius * cosPhi,
			}))
		}
	}
	m.Vertices = append(m.Vertices, center.Add(geom.Vec3{Z: -radius}))

	top := 0
	bottom := len(m.Vertices) - 1
	ring := func(r, s int) int { return 1 + (r-1)*segments + s%segments }

	// Cap fans.
	for s := 0; s < segments; s++ {
		m.Faces = append(m.Faces, [3]int{top, ring(1, s), ring(1, s+1)})
		m.Faces = append(m.Faces, [3]int{bottom, ring(rings-1, s+1), ring(rings-1, s)})
	}
	// Quads between interior rings.
	for r := 1; r < rings-1; r++ {
		for s := 0; s < segments; s++ {
			a, b := ring(r, s), ring(r, s+1)
			c, d := ring(r+1, s), ring(r+1, s+1)
			m.Faces = append(m.Faces, [3]int{a, c, d})
			m.Faces = append(m.Faces, [3]int{a, d, b})
		}
	}
	return m
}
