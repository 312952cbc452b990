// Package mesh defines the indexed triangle mesh used throughout the
// proofreader, along with its binary STL wire format.
package mesh

import (
	"fmt"
	"math"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
)

// TriMesh is an indexed triangle mesh: a vertex cloud plus faces of three
// vertex indices each. Meshes are assumed closed for containment queries to
// be meaningful, but nothing here requires watertightness.
type TriMesh struct {
	Vertices []geom.Vec3
	Faces    [][3]int
}

// VertexCount returns the number of vertices.
func (m *TriMesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *TriMesh) TriangleCount() int {
	return len(m.Faces)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *TriMesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Faces) == 0
}

// Triangle returns the three corner points of face i.
func (m *TriMesh) Triangle(i int) (a, b, c geom.Vec3) {
	f := m.Faces[i]
	return m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
}

// Bounds returns the axis-aligned bounding box of the vertex cloud.
// An empty mesh returns two zero corners.
func (m *TriMesh) Bounds() (min, max geom.Vec3) {
	if len(m.Vertices) == 0 {
		return geom.Vec3{}, geom.Vec3{}
	}
	min = m.Vertices[0]
	max = m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max
}

// MaxExtent returns the largest bounding-box edge length. This is the
// characteristic scale used to size cast rays so they always traverse the
// mesh from any interior point.
func (m *TriMesh) MaxExtent() float64 {
	min, max := m.Bounds()
	d := max.Sub(min)
	return math.Max(d.X, math.Max(d.Y, d.Z))
}

// Scale multiplies every vertex by s in place, for unit conversions
// between the archive frame and the working frame.
func (m *TriMesh) Scale(s float64) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Scale(s)
	}
}

// Validate checks that every face references vertices that exist.
func (m *TriMesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("mesh: face %d references vertex %d, have %d vertices", i, idx, n)
			}
		}
	}
	return nil
}
