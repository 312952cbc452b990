// Package solid produces triangle meshes from procedural solids using the
// github.com/deadsy/sdfx SDF-based CAD library. It backs the sample-archive
// generator and integration tests that need watertight meshes of known
// shape without shipping binary fixtures.
package solid

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/mesh"
)

// defaultMeshCells controls marching cubes tessellation resolution when the
// caller passes cells <= 0.
const defaultMeshCells = 100

// Sphere returns a tessellated sphere centered at the origin.
func Sphere(radius float64, cells int) (*mesh.TriMesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("solid: sphere: %w", err)
	}
	return toMesh(s, cells), nil
}

// Box returns a tessellated axis-aligned box centered at the origin.
func Box(x, y, z float64, cells int) (*mesh.TriMesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("solid: box: %w", err)
	}
	return toMesh(s, cells), nil
}

// Capsule returns a tessellated capsule along the Z axis: a cylinder of the
// given length capped by hemispheres, centered at the origin. This is the
// stand-in dendrite shaft for generated sample archives.
func Capsule(length, radius float64, cells int) (*mesh.TriMesh, error) {
	if length <= 0 || radius <= 0 {
		return nil, fmt.Errorf("solid: capsule needs positive length and radius, got %g x %g", length, radius)
	}
	shaft, err := sdf.Cylinder3D(length, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("solid: capsule shaft: %w", err)
	}
	dome, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("solid: capsule cap: %w", err)
	}
	top := sdf.Transform3D(dome, sdf.Translate3d(v3.Vec{Z: length / 2}))
	bottom := sdf.Transform3D(dome, sdf.Translate3d(v3.Vec{Z: -length / 2}))
	return toMesh(sdf.Union3D(shaft, top, bottom), cells), nil
}

// Dendrite returns a capsule shaft along the Z axis with spherical bulges
// unioned at the given head centers. Generated archives use this so radius
// estimates at head centers differ measurably from the shaft radius.
func Dendrite(length, shaftRadius float64, heads []geom.Vec3, headRadius float64, cells int) (*mesh.TriMesh, error) {
	if length <= 0 || shaftRadius <= 0 {
		return nil, fmt.Errorf("solid: dendrite needs positive length and radius, got %g x %g", length, shaftRadius)
	}
	shaft, err := sdf.Cylinder3D(length, shaftRadius, 0)
	if err != nil {
		return nil, fmt.Errorf("solid: dendrite shaft: %w", err)
	}
	parts := []sdf.SDF3{shaft}

	dome, err := sdf.Sphere3D(shaftRadius)
	if err != nil {
		return nil, fmt.Errorf("solid: dendrite cap: %w", err)
	}
	parts = append(parts,
		sdf.Transform3D(dome, sdf.Translate3d(v3.Vec{Z: length / 2})),
		sdf.Transform3D(dome, sdf.Translate3d(v3.Vec{Z: -length / 2})))

	if len(heads) > 0 && headRadius > 0 {
		head, err := sdf.Sphere3D(headRadius)
		if err != nil {
			return nil, fmt.Errorf("solid: dendrite head: %w", err)
		}
		for _, h := range heads {
			parts = append(parts, sdf.Transform3D(head, sdf.Translate3d(v3.Vec{X: h.X, Y: h.Y, Z: h.Z})))
		}
	}
	return toMesh(sdf.Union3D(parts...), cells), nil
}

// toMesh runs marching cubes over an SDF and welds the resulting triangle
// soup into an indexed mesh.
func toMesh(s sdf.SDF3, cells int) *mesh.TriMesh {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	m := &mesh.TriMesh{Faces: make([][3]int, 0, len(triangles))}
	seen := make(map[v3.Vec]int)
	for _, tri := range triangles {
		var face [3]int
		for j := 0; j < 3; j++ {
			v := tri[j]
			idx, ok := seen[v]
			if !ok {
				idx = len(m.Vertices)
				seen[v] = idx
				m.Vertices = append(m.Vertices, geom.Vec3{X: v.X, Y: v.Y, Z: v.Z})
			}
			face[j] = idx
		}
		m.Faces = append(m.Faces, face)
	}
	return m
}
