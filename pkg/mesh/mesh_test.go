package mesh

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
)

func TestTriMeshCounts(t *testing.T) {
	tests := []struct {
		name      string
		mesh      *TriMesh
		verts     int
		tris      int
		wantEmpty bool
	}{
		{"empty", &TriMesh{}, 0, 0, true},
		{"vertices only", &TriMesh{Vertices: []geom.Vec3{{}}}, 1, 0, true},
		{"unit cube", Cuboid(geom.Vec3{}, geom.Vec3{X: 1, Y: 1, Z: 1}), 8, 12, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mesh.VertexCount(); got != tt.verts {
				t.Errorf("VertexCount() = %d, want %d", got, tt.verts)
			}
			if got := tt.mesh.TriangleCount(); got != tt.tris {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.tris)
			}
			if got := tt.mesh.IsEmpty(); got != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestTriMeshBoundsAndExtent(t *testing.T) {
	m := Cuboid(geom.Vec3{X: -1, Y: -2, Z: 0}, geom.Vec3{X: 1, Y: 3, Z: 1})

	min, max := m.Bounds()
	if min != (geom.Vec3{X: -1, Y: -2, Z: 0}) {
		t.Errorf("Bounds min = %v", min)
	}
	if max != (geom.Vec3{X: 1, Y: 3, Z: 1}) {
		t.Errorf("Bounds max = %v", max)
	}
	if got := m.MaxExtent(); got != 5 {
		t.Errorf("MaxExtent() = %v, want 5 (Y span)", got)
	}
}

func TestTriMeshScale(t *testing.T) {
	m := Cuboid(geom.Vec3{X: -1, Y: -1, Z: -1}, geom.Vec3{X: 1, Y: 1, Z: 1})
	m.Scale(1e9)

	min, max := m.Bounds()
	if min != (geom.Vec3{X: -1e9, Y: -1e9, Z: -1e9}) || max != (geom.Vec3{X: 1e9, Y: 1e9, Z: 1e9}) {
		t.Errorf("bounds after scale = %v..%v", min, max)
	}
	if got := m.TriangleCount(); got != 12 {
		t.Errorf("TriangleCount() = %d after scale, want 12", got)
	}
}

func TestTriMeshValidate(t *testing.T) {
	good := Cuboid(geom.Vec3{}, geom.Vec3{X: 1, Y: 1, Z: 1})
	if err := good.Validate(); err != nil {
		t.Errorf("Validate() on cube: %v", err)
	}

	bad := &TriMesh{
		Vertices: []geom.Vec3{{}, {X: 1}},
		Faces:    [][3]int{{0, 1, 2}},
	}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted out-of-range face index")
	}
}

func TestSTLRoundTrip(t *testing.T) {
	orig := Cuboid(geom.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5})

	var buf bytes.Buffer
	if err := EncodeSTL(&buf, orig); err != nil {
		t.Fatalf("EncodeSTL: %v", err)
	}
	// 80 header + 4 count + 12 triangles * 50 bytes.
	if want := 80 + 4 + 12*50; buf.Len() != want {
		t.Errorf("encoded size = %d, want %d", buf.Len(), want)
	}

	got, err := DecodeSTL(&buf)
	if err != nil {
		t.Fatalf("DecodeSTL: %v", err)
	}
	if got.TriangleCount() != orig.TriangleCount() {
		t.Errorf("triangles = %d, want %d", got.TriangleCount(), orig.TriangleCount())
	}
	// Welding rebuilds the shared corners of the cube.
	if got.VertexCount() != 8 {
		t.Errorf("welded vertices = %d, want 8", got.VertexCount())
	}
	min, max := got.Bounds()
	if min != (geom.Vec3{X: -0.5, Y: -0.5, Z: -0.5}) || max != (geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("bounds after round trip = %v..%v", min, max)
	}
}

func TestDecodeSTLEmpty(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 84)) // header + zero count
	if _, err := DecodeSTL(&buf); !errors.Is(err, ErrEmptySTL) {
		t.Errorf("err = %v, want ErrEmptySTL", err)
	}
}

func TestUVSphereOnSurface(t *testing.T) {
	center := geom.Vec3{X: 1, Y: -2, Z: 0.5}
	const radius = 3.0
	m := UVSphere(center, radius, 16, 8)

	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for i, v := range m.Vertices {
		if d := math.Abs(v.Distance(center) - radius); d > 1e-9 {
			t.Errorf("vertex %d off surface by %g", i, d)
		}
	}
	// Closed sphere: poles + interior rings, quads split in two.
	if want := 2 + 16*7; m.VertexCount() != want {
		t.Errorf("vertices = %d, want %d", m.VertexCount(), want)
	}
	if want := 2*16 + 6*16*2; m.TriangleCount() != want {
		t.Errorf("triangles = %d, want %d", m.TriangleCount(), want)
	}
}
