package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
)

// ErrEmptySTL reports an STL stream with no triangles.
var ErrEmptySTL = errors.New("mesh: STL stream has no triangles")

// stlHeader is the fixed 80-byte binary STL preamble. The content is
// ignored by readers; we stamp ours for traceability.
var stlHeader = func() [80]byte {
	var h [80]byte
	copy(h[:], "dsb-proofreader binary STL")
	return h
}()

// EncodeSTL writes m as binary STL: an 80-byte header, a uint32 triangle
// count, then per triangle a face normal, three vertices (float32 each) and
// a zero attribute word, all little-endian.
func EncodeSTL(w io.Writer, m *TriMesh) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, err := w.Write(stlHeader[:]); err != nil {
		return fmt.Errorf("mesh: write STL header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(m.TriangleCount())); err != nil {
		return fmt.Errorf("mesh: write STL triangle count: %w", err)
	}

	buf := make([]byte, 50) // 12 float32s + uint16 attribute
	for i := range m.Faces {
		a, b, c := m.Triangle(i)
		n := faceNormal(a, b, c)
		putVec(buf[0:], n)
		putVec(buf[12:], a)
		putVec(buf[24:], b)
		putVec(buf[36:], c)
		buf[48], buf[49] = 0, 0
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("mesh: write STL triangle %d: %w", i, err)
		}
	}
	return nil
}

// DecodeSTL reads a binary STL stream and rebuilds an indexed mesh.
// STL stores a triangle soup, so exactly coincident corner coordinates are
// welded back into shared vertices; stored normals are discarded and
// recomputed on demand from the winding.
func DecodeSTL(r io.Reader) (*TriMesh, error) {
	var header [80]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("mesh: read STL header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("mesh: read STL triangle count: %w", err)
	}
	if count == 0 {
		return nil, ErrEmptySTL
	}

	m := &TriMesh{Faces: make([][3]int, 0, count)}
	seen := make(map[[3]float32]int)
	buf := make([]byte, 50)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("mesh: read STL triangle %d: %w", i, err)
		}
		var face [3]int
		for c := 0; c < 3; c++ {
			key := getVec32(buf[12+12*c:])
			idx, ok := seen[key]
			if !ok {
				idx = len(m.Vertices)
				seen[key] = idx
				m.Vertices = append(m.Vertices, geom.Vec3{
					X: float64(key[0]),
					Y: float64(key[1]),
					Z: float64(key[2]),
				})
			}
			face[c] = idx
		}
		m.Faces = append(m.Faces, face)
	}
	return m, nil
}

// faceNormal returns the unit normal of triangle (a, b, c), or the zero
// vector for a degenerate triangle.
func faceNormal(a, b, c geom.Vec3) geom.Vec3 {
	n, _ := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return n
}

func putVec(b []byte, v geom.Vec3) {
	binary.LittleEndian.PutUint32(b[0:], floatBits(v.X))
	binary.LittleEndian.PutUint32(b[4:], floatBits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], floatBits(v.Z))
}

func floatBits(f float64) uint32 {
	return math.Float32bits(float32(f))
}

func bitsFloat(b uint32) float32 {
	return math.Float32frombits(b)
}

func getVec32(b []byte) [3]float32 {
	return [3]float32{
		bitsFloat(binary.LittleEndian.Uint32(b[0:])),
		bitsFloat(binary.LittleEndian.Uint32(b[4:])),
		bitsFloat(binary.LittleEndian.Uint32(b[8:])),
	}
}
