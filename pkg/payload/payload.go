// Package payload reads and writes the DSB session archive: a zip file
// holding the dendrite surface as binary STL, the spine head centers as a
// packed float array, optional annotations and PSD surfaces, and a series
// of timestamped proofreading snapshots as CSV.
package payload

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/mesh"
)

// Archive entry names.
const (
	meshEntry        = "mesh.stl"
	headCentersEntry = "head_centers.bin"
	annotationsEntry = "annotations.json"
	psdsEntry        = "psds.stl"
)

// headCentersMagic tags the packed point blob so stale or foreign archives
// fail loudly instead of decoding garbage coordinates.
var headCentersMagic = [4]byte{'D', 'S', 'B', 'C'}

// ErrMissingEntry reports an archive without one of its required entries.
var ErrMissingEntry = errors.New("payload: archive entry missing")

// Annotation is a free-text marker pinned to a location on the structure.
type Annotation struct {
	Position geom.Vec3 `json:"position"`
	Text     string    `json:"text"`
}

// Payload is the in-memory form of a DSB archive.
type Payload struct {
	DendriteMesh *mesh.TriMesh
	HeadCenters  []geom.Vec3
	Annotations  []Annotation
	PSDs         *mesh.TriMesh // nil when the archive has no PSD surface
}

// Save writes pld to path as a fresh archive, replacing any existing file.
func Save(path string, pld *Payload) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("payload: create archive: %w", err)
	}
	zw := zip.NewWriter(f)

	if err := writeMeshEntry(zw, meshEntry, pld.DendriteMesh); err != nil {
		return err
	}
	if err := writeHeadCenters(zw, pld.HeadCenters); err != nil {
		return err
	}
	if err := writeAnnotations(zw, pld.Annotations); err != nil {
		return err
	}
	if err := writeMeshEntry(zw, psdsEntry, pld.PSDs); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("payload: finalize archive: %w", err)
	}
	return f.Close()
}

// Load reads a DSB archive from path.
func Load(path string) (*Payload, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("payload: open archive: %w", err)
	}
	defer zr.Close()

	pld := &Payload{}

	meshBytes, err := readEntry(&zr.Reader, meshEntry)
	if err != nil {
		return nil, err
	}
	pld.DendriteMesh, err = mesh.DecodeSTL(bytes.NewReader(meshBytes))
	if err != nil {
		return nil, fmt.Errorf("payload: %s: %w", meshEntry, err)
	}

	centerBytes, err := readEntry(&zr.Reader, headCentersEntry)
	if err != nil {
		return nil, err
	}
	pld.HeadCenters, err = decodeHeadCenters(centerBytes)
	if err != nil {
		return nil, err
	}

	if annBytes, err := readEntry(&zr.Reader, annotationsEntry); err == nil && len(annBytes) > 0 {
		if err := json.Unmarshal(annBytes, &pld.Annotations); err != nil {
			return nil, fmt.Errorf("payload: %s: %w", annotationsEntry, err)
		}
	}

	if psdBytes, err := readEntry(&zr.Reader, psdsEntry); err == nil && len(psdBytes) > 0 {
		pld.PSDs, err = mesh.DecodeSTL(bytes.NewReader(psdBytes))
		if err != nil {
			return nil, fmt.Errorf("payload: %s: %w", psdsEntry, err)
		}
	}

	return pld, nil
}

func writeMeshEntry(zw *zip.Writer, name string, m *mesh.TriMesh) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("payload: create %s: %w", name, err)
	}
	if m == nil {
		// The entry exists but is empty, mirroring an absent surface.
		return nil
	}
	if err := mesh.EncodeSTL(w, m); err != nil {
		return fmt.Errorf("payload: %s: %w", name, err)
	}
	return nil
}

func writeHeadCenters(zw *zip.Writer, centers []geom.Vec3) error {
	w, err := zw.Create(headCentersEntry)
	if err != nil {
		return fmt.Errorf("payload: create %s: %w", headCentersEntry, err)
	}
	if _, err := w.Write(headCentersMagic[:]); err != nil {
		return fmt.Errorf("payload: %s: %w", headCentersEntry, err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(centers))); err != nil {
		return fmt.Errorf("payload: %s: %w", headCentersEntry, err)
	}
	for _, c := range centers {
		if err := binary.Write(w, binary.LittleEndian, [3]float64{c.X, c.Y, c.Z}); err != nil {
			return fmt.Errorf("payload: %s: %w", headCentersEntry, err)
		}
	}
	return nil
}

func decodeHeadCenters(b []byte) ([]geom.Vec3, error) {
	r := bytes.NewReader(b)
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("payload: %s: %w", headCentersEntry, err)
	}
	if magic != headCentersMagic {
		return nil, fmt.Errorf("payload: %s: bad magic %q", headCentersEntry, magic)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("payload: %s: %w", headCentersEntry, err)
	}
	centers := make([]geom.Vec3, count)
	for i := range centers {
		var c [3]float64
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return nil, fmt.Errorf("payload: %s: point %d: %w", headCentersEntry, i, err)
		}
		centers[i] = geom.Vec3{X: c[0], Y: c[1], Z: c[2]}
	}
	return centers, nil
}

func writeAnnotations(zw *zip.Writer, anns []Annotation) error {
	w, err := zw.Create(annotationsEntry)
	if err != nil {
		return fmt.Errorf("payload: create %s: %w", annotationsEntry, err)
	}
	enc, err := json.Marshal(anns)
	if err != nil {
		return fmt.Errorf("payload: %s: %w", annotationsEntry, err)
	}
	if _, err := w.Write(enc); err != nil {
		return fmt.Errorf("payload: %s: %w", annotationsEntry, err)
	}
	return nil
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("payload: open %s: %w", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("payload: read %s: %w", name, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingEntry, name)
}

// rewrite copies every entry of the archive at path into a fresh zip, lets
// add append new entries, then atomically replaces the file. archive/zip
// cannot append in place.
func rewrite(path string, add func(*zip.Writer) error) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("payload: open archive: %w", err)
	}
	defer zr.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("payload: temp archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	zw := zip.NewWriter(tmp)
	for _, f := range zr.File {
		if err := zw.Copy(f); err != nil {
			return fmt.Errorf("payload: copy %s: %w", f.Name, err)
		}
	}
	if err := add(zw); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("payload: finalize archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("payload: close temp archive: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
