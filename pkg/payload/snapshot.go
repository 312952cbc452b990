package payload

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
)

// snapshotTimeLayout orders snapshot names chronologically when sorted as
// plain strings.
const snapshotTimeLayout = "20060102_150405"

// snapshotHeader is the CSV column set shared by every snapshot.
var snapshotHeader = []string{"Name", "PosX", "PosY", "PosZ", "status", "Radius"}

// SnapshotRow is one proofread point in a session snapshot: its name,
// position, review status and, when already computed, its cached radius.
type SnapshotRow struct {
	Name      string
	Pos       geom.Vec3
	Status    string
	Radius    float64
	HasRadius bool
}

// AppendSnapshot adds a new timestamped snapshot CSV named
// <base>_<timestamp>.csv to the archive at path and returns the entry name.
// Earlier snapshots are retained, giving the archive a full session
// history.
func AppendSnapshot(path, base string, rows []SnapshotRow, now time.Time) (string, error) {
	name := fmt.Sprintf("%s_%s.csv", base, now.Format(snapshotTimeLayout))

	err := rewrite(path, func(zw *zip.Writer) error {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("payload: create %s: %w", name, err)
		}
		cw := csv.NewWriter(w)
		if err := cw.Write(snapshotHeader); err != nil {
			return fmt.Errorf("payload: %s: %w", name, err)
		}
		for _, r := range rows {
			radius := ""
			if r.HasRadius {
				radius = strconv.FormatFloat(r.Radius, 'g', -1, 64)
			}
			record := []string{
				r.Name,
				strconv.FormatFloat(r.Pos.X, 'g', -1, 64),
				strconv.FormatFloat(r.Pos.Y, 'g', -1, 64),
				strconv.FormatFloat(r.Pos.Z, 'g', -1, 64),
				r.Status,
				radius,
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("payload: %s: %w", name, err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("payload: %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// LatestSnapshot returns the rows of the newest snapshot whose name starts
// with base, or ok=false when the archive holds none.
func LatestSnapshot(path, base string) (rows []SnapshotRow, ok bool, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, false, fmt.Errorf("payload: open archive: %w", err)
	}
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, base+"_") && strings.HasSuffix(f.Name, ".csv") {
			names = append(names, f.Name)
		}
	}
	if len(names) == 0 {
		return nil, false, nil
	}
	// Timestamped names sort chronologically; take the newest.
	sort.Strings(names)
	latest := names[len(names)-1]

	b, err := readEntry(&zr.Reader, latest)
	if err != nil {
		return nil, false, err
	}
	rows, err = parseSnapshot(b)
	if err != nil {
		return nil, false, fmt.Errorf("payload: %s: %w", latest, err)
	}
	return rows, true, nil
}

func parseSnapshot(b []byte) ([]SnapshotRow, error) {
	cr := csv.NewReader(strings.NewReader(string(b)))
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("snapshot has no header")
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, want := range snapshotHeader[:5] {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("snapshot missing column %q", want)
		}
	}

	rows := make([]SnapshotRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		pos := geom.Vec3{}
		var err error
		if pos.X, err = strconv.ParseFloat(rec[col["PosX"]], 64); err != nil {
			return nil, fmt.Errorf("row %d: PosX: %w", i, err)
		}
		if pos.Y, err = strconv.ParseFloat(rec[col["PosY"]], 64); err != nil {
			return nil, fmt.Errorf("row %d: PosY: %w", i, err)
		}
		if pos.Z, err = strconv.ParseFloat(rec[col["PosZ"]], 64); err != nil {
			return nil, fmt.Errorf("row %d: PosZ: %w", i, err)
		}
		row := SnapshotRow{
			Name:   rec[col["Name"]],
			Pos:    pos,
			Status: rec[col["status"]],
		}
		if ri, ok := col["Radius"]; ok && rec[ri] != "" {
			if row.Radius, err = strconv.ParseFloat(rec[ri], 64); err != nil {
				return nil, fmt.Errorf("row %d: Radius: %w", i, err)
			}
			row.HasRadius = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}
