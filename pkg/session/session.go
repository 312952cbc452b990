// Package session tracks the state of one proofreading pass over a set of
// spine head centers: per-point review status, display names, and lazily
// computed radius values. The state round-trips through the payload
// snapshot format so a session can be resumed from the archive.
package session

import (
	"fmt"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/payload"
)

// MetersToNanometers converts archive coordinates (meters) to the working
// frame (nanometers) used by the viewer and the estimators. Callers that
// query the archive mesh against session positions must scale the mesh by
// the same factor.
const MetersToNanometers = 1e9

// Status is the review label of one spine head center.
type Status string

const (
	StatusUnreviewed Status = "unreviewed"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusMoved      Status = "moved"
)

// Point is one spine head center under review.
type Point struct {
	Name   string
	Pos    geom.Vec3 // nanometers
	Status Status

	radius    float64
	hasRadius bool
}

// State is the mutable session over all points. It is not safe for
// concurrent use; the interactive caller owns it from a single loop.
type State struct {
	Points []Point
}

// New builds a fresh session from head centers in meters, converting to
// nanometers and assigning sequential default names.
func New(headCentersMeters []geom.Vec3) *State {
	s := &State{Points: make([]Point, len(headCentersMeters))}
	for i, c := range headCentersMeters {
		s.Points[i] = Point{
			Name:   fmt.Sprintf("spine_%d", i),
			Pos:    c.Scale(MetersToNanometers),
			Status: StatusUnreviewed,
		}
	}
	return s
}

// Restore rebuilds a session from a saved snapshot. Snapshot positions are
// already in nanometers; cached radii carry over so they are not recomputed.
func Restore(rows []payload.SnapshotRow) *State {
	s := &State{Points: make([]Point, len(rows))}
	for i, r := range rows {
		st := Status(r.Status)
		if st == "" {
			st = StatusUnreviewed
		}
		s.Points[i] = Point{
			Name:      r.Name,
			Pos:       r.Pos,
			Status:    st,
			radius:    r.Radius,
			hasRadius: r.HasRadius,
		}
	}
	return s
}

// Radius returns the cached radius for point i, invoking compute exactly
// once per point across the session's lifetime. The memoized value is what
// gets persisted in the next snapshot.
func (s *State) Radius(i int, compute func() (float64, error)) (float64, error) {
	p := &s.Points[i]
	if p.hasRadius {
		return p.radius, nil
	}
	r, err := compute()
	if err != nil {
		return 0, err
	}
	p.radius = r
	p.hasRadius = true
	return r, nil
}

// CachedRadius reports the memoized radius for point i, if any.
func (s *State) CachedRadius(i int) (float64, bool) {
	p := s.Points[i]
	return p.radius, p.hasRadius
}

// SetStatus updates the review label for point i.
func (s *State) SetStatus(i int, st Status) {
	s.Points[i].Status = st
}

// Move relocates point i and drops its cached radius, which no longer
// describes the new position.
func (s *State) Move(i int, pos geom.Vec3) {
	p := &s.Points[i]
	p.Pos = pos
	p.Status = StatusMoved
	p.radius = 0
	p.hasRadius = false
}

// Rows emits the session as snapshot rows for persistence.
func (s *State) Rows() []payload.SnapshotRow {
	rows := make([]payload.SnapshotRow, len(s.Points))
	for i, p := range s.Points {
		rows[i] = payload.SnapshotRow{
			Name:      p.Name,
			Pos:       p.Pos,
			Status:    string(p.Status),
			Radius:    p.radius,
			HasRadius: p.hasRadius,
		}
	}
	return rows
}

// Positions returns every point position, in order. This is the query
// batch handed to the radius estimator.
func (s *State) Positions() []geom.Vec3 {
	pos := make([]geom.Vec3, len(s.Points))
	for i, p := range s.Points {
		pos[i] = p.Pos
	}
	return pos
}

// MissingRadii returns the indices of points with no cached radius yet.
func (s *State) MissingRadii() []int {
	var idx []int
	for i, p := range s.Points {
		if !p.hasRadius {
			idx = append(idx, i)
		}
	}
	return idx
}
