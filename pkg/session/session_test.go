package session

import (
	"errors"
	"testing"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/payload"
)

func TestNewScalesToNanometers(t *testing.T) {
	s := New([]geom.Vec3{{X: 1e-9, Y: 2e-9, Z: -3e-9}})

	if len(s.Points) != 1 {
		t.Fatalf("got %d points, want 1", len(s.Points))
	}
	p := s.Points[0]
	if p.Pos != (geom.Vec3{X: 1, Y: 2, Z: -3}) {
		t.Errorf("Pos = %v, want nanometer frame {1 2 -3}", p.Pos)
	}
	if p.Status != StatusUnreviewed {
		t.Errorf("Status = %q, want %q", p.Status, StatusUnreviewed)
	}
	if p.Name != "spine_0" {
		t.Errorf("Name = %q, want spine_0", p.Name)
	}
}

func TestRadiusMemoizes(t *testing.T) {
	s := New([]geom.Vec3{{X: 1e-9}})

	calls := 0
	compute := func() (float64, error) {
		calls++
		return 0.75, nil
	}

	for i := 0; i < 3; i++ {
		r, err := s.Radius(0, compute)
		if err != nil {
			t.Fatalf("Radius: %v", err)
		}
		if r != 0.75 {
			t.Errorf("Radius = %v, want 0.75", r)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
}

func TestRadiusComputeErrorNotCached(t *testing.T) {
	s := New([]geom.Vec3{{X: 1e-9}})

	boom := errors.New("boom")
	if _, err := s.Radius(0, func() (float64, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	// A later successful compute still runs.
	r, err := s.Radius(0, func() (float64, error) { return 2, nil })
	if err != nil || r != 2 {
		t.Errorf("Radius = %v, %v; want 2, nil", r, err)
	}
}

func TestMoveDropsCachedRadius(t *testing.T) {
	s := New([]geom.Vec3{{X: 1e-9}})
	if _, err := s.Radius(0, func() (float64, error) { return 1, nil }); err != nil {
		t.Fatalf("Radius: %v", err)
	}

	s.Move(0, geom.Vec3{X: 9})
	if _, ok := s.CachedRadius(0); ok {
		t.Error("cached radius survived a move")
	}
	if s.Points[0].Status != StatusMoved {
		t.Errorf("Status = %q, want %q", s.Points[0].Status, StatusMoved)
	}
	if len(s.MissingRadii()) != 1 {
		t.Errorf("MissingRadii = %v, want the moved point", s.MissingRadii())
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New([]geom.Vec3{{X: 1e-9}, {Y: 2e-9}})
	s.SetStatus(0, StatusAccepted)
	if _, err := s.Radius(0, func() (float64, error) { return 0.5, nil }); err != nil {
		t.Fatalf("Radius: %v", err)
	}

	restored := Restore(s.Rows())
	if len(restored.Points) != 2 {
		t.Fatalf("restored %d points, want 2", len(restored.Points))
	}
	if restored.Points[0].Status != StatusAccepted {
		t.Errorf("Status = %q, want accepted", restored.Points[0].Status)
	}
	if r, ok := restored.CachedRadius(0); !ok || r != 0.5 {
		t.Errorf("CachedRadius = %v, %v; want 0.5, true", r, ok)
	}
	if _, ok := restored.CachedRadius(1); ok {
		t.Error("point without radius restored with a cached value")
	}
	// Restored cache must not trigger recomputation.
	r, err := restored.Radius(0, func() (float64, error) {
		t.Error("compute invoked despite restored cache")
		return 0, nil
	})
	if err != nil || r != 0.5 {
		t.Errorf("Radius = %v, %v; want 0.5, nil", r, err)
	}
}

func TestRestoreDefaultsEmptyStatus(t *testing.T) {
	restored := Restore([]payload.SnapshotRow{{Name: "spine_0"}})
	if restored.Points[0].Status != StatusUnreviewed {
		t.Errorf("Status = %q, want unreviewed default", restored.Points[0].Status)
	}
}
