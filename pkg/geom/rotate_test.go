package geom

import (
	"errors"
	"math"
	"testing"
)

func TestRotateToNormalIdentity(t *testing.T) {
	points := []Vec3{{1, 2, 3}, {-4, 0, 0.5}, {0, 0, 0}}

	got, err := RotateToNormal(points, Vec3{0, 0, 1})
	if err != nil {
		t.Fatalf("RotateToNormal: %v", err)
	}
	for i := range points {
		if !vecNear(got[i], points[i], tol) {
			t.Errorf("point %d = %v, want unchanged %v", i, got[i], points[i])
		}
	}
}

func TestRotateToNormalAntiparallel(t *testing.T) {
	points := []Vec3{{1, 2, 3}, {-4, 0.5, -1}}

	got, err := RotateToNormal(points, Vec3{0, 0, -1})
	if err != nil {
		t.Fatalf("RotateToNormal: %v", err)
	}
	// 180° about X: Y and Z negated, X unchanged.
	for i, p := range points {
		want := Vec3{p.X, -p.Y, -p.Z}
		if !vecNear(got[i], want, tol) {
			t.Errorf("point %d = %v, want %v", i, got[i], want)
		}
	}

	// Applying the antiparallel rotation twice returns the originals.
	twice, err := RotateToNormal(got, Vec3{0, 0, -1})
	if err != nil {
		t.Fatalf("RotateToNormal: %v", err)
	}
	for i := range points {
		if !vecNear(twice[i], points[i], tol) {
			t.Errorf("double rotation point %d = %v, want %v", i, twice[i], points[i])
		}
	}
}

func TestRotateToNormalMapsZAxis(t *testing.T) {
	targets := []Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{1, 1, 1},
		{-0.3, 2, -5},
		{0, 1e-4, 1}, // near-parallel but above the degenerate threshold
	}
	for _, target := range targets {
		got, err := RotateToNormal([]Vec3{{0, 0, 1}}, target)
		if err != nil {
			t.Fatalf("RotateToNormal(%v): %v", target, err)
		}
		want, _ := target.Normalize()
		if !vecNear(got[0], want, 1e-7) {
			t.Errorf("rotated +Z = %v, want %v", got[0], want)
		}
	}
}

func TestRotateToNormalPreservesLengths(t *testing.T) {
	points := []Vec3{{1, 0, 0}, {0, 2, 0}, {3, -1, 4}}

	got, err := RotateToNormal(points, Vec3{1, -2, 0.5})
	if err != nil {
		t.Fatalf("RotateToNormal: %v", err)
	}
	for i := range points {
		if d := math.Abs(got[i].Length() - points[i].Length()); d > tol {
			t.Errorf("point %d length changed by %g", i, d)
		}
	}
}

func TestRotateToNormalZeroTarget(t *testing.T) {
	if _, err := RotateToNormal([]Vec3{{1, 0, 0}}, Vec3{}); !errors.Is(err, ErrZeroNormal) {
		t.Errorf("err = %v, want ErrZeroNormal", err)
	}
}
