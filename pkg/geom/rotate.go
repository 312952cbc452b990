package geom

import (
	"errors"
	"math"
)

// ErrZeroNormal reports a rotation target with no direction.
var ErrZeroNormal = errors.New("geom: rotation target has zero length")

// degenerateAxisTol is the cross-product magnitude below which the rotation
// axis is treated as undefined and the parallel/antiparallel branches apply.
const degenerateAxisTol = 1e-9

// RotateToNormal rotates a point set by the minimal rotation that maps the
// +Z axis onto the direction of target. The rotation is built from the
// cross product via Rodrigues' axis-angle formula. When the cross product
// vanishes there is no unique axis: an antiparallel target gets a fixed
// 180° rotation about the X axis (Y and Z negated, X kept), a parallel
// target is the identity.
func RotateToNormal(points []Vec3, target Vec3) ([]Vec3, error) {
	zAxis := Vec3{0, 0, 1}

	n, ok := target.Normalize()
	if !ok {
		return nil, ErrZeroNormal
	}

	axis := zAxis.Cross(n)
	axisLen := axis.Length()

	if axisLen < degenerateAxisTol {
		out := make([]Vec3, len(points))
		if n.Dot(zAxis) < 0 {
			for i, p := range points {
				out[i] = Vec3{p.X, -p.Y, -p.Z}
			}
		} else {
			copy(out, points)
		}
		return out, nil
	}

	axis = axis.Scale(1 / axisLen)
	theta := math.Acos(clamp(zAxis.Dot(n), -1, 1))
	sin, cos := math.Sincos(theta)

	// Rodrigues: p' = p cosθ + (k × p) sinθ + k (k·p)(1 - cosθ)
	out := make([]Vec3, len(points))
	for i, p := range points {
		out[i] = p.Scale(cos).
			Add(axis.Cross(p).Scale(sin)).
			Add(axis.Scale(axis.Dot(p) * (1 - cos)))
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
