package geom

import "errors"

// Polyline errors. These are input validation failures the caller must fix,
// not conditions to recover from.
var (
	ErrShortPolyline = errors.New("geom: polyline needs at least two points")
	ErrBadSpacing    = errors.New("geom: resample spacing must be positive")
	ErrZeroTangent   = errors.New("geom: zero-length tangent, polyline has duplicate adjacent points")
)

// ResamplePath reparameterizes a polyline by cumulative arc length and
// resamples it at uniform spacing starting from arc length zero. The last
// partial segment is dropped rather than rounded up, so a path of total
// length L yields floor(L/spacing) points; if spacing exceeds L the start
// point alone is returned. Each coordinate is interpolated linearly against
// arc length.
func ResamplePath(points []Vec3, spacing float64) ([]Vec3, error) {
	if spacing <= 0 {
		return nil, ErrBadSpacing
	}
	if len(points) < 2 {
		return nil, ErrShortPolyline
	}

	arc := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		arc[i] = arc[i-1] + points[i].Distance(points[i-1])
	}
	total := arc[len(arc)-1]

	n := int(total / spacing)
	if n < 1 {
		n = 1
	}

	out := make([]Vec3, 0, n)
	seg := 1
	for i := 0; i < n; i++ {
		t := float64(i) * spacing
		for seg < len(arc)-1 && arc[seg] < t {
			seg++
		}
		segLen := arc[seg] - arc[seg-1]
		if segLen == 0 {
			out = append(out, points[seg])
			continue
		}
		f := (t - arc[seg-1]) / segLen
		a, b := points[seg-1], points[seg]
		out = append(out, a.Add(b.Sub(a).Scale(f)))
	}
	return out, nil
}

// PathTangents returns a unit tangent per polyline point: central
// differences for interior points, one-sided differences at the two ends.
// Duplicate adjacent points make the tangent undefined and are reported as
// ErrZeroTangent instead of producing a NaN direction.
func PathTangents(points []Vec3) ([]Vec3, error) {
	if len(points) < 2 {
		return nil, ErrShortPolyline
	}

	tangents := make([]Vec3, len(points))
	tangents[0] = points[1].Sub(points[0])
	tangents[len(points)-1] = points[len(points)-1].Sub(points[len(points)-2])
	for i := 1; i < len(points)-1; i++ {
		tangents[i] = points[i+1].Sub(points[i-1])
	}

	for i, t := range tangents {
		unit, ok := t.Normalize()
		if !ok {
			return nil, ErrZeroTangent
		}
		tangents[i] = unit
	}
	return tangents, nil
}
