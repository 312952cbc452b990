package geom

import (
	"math"
	"math/rand"
)

// FibonacciSphere returns n quasi-uniformly distributed unit directions
// built from the golden-angle spiral. A nil rng yields the canonical
// deterministic spiral; a non-nil rng randomizes the spiral phase to
// de-bias repeated calls while keeping results reproducible under a seeded
// source.
func FibonacciSphere(n int, rng *rand.Rand) []Vec3 {
	if n <= 0 {
		return nil
	}

	offset := 2.0 / float64(n)
	increment := math.Pi * (3.0 - math.Sqrt(5))

	shift := 1.0
	if rng != nil {
		shift = rng.Float64() * float64(n)
	}

	pts := make([]Vec3, n)
	for i := range pts {
		y := float64(i)*offset - 1 + offset/2
		r := math.Sqrt(math.Max(0, 1-y*y))
		phi := math.Mod(float64(i)+shift, float64(n)) * increment
		pts[i] = Vec3{math.Cos(phi) * r, y, math.Sin(phi) * r}
	}
	return pts
}

// DiskFan returns n points evenly spaced around a circle of the given
// radius in the XY plane, starting at angle zero and excluding the 2π
// endpoint. The circle's normal is +Z, the reference axis RotateToNormal
// expects.
func DiskFan(n int, radius float64) []Vec3 {
	if n <= 0 {
		return nil
	}

	pts := make([]Vec3, n)
	step := 2 * math.Pi / float64(n)
	for i := range pts {
		sin, cos := math.Sincos(float64(i) * step)
		pts[i] = Vec3{cos * radius, sin * radius, 0}
	}
	return pts
}
