// Package triangle solves planar triangles analytically.
//
// A scissor unit reduces to a triangle whose vertices are the two rod
// origins and the crossing point. Depending on how the unit is driven,
// either two sides and the included angle are known ([FromSAS]) or all
// three sides are known ([FromSSS]). Both cases are closed-form; no
// iteration is involved.
//
// Sides and angles are stored so that Angles[i] is the angle opposite
// Sides[i]. For both constructors Sides[2] is the side opposite the angle
// between Sides[0] and Sides[1].
//
// Inputs that admit no real triangle, including collinear (flat)
// configurations and non-finite values, fail with a DEGENERATE_GEOMETRY
// error. Results never contain NaN.
package triangle

import (
	"math"

	"github.com/matzehuels/linkagesim/pkg/errors"
)

// Triangle is a fully determined planar triangle.
type Triangle struct {
	Sides  [3]float64
	Angles [3]float64
}

// FromSAS solves the triangle with sides p and q enclosing the angle
// included. included must lie strictly inside (0, π).
func FromSAS(p, q, included float64) (Triangle, error) {
	if !finite(p, q, included) {
		return Triangle{}, errors.New(errors.ErrCodeDegenerateGeometry, "non-finite triangle input")
	}
	if p <= 0 || q <= 0 {
		return Triangle{}, errors.New(errors.ErrCodeDegenerateGeometry, "sides must be positive, got %g and %g", p, q)
	}
	if included <= 0 || included >= math.Pi {
		return Triangle{}, errors.New(errors.ErrCodeDegenerateGeometry, "included angle %g outside (0, π)", included)
	}
	r2 := p*p + q*q - 2*p*q*math.Cos(included)
	if r2 <= 0 {
		return Triangle{}, errors.New(errors.ErrCodeDegenerateGeometry, "third side vanishes")
	}
	return FromSSS(p, q, math.Sqrt(r2))
}

// FromSSS solves the triangle with sides p, q and r. It fails when the
// triangle inequality does not hold strictly for every pair.
func FromSSS(p, q, r float64) (Triangle, error) {
	if !finite(p, q, r) {
		return Triangle{}, errors.New(errors.ErrCodeDegenerateGeometry, "non-finite triangle input")
	}
	if p <= 0 || q <= 0 || r <= 0 {
		return Triangle{}, errors.New(errors.ErrCodeDegenerateGeometry, "sides must be positive, got %g, %g, %g", p, q, r)
	}
	if p+q <= r || q+r <= p || r+p <= q {
		return Triangle{}, errors.New(errors.ErrCodeDegenerateGeometry,
			"sides %g, %g, %g violate the triangle inequality", p, q, r)
	}
	a := opposite(q, r, p)
	b := opposite(r, p, q)
	return Triangle{
		Sides:  [3]float64{p, q, r},
		Angles: [3]float64{a, b, math.Pi - a - b},
	}, nil
}

// Perimeter returns the sum of the sides.
func (t Triangle) Perimeter() float64 { return t.Sides[0] + t.Sides[1] + t.Sides[2] }

// Area returns the triangle's area.
func (t Triangle) Area() float64 {
	return 0.5 * t.Sides[0] * t.Sides[1] * math.Sin(t.Angles[2])
}

// opposite returns the angle facing side s in a triangle whose other two
// sides are u and v. The cosine is clamped against rounding just outside
// [-1, 1].
func opposite(u, v, s float64) float64 {
	cos := (u*u + v*v - s*s) / (2 * u * v)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
