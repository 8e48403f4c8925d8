package scissor

import (
	"github.com/matzehuels/linkagesim/pkg/dimension"
	"github.com/matzehuels/linkagesim/pkg/errors"
	"github.com/matzehuels/linkagesim/pkg/geom"
	"github.com/matzehuels/linkagesim/pkg/triangle"
)

// Unit is one solved scissor unit.
type Unit struct {
	// At is the anchor the unit was solved from: rod 1's origin and heading.
	At geom.Anchor `json:"at"`

	Rod1 geom.Segment `json:"rod1"`
	Rod2 geom.Segment `json:"rod2"`

	// Crossing is the pivot shared by both rods.
	Crossing geom.Vec2 `json:"crossing"`

	// Gamma is the angle between the rods at the crossing point.
	Gamma float64 `json:"gamma"`

	// Span is the distance between the two rod origins.
	Span float64 `json:"span"`
}

// Next returns the anchor a serial successor is solved from: rod 1's far
// endpoint, continuing along rod 1.
func (u Unit) Next() geom.Anchor {
	return geom.Anchor{Origin: u.Rod1.End(), Heading: u.At.Heading}
}

// SolveUnit solves one unit whose rods meet at the crossing angle gamma.
//
// The triangle formed by rod 1's origin, the crossing point and rod 2's
// origin has sides c and d enclosing gamma; its third side is the unit's
// span. gamma must lie in (0, π). spec is assumed to satisfy
// [dimension.RodSpec.Validate].
func SolveUnit(spec dimension.RodSpec, gamma float64, at geom.Anchor) (Unit, error) {
	tri, err := triangle.FromSAS(spec.C, spec.D, gamma)
	if err != nil {
		return Unit{}, err
	}

	u := geom.Polar(1, at.Heading)
	w := u.Rotate(gamma)

	crossing := at.Origin.Add(u.Scale(spec.C))
	end1 := at.Origin.Add(u.Scale(spec.A))
	origin2 := crossing.Sub(w.Scale(spec.D))
	end2 := origin2.Add(w.Scale(spec.B))

	for _, p := range [...]geom.Vec2{crossing, end1, origin2, end2} {
		if !p.IsFinite() {
			return Unit{}, errors.New(errors.ErrCodeDegenerateGeometry, "non-finite endpoint")
		}
	}

	return Unit{
		At:       at,
		Rod1:     geom.SegmentBetween(at.Origin, end1),
		Rod2:     geom.SegmentBetween(origin2, end2),
		Crossing: crossing,
		Gamma:    gamma,
		Span:     tri.Sides[2],
	}, nil
}

// crossingAngle converts the driving parameter into the unit's crossing
// angle according to mode.
func crossingAngle(spec dimension.RodSpec, theta float64, mode Mode) (float64, error) {
	if mode == ModeSpan {
		return spanAngle(spec, theta)
	}
	return theta, nil
}

// spanAngle returns the crossing angle of a unit whose rod origins are span
// apart.
func spanAngle(spec dimension.RodSpec, span float64) (float64, error) {
	tri, err := triangle.FromSSS(spec.C, spec.D, span)
	if err != nil {
		return 0, err
	}
	return tri.Angles[2], nil
}

// linkedAnchor places a unit whose rod 1 must start at p and whose rod 2
// must start at q. It returns the unit's crossing angle and anchor.
func linkedAnchor(spec dimension.RodSpec, p, q geom.Vec2) (float64, geom.Anchor, error) {
	tri, err := triangle.FromSSS(spec.C, spec.D, q.Dist(p))
	if err != nil {
		return 0, geom.Anchor{}, err
	}
	// Rod 2's origin lies clockwise of rod 1, so rod 1 is turned
	// counter-clockwise from p→q by the angle at p (opposite side d).
	heading := q.Sub(p).Angle() + tri.Angles[1]
	return tri.Angles[2], geom.Anchor{Origin: p, Heading: heading}, nil
}
