package scissor

import (
	"github.com/matzehuels/linkagesim/pkg/geom"
)

// Solution is the geometry of a whole chain at one instant.
type Solution struct {
	Theta    float64  `json:"theta"`
	Offset   float64  `json:"offset"`
	Mode     Mode     `json:"mode"`
	Topology Topology `json:"topology"`

	// Origin is the anchor the first unit was solved from.
	Origin geom.Anchor `json:"origin"`

	Units []Unit `json:"units"`

	// Segments holds rod 1 then rod 2 of every unit, in chain order.
	Segments []geom.Segment `json:"segments"`
}

// Len returns the number of solved units.
func (s *Solution) Len() int { return len(s.Units) }

// Continuation returns the point unit i hands to its successor: rod 1's
// far endpoint for serial chains, rod 2's far endpoint for lazy tongs.
func (s *Solution) Continuation(i int) geom.Vec2 {
	u := s.Units[i]
	if s.Topology == TopologyLazyTongs {
		return u.Rod2.End()
	}
	return u.Rod1.End()
}

// Endpoint returns the chain's free end: the last unit's continuation
// point, or the origin of an empty chain. Sweeping theta and collecting
// endpoints traces the path of the chain's tip.
func (s *Solution) Endpoint() geom.Vec2 {
	if len(s.Units) == 0 {
		return s.Origin.Origin
	}
	return s.Continuation(len(s.Units) - 1)
}
