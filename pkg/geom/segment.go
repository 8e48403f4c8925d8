package geom

// Segment is one rigid rod's endpoints in the shared world frame.
// Field names follow the x1/y1/x2/y2 layout consumers already expect.
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// SegmentBetween returns the segment from p to q.
func SegmentBetween(p, q Vec2) Segment {
	return Segment{X1: p.X, Y1: p.Y, X2: q.X, Y2: q.Y}
}

// Start returns the segment's first endpoint.
func (s Segment) Start() Vec2 { return Vec2{s.X1, s.Y1} }

// End returns the segment's second endpoint.
func (s Segment) End() Vec2 { return Vec2{s.X2, s.Y2} }

// Len returns the segment length.
func (s Segment) Len() float64 { return s.End().Dist(s.Start()) }

// Dir returns the heading from Start to End.
func (s Segment) Dir() float64 { return s.End().Sub(s.Start()).Angle() }

// Anchor is the position and orientation a unit inherits from its
// predecessor. Heading is the direction of the unit's first rod.
type Anchor struct {
	Origin  Vec2    `json:"origin"`
	Heading float64 `json:"heading"`
}
