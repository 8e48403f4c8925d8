package geom

import "math"

// Vec2 is a 2-D vector in the world frame.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polar returns the vector of length r pointing at angle.
func Polar(r, angle float64) Vec2 {
	return Vec2{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
}

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v - w.
func (v Vec2) Sub(w Vec2) Vec2 { return Vec2{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by k.
func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Angle returns the heading of v in (-π, π].
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Dot returns the scalar product of v and w.
func (v Vec2) Dot(w Vec2) float64 { return v.X*w.X + v.Y*w.Y }

// Cross returns the z component of v × w. It is positive when w lies
// counter-clockwise of v.
func (v Vec2) Cross(w Vec2) float64 { return v.X*w.Y - v.Y*w.X }

// Rotate returns v rotated counter-clockwise by angle.
func (v Vec2) Rotate(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// Dist returns the distance between v and w.
func (v Vec2) Dist(w Vec2) float64 { return v.Sub(w).Len() }

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool { return isFinite(v.X) && isFinite(v.Y) }

// Near reports whether v and w are within tol of each other.
func Near(v, w Vec2, tol float64) bool { return v.Dist(w) <= tol }

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
