// Package geom provides the planar value types shared by the solver.
//
// All types are small immutable values passed by copy. Angles are in
// radians, measured counter-clockwise from the positive x axis.
//
//   - [Vec2]: a point or displacement in the world frame
//   - [Segment]: one rigid rod's endpoints after solving
//   - [Anchor]: position and heading handed from one unit to the next
package geom
