// Package scissor computes the instantaneous geometry of a chain of scissor
// units.
//
// # Overview
//
// A scissor unit is two rigid rods crossing at a pivot. Each unit is
// described by a [dimension.RodSpec]: rod lengths a and b, and the distances
// c and d from each rod's origin to the crossing point. A single driving
// parameter theta, shared by every unit in a solve call, fixes the unit's
// one degree of freedom. The chain assembler walks the units in order and
// hands each unit's continuation point to its successor so the whole chain
// forms one continuous mechanism.
//
// # Driving Modes
//
// [ModeAngle] (the default) reads theta as the included angle between the
// two rods at the crossing point, in radians, valid in (0, π). The origin of
// rod 2 then follows from a side-angle-side triangle over (c, d, theta).
//
// [ModeSpan] reads theta as the distance between the two rod origins. The
// crossing angle follows from a side-side-side triangle over (c, d, theta);
// a span that violates the triangle inequality has no real solution and the
// solve fails with DEGENERATE_GEOMETRY.
//
// # Topologies
//
// [TopologySerial] (the default) continues from rod 1's far endpoint with
// rod 1's heading; every unit is driven by theta.
//
// [TopologyLazyTongs] cross-links consecutive units: unit i+1 starts its
// first rod at unit i's second-rod far end and its second rod at unit i's
// first-rod far end. Only unit 0 is driven by theta; every later unit
// inherits its span from its predecessor.
//
// # Frame
//
// The first unit's rod 1 starts at (offset, 0) with the solver's heading
// (default 0, see [WithHeading]). For a unit anchored at P with heading φ,
// rod 1 runs from P along φ, the crossing point X lies at distance c from P,
// and rod 2 runs through X along φ + γ where γ is the crossing angle, so its
// origin lies on the clockwise side of rod 1.
//
// # Failure Semantics
//
// Every rod spec is validated before any geometry is attempted; the first
// invalid unit fails the call with INVALID_DIMENSION. The first unit without
// a real solution fails the call with DEGENERATE_GEOMETRY. Both errors carry
// the unit index (see errors.UnitIndex). No partial chain is ever returned
// and no returned segment contains NaN.
//
// # Concurrency
//
// A [Solver] is immutable after construction and safe for concurrent use.
// A solve call only reads its chain; the chain must not be mutated while
// the call runs. [Solver.Sweep] snapshots the chain once and solves the
// requested thetas concurrently.
package scissor
