package scissor

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkagesim/pkg/dimension"
	"github.com/matzehuels/linkagesim/pkg/errors"
	"github.com/matzehuels/linkagesim/pkg/geom"
	"github.com/matzehuels/linkagesim/pkg/observability"
)

// Chain is the read-only view of a dimension store the assembler consumes.
// [*dimension.Store] satisfies it.
type Chain interface {
	Len() int
	Get(index int) (dimension.RodSpec, error)
}

// Solver solves chains of scissor units. The zero value is not usable;
// create one with [New].
type Solver struct {
	mode     Mode
	topology Topology
	heading  float64
	workers  int
	logger   *log.Logger
}

// New creates a solver. Without options it reads theta as the crossing
// angle, joins units serially and starts along the positive x axis.
func New(opts ...Option) *Solver {
	s := &Solver{
		mode:     ModeAngle,
		topology: TopologySerial,
		workers:  defaultWorkers(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the solver's driving mode.
func (s *Solver) Mode() Mode { return s.mode }

// Topology returns the solver's topology.
func (s *Solver) Topology() Topology { return s.topology }

// Heading returns the baseline heading of the first unit.
func (s *Solver) Heading() float64 { return s.heading }

// Solve computes the chain's geometry for one value of the driving
// parameter. offset translates the chain's origin along the x axis.
//
// On success the solution holds exactly 2·n segments, rod 1 then rod 2 for
// each unit in order. On failure it returns nil and an INVALID_DIMENSION,
// DEGENERATE_GEOMETRY or INVALID_INPUT error.
func (s *Solver) Solve(chain Chain, theta, offset float64) (*Solution, error) {
	return s.SolveContext(context.Background(), chain, theta, offset)
}

// SolveContext is Solve with a context for observability hooks. The solve
// itself has no suspension points and is not cancelled by ctx.
func (s *Solver) SolveContext(ctx context.Context, chain Chain, theta, offset float64) (*Solution, error) {
	specs, err := snapshot(chain)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Solver().OnSolveStart(ctx, len(specs), theta)
	sol, err := s.solve(specs, theta, offset)
	elapsed := time.Since(start)
	observability.Solver().OnSolveComplete(ctx, len(specs), elapsed, err)

	if err != nil {
		s.logger.Debug("solve failed", "units", len(specs), "theta", theta, "err", err)
		return nil, err
	}
	s.logger.Debug("solved chain", "units", len(specs), "theta", theta, "duration", elapsed)
	return sol, nil
}

func (s *Solver) solve(specs []dimension.RodSpec, theta, offset float64) (*Solution, error) {
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "offset must be finite, got %g", offset)
	}
	if math.IsNaN(s.heading) || math.IsInf(s.heading, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "heading must be finite, got %g", s.heading)
	}
	if err := validate(specs); err != nil {
		return nil, err
	}

	sol := &Solution{
		Theta:    theta,
		Offset:   offset,
		Mode:     s.mode,
		Topology: s.topology,
		Origin:   geom.Anchor{Origin: geom.Vec2{X: offset}, Heading: s.heading},
		Units:    make([]Unit, 0, len(specs)),
		Segments: make([]geom.Segment, 0, 2*len(specs)),
	}

	at := sol.Origin
	for i, spec := range specs {
		unit, err := s.solveAt(i, spec, theta, at, sol.Units)
		if err != nil {
			return nil, errors.AtUnit(errors.ErrCodeDegenerateGeometry, i, "%s", errors.UserMessage(err))
		}
		sol.Units = append(sol.Units, unit)
		sol.Segments = append(sol.Segments, unit.Rod1, unit.Rod2)
		at = unit.Next()
	}
	return sol, nil
}

// solveAt solves unit i. prev holds the units already solved in this call.
func (s *Solver) solveAt(i int, spec dimension.RodSpec, theta float64, at geom.Anchor, prev []Unit) (Unit, error) {
	if s.topology == TopologyLazyTongs && i > 0 {
		last := prev[i-1]
		gamma, anchor, err := linkedAnchor(spec, last.Rod2.End(), last.Rod1.End())
		if err != nil {
			return Unit{}, err
		}
		return SolveUnit(spec, gamma, anchor)
	}

	gamma, err := crossingAngle(spec, theta, s.mode)
	if err != nil {
		return Unit{}, err
	}
	return SolveUnit(spec, gamma, at)
}

// validate checks every spec before any geometry is attempted.
func validate(specs []dimension.RodSpec) error {
	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return errors.AtUnit(errors.ErrCodeInvalidDimension, i, "%s", errors.UserMessage(err))
		}
	}
	return nil
}

// Validate checks every unit of chain without solving it.
func Validate(chain Chain) error {
	specs, err := snapshot(chain)
	if err != nil {
		return err
	}
	return validate(specs)
}

func snapshot(chain Chain) ([]dimension.RodSpec, error) {
	if chain == nil {
		return nil, nil
	}
	if st, ok := chain.(*dimension.Store); ok {
		if st == nil {
			return nil, nil
		}
		return st.Specs(), nil
	}
	specs := make([]dimension.RodSpec, chain.Len())
	for i := range specs {
		spec, err := chain.Get(i)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "read unit %d", i)
		}
		specs[i] = spec
	}
	return specs, nil
}
