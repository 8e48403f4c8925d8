package scissor

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/linkagesim/pkg/dimension"
	"github.com/matzehuels/linkagesim/pkg/errors"
	"github.com/matzehuels/linkagesim/pkg/geom"
	"github.com/matzehuels/linkagesim/pkg/observability"
)

// Step is the outcome of solving a chain at one theta of a sweep.
// Exactly one of Solution and Err is set.
type Step struct {
	Theta    float64   `json:"theta"`
	Solution *Solution `json:"solution,omitempty"`
	Err      error     `json:"-"`
}

// OK reports whether the step solved.
func (s Step) OK() bool { return s.Err == nil }

// Sweep solves chain at every theta in thetas. Steps are returned in the
// order of thetas; a step that fails does not stop the others and records
// its error in [Step.Err]. The returned error is non-nil only when ctx is
// cancelled or the chain cannot be read.
//
// The chain is read once before any step runs and steps are solved on up
// to the solver's worker count goroutines.
func (s *Solver) Sweep(ctx context.Context, chain Chain, thetas []float64, offset float64) ([]Step, error) {
	specs, err := snapshot(chain)
	if err != nil {
		return nil, err
	}
	frozen, err := dimension.FromSpecs(specs)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	steps := make([]Step, len(thetas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, theta := range thetas {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sol, err := s.SolveContext(gctx, frozen, theta, offset)
			steps[i] = Step{Theta: theta, Solution: sol, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "sweep cancelled")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "sweep cancelled")
	}

	failed := 0
	for _, st := range steps {
		if !st.OK() {
			failed++
		}
	}
	elapsed := time.Since(start)
	observability.Solver().OnSweepComplete(ctx, len(steps), failed, elapsed)
	s.logger.Debug("swept chain", "units", len(specs), "steps", len(steps), "failed", failed, "duration", elapsed)
	return steps, nil
}

// Linspace returns n evenly spaced values from from to to inclusive.
// n == 1 yields from alone; n < 1 yields nil.
func Linspace(from, to float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{from}
	}
	out := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	out[n-1] = to
	return out
}

// Trace returns the chain endpoint of every successful step, in order.
func Trace(steps []Step) []geom.Vec2 {
	var pts []geom.Vec2
	for _, st := range steps {
		if st.OK() && st.Solution != nil {
			pts = append(pts, st.Solution.Endpoint())
		}
	}
	return pts
}
