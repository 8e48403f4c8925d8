package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkagesim/pkg/cache"
	"github.com/matzehuels/linkagesim/pkg/config"
	"github.com/matzehuels/linkagesim/pkg/errors"
	"github.com/matzehuels/linkagesim/pkg/scissor"
)

// tracePoint is the chain tip at one theta of a sweep. Failed steps carry
// the error message instead of coordinates.
type tracePoint struct {
	Theta float64 `json:"theta"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Code  string  `json:"code,omitempty"`
	Error string  `json:"error,omitempty"`
}

// sweepFlags override a chain file's sweep section.
type sweepFlags struct {
	from    float64
	to      float64
	steps   int
	workers int
}

// sweepCommand creates the sweep command, which solves a chain over a
// range of the driving parameter and traces its tip.
func (c *CLI) sweepCommand() *cobra.Command {
	var (
		drive   driveFlags
		sweep   sweepFlags
		format  string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "sweep <chain-file>",
		Short: "Solve a chain over a theta range and trace its tip",
		Long: `Solve a chain file at evenly spaced values of the driving parameter.

Steps are solved concurrently. A step without a real solution is reported
in the trace and does not stop the sweep.`,
		Example: `  # Close the linkage from 0.8 to 0.5 rad in 31 steps
  linkagesim sweep chain.toml --from 0.8 --to 0.5 --steps 31

  # Write the trace as JSON
  linkagesim sweep chain.yaml -f json -o trace.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadChain(cmd, args[0], &drive)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("from") {
				file.Sweep.From = sweep.from
			}
			if flags.Changed("to") {
				file.Sweep.To = sweep.to
			}
			if flags.Changed("steps") {
				if sweep.steps < 1 {
					return fmt.Errorf("invalid --steps %d: must be positive", sweep.steps)
				}
				file.Sweep.Steps = sweep.steps
			}
			return c.runSweep(cmd, file, sweep.workers, format, output, noCache)
		},
	}

	drive.register(cmd)
	cmd.Flags().Float64Var(&sweep.from, "from", config.DefaultSweepFrom, "first theta (overrides file)")
	cmd.Flags().Float64Var(&sweep.to, "to", config.DefaultSweepTo, "last theta (overrides file)")
	cmd.Flags().IntVar(&sweep.steps, "steps", config.DefaultSweepSteps, "number of steps (overrides file)")
	cmd.Flags().IntVar(&sweep.workers, "workers", 0, "concurrent solves (default GOMAXPROCS)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runSweep(cmd *cobra.Command, file *config.File, workers int, format, output string, noCache bool) error {
	if format != formatTable && format != formatJSON {
		return fmt.Errorf("invalid format: %s (must be 'table' or 'json')", format)
	}

	ctx := cmd.Context()
	store, err := file.Store()
	if err != nil {
		return err
	}
	results, err := c.newCache(ctx, file, noCache)
	if err != nil {
		return err
	}
	defer results.Close()

	solver := scissor.New(append(file.SolverOptions(), scissor.WithLogger(c.Logger), scissor.WithWorkers(workers))...)
	key := newKeyer().SweepKey(cache.ChainHash(file.Units), cache.SweepKeyOpts{
		Mode:     file.Drive.Mode,
		Topology: file.Drive.Topology,
		Heading:  file.Drive.Heading,
		From:     file.Sweep.From,
		To:       file.Sweep.To,
		Steps:    file.Sweep.Steps,
		Offset:   file.Drive.Offset,
	})

	prog := newProgress(c.Logger)
	points, cached, err := cache.Fetch(ctx, results, key, "sweep", file.Cache.TTLDuration(), func() ([]tracePoint, error) {
		steps, err := solver.Sweep(ctx, store, file.Thetas(), file.Drive.Offset)
		if err != nil {
			return nil, err
		}
		return tracePoints(steps), nil
	})
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	failed := 0
	for _, p := range points {
		if p.Error != "" {
			failed++
		}
	}
	prog.done(fmt.Sprintf("Swept %d steps", len(points)))

	if format == formatJSON && output == "" {
		return writeJSON("", points)
	}

	printSuccess("Swept %s", StyleNumber.Render(fmt.Sprintf("theta %g → %g", file.Sweep.From, file.Sweep.To)))
	printStats(len(file.Units), 2*len(file.Units), cached)
	if failed > 0 {
		printWarning("%d of %d steps have no real solution", failed, len(points))
	}
	if output != "" {
		if err := writeJSON(output, points); err != nil {
			return err
		}
		printFile(output)
		return nil
	}
	printTrace(points)
	return nil
}

// tracePoints converts solver steps into serialisable trace points.
func tracePoints(steps []scissor.Step) []tracePoint {
	points := make([]tracePoint, len(steps))
	for i, st := range steps {
		p := tracePoint{Theta: st.Theta}
		if st.OK() {
			end := st.Solution.Endpoint()
			p.X, p.Y = end.X, end.Y
		} else {
			p.Code = string(errors.GetCode(st.Err))
			p.Error = errors.UserMessage(st.Err)
		}
		points[i] = p
	}
	return points
}
