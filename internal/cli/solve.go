package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkagesim/pkg/cache"
	"github.com/matzehuels/linkagesim/pkg/config"
	"github.com/matzehuels/linkagesim/pkg/scissor"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// solveCommand creates the solve command for a single solve of a chain file.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		drive   driveFlags
		format  string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "solve <chain-file>",
		Short: "Solve a chain once and print its segments",
		Long: `Solve a chain file for one value of the driving parameter.

The chain file (TOML, YAML or JSON) lists the rod specs of every unit and
the drive settings. Flags override the file's drive section.`,
		Example: `  # Solve with the file's drive settings
  linkagesim solve chain.toml

  # Rods crossing at 60 degrees, JSON written to a file
  linkagesim solve chain.toml --theta 1.0472 -f json -o solution.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadChain(cmd, args[0], &drive)
			if err != nil {
				return err
			}
			return c.runSolve(cmd, file, format, output, noCache)
		},
	}

	drive.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, file *config.File, format, output string, noCache bool) error {
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

	solver := c.newSolver(file)
	key := newKeyer().SolveKey(cache.ChainHash(file.Units), cache.SolveKeyOpts{
		Mode:     file.Drive.Mode,
		Topology: file.Drive.Topology,
		Heading:  file.Drive.Heading,
		Theta:    file.Drive.Theta,
		Offset:   file.Drive.Offset,
	})

	prog := newProgress(c.Logger)
	sol, cached, err := cache.Fetch(ctx, results, key, "solve", file.Cache.TTLDuration(), func() (*scissor.Solution, error) {
		return solver.SolveContext(ctx, store, file.Drive.Theta, file.Drive.Offset)
	})
	if err != nil {
		return fmt.Errorf("solve: %w", err)
	}
	prog.done(fmt.Sprintf("Solved %d units", sol.Len()))

	if format == formatJSON && output == "" {
		return writeJSON("", sol)
	}

	printSuccess("Solved %s", StyleNumber.Render(fmt.Sprintf("theta=%g", file.Drive.Theta)))
	printStats(sol.Len(), len(sol.Segments), cached)
	if output != "" {
		if err := writeJSON(output, sol); err != nil {
			return err
		}
		printFile(output)
		return nil
	}
	if len(sol.Segments) > 0 {
		printSegments(sol.Segments)
	}
	end := sol.Endpoint()
	printDetail("endpoint (%s, %s)", coord(end.X), coord(end.Y))
	return nil
}

// loadChain loads path and applies drive flag overrides.
func loadChain(cmd *cobra.Command, path string, drive *driveFlags) (*config.File, error) {
	file, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if drive != nil {
		if err := drive.apply(cmd, file); err != nil {
			return nil, err
		}
	}
	return file, nil
}

// writeJSON encodes v as indented JSON to path, or to stdout when path is
// empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
