package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkagesim/pkg/scissor"
)

// validateCommand creates the validate command, which checks every unit of
// a chain file against the rod invariants without solving.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <chain-file>",
		Short: "Check every unit of a chain file",
		Long: `Check that every unit of a chain file satisfies a > 0, b > 0,
0 < c <= a and 0 < d <= b. The first offending unit is reported by index.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadChain(cmd, args[0], nil)
			if err != nil {
				return err
			}
			store, err := file.Store()
			if err != nil {
				return err
			}
			if err := scissor.Validate(store); err != nil {
				printError("%s", args[0])
				return fmt.Errorf("validate: %w", err)
			}
			printSuccess("%s: %s valid", args[0], StyleNumber.Render(fmt.Sprintf("%d units", store.Len())))
			printDetail("mode %s · topology %s", file.Drive.Mode, file.Drive.Topology)
			return nil
		},
	}
}
