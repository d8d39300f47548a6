// File: cmd/diff.go
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/seoscope/seoscope-cli/api/schemas"
	"github.com/seoscope/seoscope-cli/internal/reporting"
)

// newDiffCmd creates the `diff` command for comparing two persisted reports.
func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old.json> <new.json>",
		Short: "Compares two JSON audit reports by finding identity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			previous, err := reporting.LoadReport(args[0])
			if err != nil {
				return err
			}
			current, err := reporting.LoadReport(args[1])
			if err != nil {
				return err
			}

			diff := schemas.DiffReports(previous, current)
			if err := reporting.WriteDiff(os.Stdout, diff); err != nil {
				return err
			}

			// New findings mean a regression between the two runs.
			if len(diff.New) > 0 {
				return exitCodeError{code: 1}
			}
			return nil
		},
	}
}
