package cmd

import (
	"fmt"
	"strings"

	"github.com/amirasaad/multicalc/pkg/expr"
	"github.com/amirasaad/multicalc/pkg/numfmt"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "eval <expression>...",
		Short: "Evaluate an expression in display notation",
		Long: `Evaluates an expression written with "," as decimal separator and "."
grouping thousands. "A%B" is A percent of B.

Examples:
  multicalc eval "1.000,5*2"
  multicalc eval 50%200`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := expr.EvaluateDisplay(strings.Join(args, ""))
			if err != nil {
				printError(cmd.ErrOrStderr(), "evaluation failed", err)
				return err
			}
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), numfmt.Format(v, 2, false))
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the machine value instead of display notation")
	return cmd
}
