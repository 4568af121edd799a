package cmd

import (
	"fmt"
	"strings"

	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/spf13/cobra"
)

func newConvertCmd(opts *rootOptions) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "convert <expression>...",
		Short: "Evaluate an expression and convert it into every currency",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var code currency.Code
			if from != "" {
				c, err := currency.Parse(from)
				if err != nil {
					return err
				}
				code = c
			}

			svc, cleanup, err := opts.service(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Convert(strings.Join(args, ""), code)
			if err != nil {
				printError(cmd.ErrOrStderr(), "conversion failed", err)
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s = %s %s\n", res.Expression, amountColor(fmtAmount(res.EffectiveValue)), codeColor(res.InputCurrency))
			printConversions(w, res.Conversions)
			return nil
		},
	}
	cmd.Flags().StringVarP(&from, "from", "f", "", "input currency (default: the stored input currency)")
	return cmd
}
