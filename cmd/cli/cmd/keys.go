package cmd

import (
	"fmt"

	"github.com/amirasaad/multicalc/pkg/calculator"
	"github.com/spf13/cobra"
)

func newKeysCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <key>...",
		Short: "Replay keypad presses and print the resulting display",
		Long: `Replays keypad presses in order. Keys are digits, "+ - * / %", "( )" or
"parens" for the parenthesis toggle, "(" and ")", "," for the decimal key,
"=", "C" and "del" for backspace.

Example:
  multicalc keys 1 2 , 5 + 3 =`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := calculator.ParseKeys(args)
			if err != nil {
				return err
			}
			svc, cleanup, err := opts.service(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			sess := svc.NewSession()
			res, err := svc.Press(cmd.Context(), sess.ID, keys...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, e := range res.Recorded {
				fmt.Fprintf(w, "%s %s\n", dimColor("="), e.Expression)
			}
			fmt.Fprintf(w, "%s  (%s %s)\n", res.Session.Buffer,
				amountColor(fmtAmount(res.Session.EffectiveValue)), codeColor(res.Session.InputCurrency))
			printConversions(w, res.Session.Conversions)
			return nil
		},
	}
}
