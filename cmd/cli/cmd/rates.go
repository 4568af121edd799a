package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/amirasaad/multicalc/pkg/currency"
	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/numfmt"
	"github.com/spf13/cobra"
)

func newRatesCmd(opts *rootOptions) *cobra.Command {
	var refresh, matrix bool
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Show the official, manual and active rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.service(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			w := cmd.OutOrStdout()
			if refresh {
				res, err := svc.Refresh(cmd.Context())
				if err != nil {
					printError(cmd.ErrOrStderr(), "refresh failed, showing stored rates", err)
				} else {
					fmt.Fprintf(w, "merged %d rates (%s)\n\n", res.Merged, res.Date)
				}
			}

			st := svc.RateState()
			active := svc.ActiveRates()
			printRates(w, "Official", st.OfficialRates, sortedKeys(st.OfficialRates))
			printRates(w, "Manual", st.ManualRates, sortedKeys(st.ManualRates))
			printRates(w, "Active", active, sortedKeys(active))
			fmt.Fprintf(w, "last fetch: %s\n", dimColor(st.LastCloudFetchDate))

			if matrix {
				fmt.Fprintln(w)
				printMatrix(w, svc.Matrix())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch the official rates first")
	cmd.Flags().BoolVar(&matrix, "matrix", false, "print the full conversion matrix")
	cmd.AddCommand(newRatesSetCmd(opts), newRatesPreferCmd(opts))
	return cmd
}

func newRatesSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <base> <quote> <value>",
		Short: `Store a manual rate: "1 base = value quote"`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := currency.Parse(args[0])
			if err != nil {
				return err
			}
			quote, err := currency.Parse(args[1])
			if err != nil {
				return err
			}

			svc, cleanup, err := opts.service(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			entry, err := svc.SetManualRate(cmd.Context(), base, quote, numfmt.Parse(args[2]))
			if err != nil {
				printError(cmd.ErrOrStderr(), "manual rate rejected", err)
				return err
			}
			high, low := exchange.Orient(base, quote)
			fmt.Fprintf(cmd.OutOrStdout(), "saved 1 %s = %s %s\n", codeColor(high), amountColor(fmtAmount(entry.Value)), codeColor(low))
			return nil
		},
	}
}

func newRatesPreferCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prefer <pair> <official|manual>",
		Short: "Choose which table is used for a pair (e.g. USD_VES)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := exchange.ParsePreference(args[1])
			if err != nil {
				return err
			}
			svc, cleanup, err := opts.service(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.SetPreferredType(cmd.Context(), args[0], t); err != nil {
				printError(cmd.ErrOrStderr(), "preference rejected", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now uses %s rates\n", codeColor(args[0]), t)
			return nil
		},
	}
}

func printMatrix(w io.Writer, m exchange.Matrix) {
	codes := currency.All()
	fmt.Fprintf(w, "%-6s", "")
	for _, to := range codes {
		fmt.Fprintf(w, "%16s", to)
	}
	fmt.Fprintln(w)
	for _, from := range codes {
		fmt.Fprintf(w, "%s", codeColor(fmt.Sprintf("%-6s", from)))
		for _, to := range codes {
			cell := m.Get(from, to)
			text := numfmt.Placeholder
			if cell.Available() {
				text = numfmt.Format(cell.Value, 2, false)
			}
			fmt.Fprintf(w, "%16s", text)
		}
		fmt.Fprintln(w)
	}
}

func sortedKeys(r exchange.Rates) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
