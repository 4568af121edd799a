package cmd

import (
	"fmt"
	"io"

	"github.com/amirasaad/multicalc/pkg/exchange"
	"github.com/amirasaad/multicalc/pkg/numfmt"
	"github.com/amirasaad/multicalc/pkg/service/calc"
	"github.com/fatih/color"
)

var (
	codeColor   = color.New(color.FgCyan, color.Bold).SprintFunc()
	amountColor = color.New(color.FgGreen).SprintFunc()
	sourceColor = color.New(color.FgYellow).SprintFunc()
	dimColor    = color.New(color.Faint).SprintFunc()
)

func printConversions(w io.Writer, conversions []calc.Conversion) {
	for _, c := range conversions {
		rate := dimColor("sin tasa")
		if c.Rate != nil {
			rate = fmt.Sprintf("%s %s", c.Rate.Describe(), sourceColor("("+string(c.Rate.Source)+")"))
		}
		fmt.Fprintf(w, "  %s  %s  %s\n", codeColor(c.Currency), amountColor(fmt.Sprintf("%18s", c.Formatted)), rate)
	}
}

func printRates(w io.Writer, title string, rates exchange.Rates, keys []string) {
	fmt.Fprintln(w, color.New(color.Bold).Sprint(title))
	if len(keys) == 0 {
		fmt.Fprintln(w, dimColor("  (none)"))
		return
	}
	for _, k := range keys {
		e := rates[k]
		direct := ""
		if !e.IsDirect {
			direct = dimColor(" inverse")
		}
		fmt.Fprintf(w, "  %s %14.6f  %s %s%s\n", codeColor(fmt.Sprintf("%-8s", k)), e.Value, sourceColor(e.Source), e.Type, direct)
	}
}

func fmtAmount(v float64) string {
	return numfmt.Format(v, 2, false)
}
