// Package cmd implements the multicalc command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/amirasaad/multicalc/infra/initializer"
	"github.com/amirasaad/multicalc/pkg/app"
	"github.com/amirasaad/multicalc/pkg/config"
	"github.com/amirasaad/multicalc/pkg/service/calc"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile string
	offline bool
	verbose bool
	noColor bool
}

// Execute runs the root command against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "multicalc",
		Short: "Calculator with live VES, COP, USD and EUR conversions",
		Long: `multicalc evaluates calculator expressions written in display notation
(1.234,56) and converts the result into every supported currency using the
official BCV, BanRep and BCE rates or your own manual rates.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional .env file")
	root.PersistentFlags().BoolVar(&opts.offline, "offline", false, "use the built-in rates instead of the feed")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newEvalCmd(),
		newConvertCmd(opts),
		newRatesCmd(opts),
		newKeysCmd(opts),
		newKeypadCmd(opts),
	)
	return root
}

// service builds a calculator service from the environment and restores its state.
func (o *rootOptions) service(ctx context.Context, stderr io.Writer) (*calc.Service, func(), error) {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if o.offline {
		cfg.RateFeed.Offline = true
	}
	// Commands refresh explicitly.
	cfg.RateFeed.RefreshOnStart = false

	deps, cleanup, err := initializer.NewDependencies(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	a := app.New(deps, cfg)
	if err := a.Start(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return a.CalcService, cleanup, nil
}

func printError(w io.Writer, msg string, err error) {
	fmt.Fprintf(w, "%s %s: %v\n", color.RedString("error:"), msg, err)
}

