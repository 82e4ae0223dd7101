package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultInputPath is the results file plotted when no argument is given.
const DefaultInputPath = "data/RD/h_noisy_interp/1761519372_Secondary_Cases.csv"

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// newRootCmd wires the flags to a single App run. newLog is swapped in tests.
func newRootCmd(newLog func(verbose bool) (*zap.Logger, error)) *cobra.Command {
	var (
		opts    Options
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "agentbox [results.csv]",
		Short: "Render a per-agent boxplot from a comma-separated results file",
		Long: `agentbox loads a results file with one line per agent and one value per
trial, draws one box per agent (labelled 0..N-1) and saves the plot as a
300 DPI PNG next to the input file.

Run without arguments to plot ` + DefaultInputPath + `.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.InputPath = DefaultInputPath
			if len(args) == 1 {
				opts.InputPath = args[0]
			}
			logger, err := newLog(verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			_, err = NewApp(logger, cmd.OutOrStdout()).Run(opts)
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "image path (default: input path with .png extension)")
	cmd.Flags().StringVarP(&opts.Metric, "metric", "m", "", "value axis label (default: derived from the input file name)")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "also write a PDF summary report to this path")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// execute runs the command and turns any failure into one stderr line and exit
// status 1.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(newLogger)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
