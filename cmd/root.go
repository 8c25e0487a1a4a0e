package cmd

import (
	"fmt"
	"io"
	"os"

	"gridfill/internal/config"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the gridfill command around a fresh configuration.
func NewRootCmd() *cobra.Command {
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "gridfill [options] <input> <output>",
		Short: "Fill missing values in a CSV grid with the mean of their neighbours",
		Long: `Gridfill reads a delimited grid of numbers in which missing values are
written as "nan", replaces every missing value with the average of its
up, down, left and right neighbours, and writes the completed grid.

A missing value next to another missing value cannot be filled and aborts
the run without writing any output.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd, cfg, args)
		},
	}

	rootCmd.Flags().StringVarP(&cfg.Delimiter, "delimiter", "d", config.DefaultDelimiter, "Field delimiter (single character)")
	rootCmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Load and fill the grid without writing the output file")
	rootCmd.Flags().BoolVar(&cfg.Backup, "backup", false, "Copy an existing output file to a timestamped .bak before replacing it")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose mode")
	rootCmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Debug mode")
	rootCmd.Flags().BoolVarP(&cfg.Quiet, "quiet", "q", false, "Quiet mode")
	rootCmd.Flags().StringVar(&cfg.LogFile, "log", "", "Report file (default: stdout)")
	rootCmd.Flags().Var((*logFormatFlag)(&cfg.LogFormat), "log-format", "Report format (summary, json, csv)")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.MarkFlagsMutuallyExclusive("debug", "quiet")

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes gridfill with args and returns the process exit code. Errors
// are printed to stderr verbatim.
func run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}

	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	return 0
}

func runFill(cmd *cobra.Command, cfg *config.Config, args []string) error {
	cfg.InputPath = args[0]
	cfg.OutputPath = args[1]

	if err := cfg.Validate(); err != nil {
		return err
	}

	return executeFill(cfg, cmd.OutOrStdout())
}

type logFormatFlag config.LogFormat

func (f *logFormatFlag) String() string {
	return string(*f)
}

func (f *logFormatFlag) Set(v string) error {
	switch config.LogFormat(v) {
	case config.LogFormatSummary, config.LogFormatJSON, config.LogFormatCSV:
		*f = logFormatFlag(v)
		return nil
	default:
		return fmt.Errorf("must be 'summary', 'json' or 'csv'")
	}
}

func (f *logFormatFlag) Type() string {
	return "string"
}
