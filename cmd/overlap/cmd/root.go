package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/RishiKendai/overlap/internal/app"
	"github.com/RishiKendai/overlap/internal/logger"
	"github.com/RishiKendai/overlap/internal/report"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	settings app.Settings
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "overlap",
		Short: "overlap: n-gram plagiarism checker for text submissions",
		Long: "Compares every untrusted submission against every other one and against trusted sources,\n" +
			"reporting the word sequences they share.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(logger.Options{Level: opts.logLevel, Format: "console", Writer: cmd.ErrOrStderr()})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err := app.Run(ctx, opts.settings, cmd.OutOrStdout())
			return err
		},
	}

	f := rootCmd.Flags()
	s := &opts.settings
	f.StringVarP(&s.UntrustedDir, "untrusted", "u", "", "Directory of untrusted text files, one submission per file")
	f.StringVarP(&s.TrustedDir, "trusted", "t", "", "Directory of trusted text files, each a possible plagiarism source")
	f.StringVarP(&s.IgnoreDir, "ignore", "i", "", "Directory of text files whose content is ignored by all checks")
	f.StringVarP(&s.Metric, "metric", "m", "", "Similarity metric: equal or lev (Levenshtein distance)")
	f.IntVarP(&s.Sensitivity, "sensitivity", "n", 0, "Number of words in a unit of plagiarism checking")
	f.IntVarP(&s.Similarity, "similarity", "s", 0, "Threshold for the chosen metric (maximum edit distance for lev)")
	f.BoolVar(&s.OutputCLI, "cli", false, "Print the results on the command line")
	f.BoolVar(&s.OutputHTML, "html", false, "Write the results to an HTML report")
	f.BoolVar(&s.OpenHTML, "openhtml", false, "Open the HTML report after writing it")
	f.StringVar(&s.OutDir, "out", report.DefaultOutputDir, "Output directory for the HTML report")
	f.IntVar(&s.Workers, "workers", 0, "Comparison workers; 0 compares sequentially")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error")

	_ = rootCmd.MarkFlagRequired("untrusted")
	_ = rootCmd.MarkFlagRequired("metric")
	_ = rootCmd.MarkFlagRequired("sensitivity")
	_ = rootCmd.MarkFlagRequired("similarity")

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}
