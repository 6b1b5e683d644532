package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmoppel/pgweasel/internal/aggregate"
	"github.com/kmoppel/pgweasel/internal/engine"
	"github.com/kmoppel/pgweasel/internal/filter"
	"github.com/kmoppel/pgweasel/internal/severity"
)

var errorsTopN int
var errorsLevelFlag string
var errorsBucketFlag string

var errorsCmd = &cobra.Command{
	Use:     "errors [files or dirs]",
	Aliases: []string{"err", "error", "errs"},
	Short:   "List, rank, or chart ERROR/FATAL/PANIC records",
	RunE:    runErrorsList,
}

var errorsListCmd = &cobra.Command{
	Use:   "list [files or dirs]",
	Short: "Print every matching error record (default)",
	RunE:  runErrorsList,
}

var errorsTopCmd = &cobra.Command{
	Use:   "top [files or dirs]",
	Short: "Rank the most frequent error messages",
	RunE:  runErrorsTop,
}

var errorsHistCmd = &cobra.Command{
	Use:     "hist [files or dirs]",
	Aliases: []string{"histogram"},
	Short:   "Print an ASCII histogram of error counts over time",
	RunE:    runErrorsHist,
}

func init() {
	errorsCmd.PersistentFlags().StringVar(&errorsLevelFlag, "level", "ERROR",
		"minimum severity to report (default ERROR)")
	errorsTopCmd.Flags().IntVarP(&errorsTopN, "top-n", "n", 10, "number of messages to report")
	errorsHistCmd.Flags().StringVar(&errorsBucketFlag, "bucket", "1h",
		"time bucket width for the error histogram (default 1h)")
	errorsCmd.AddCommand(errorsListCmd, errorsTopCmd, errorsHistCmd)
}

// errorSeverityChain builds the filter chain for the errors subcommands,
// gated on --level (default ERROR per spec §6).
func errorSeverityChain() (*filter.Chain, error) {
	min := severity.Parse(strings.ToUpper(strings.TrimSpace(errorsLevelFlag)))
	return buildChain(filter.SeverityAtLeast{Min: min})
}

func runErrorsList(cmd *cobra.Command, args []string) error {
	chain, err := errorSeverityChain()
	if err != nil {
		return err
	}
	files, err := resolveInputs(args)
	if err != nil {
		return err
	}
	defer cleanupAll(files)

	for _, f := range files {
		if err := engine.RunGrep(f.path, engine.GrepOptions{
			Format: engineOptionsFor(f.path, chain).Format,
			Chain:  chain,
			Before: beforeFlag,
			After:  afterFlag,
		}, os.Stdout); err != nil {
			return fmt.Errorf("%s: %w", f.path, err)
		}
	}
	return nil
}

func runErrorsTop(cmd *cobra.Command, args []string) error {
	chain, err := errorSeverityChain()
	if err != nil {
		return err
	}
	files, err := resolveInputs(args)
	if err != nil {
		return err
	}
	defer cleanupAll(files)

	freq := aggregate.NewErrorFrequency(errorsTopN)
	for _, f := range files {
		if err := engine.Run(f.path, engineOptionsFor(f.path, chain), []aggregate.Aggregator{freq}); err != nil {
			return fmt.Errorf("%s: %w", f.path, err)
		}
	}
	freq.Print(os.Stdout)
	return nil
}

func runErrorsHist(cmd *cobra.Command, args []string) error {
	chain, err := errorSeverityChain()
	if err != nil {
		return err
	}
	files, err := resolveInputs(args)
	if err != nil {
		return err
	}
	defer cleanupAll(files)

	width, err := parseBucketFlag(errorsBucketFlag)
	if err != nil {
		return fmt.Errorf("--bucket: %w", err)
	}

	hist := aggregate.NewHistogram(width)
	for _, f := range files {
		if err := engine.Run(f.path, engineOptionsForBucket(f.path, chain, width), []aggregate.Aggregator{hist}); err != nil {
			return fmt.Errorf("%s: %w", f.path, err)
		}
	}
	hist.Print(os.Stdout)
	return nil
}
