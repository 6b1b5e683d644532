package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmoppel/pgweasel/internal/aggregate"
	"github.com/kmoppel/pgweasel/internal/engine"
	"github.com/kmoppel/pgweasel/internal/filter"
	"github.com/kmoppel/pgweasel/internal/timeparse"
)

var slowTopN int

var slowCmd = &cobra.Command{
	Use:   "slow <threshold> [files or dirs]",
	Short: "Print statements whose logged duration exceeds THRESHOLD (e.g. 500ms, 2s)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSlow,
}

var slowTopCmd = &cobra.Command{
	Use:   "top [files or dirs]",
	Short: "Rank the N slowest statements regardless of threshold",
	RunE:  runSlowTop,
}

func init() {
	slowTopCmd.Flags().IntVarP(&slowTopN, "top-n", "n", 10, "number of statements to report")
	slowCmd.AddCommand(slowTopCmd)
}

func runSlow(cmd *cobra.Command, args []string) error {
	threshold, err := timeparse.ParseDuration(args[0])
	if err != nil {
		return fmt.Errorf("invalid threshold %q: %w", args[0], err)
	}
	chain, err := buildChain(filter.DurationAbove{Threshold: threshold})
	if err != nil {
		return err
	}
	files, err := resolveInputs(args[1:])
	if err != nil {
		return err
	}
	defer cleanupAll(files)

	for _, f := range files {
		opts := engineOptionsFor(f.path, chain)
		if err := engine.RunGrep(f.path, engine.GrepOptions{
			Format: opts.Format,
			Chain:  chain,
			Before: beforeFlag,
			After:  afterFlag,
		}, os.Stdout); err != nil {
			return fmt.Errorf("%s: %w", f.path, err)
		}
	}
	return nil
}

func runSlowTop(cmd *cobra.Command, args []string) error {
	chain, err := buildChain()
	if err != nil {
		return err
	}
	files, err := resolveInputs(args)
	if err != nil {
		return err
	}
	defer cleanupAll(files)

	top := aggregate.NewTopSlow(slowTopN)
	for _, f := range files {
		if err := engine.Run(f.path, engineOptionsFor(f.path, chain), []aggregate.Aggregator{top}); err != nil {
			return fmt.Errorf("%s: %w", f.path, err)
		}
	}
	top.Print(os.Stdout)
	return nil
}
