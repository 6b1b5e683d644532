package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmoppel/pgweasel/internal/engine"
	"github.com/kmoppel/pgweasel/internal/filter"
)

var locksCmd = &cobra.Command{
	Use:     "locks [files or dirs]",
	Aliases: []string{"lock", "deadlock", "deadlocks", "loc"},
	Short:   "Print records matching the locking-event keyword set",
	RunE:    runLocks,
}

func runLocks(cmd *cobra.Command, args []string) error {
	extra := filter.NewLocksFilter()
	chain, err := buildChain(extra)
	if err != nil {
		return err
	}
	files, err := resolveInputs(args)
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
