package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmoppel/pgweasel/internal/engine"
	"github.com/kmoppel/pgweasel/internal/filter"
)

var systemCmd = &cobra.Command{
	Use:     "system [files or dirs]",
	Aliases: []string{"sys", "pg", "postgres"},
	Short:   "Print records matching the system/maintenance keyword set",
	RunE:    runSystem,
}

func runSystem(cmd *cobra.Command, args []string) error {
	extra := filter.NewSystemFilter()
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
