package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmoppel/pgweasel/internal/engine"
	"github.com/kmoppel/pgweasel/internal/filter"
)

var grepFold bool

var grepCmd = &cobra.Command{
	Use:   "grep <pattern> [files or dirs]",
	Short: "Print records containing PATTERN as a literal substring, with optional context",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGrep,
}

func init() {
	grepCmd.Flags().BoolVarP(&grepFold, "ignore-case", "i", false, "case-insensitive match")
}

func runGrep(cmd *cobra.Command, args []string) error {
	var pred filter.Predicate
	if grepFold {
		pred = filter.NewContainsFold([]byte(args[0]))
	} else {
		pred = filter.Contains{Needle: []byte(args[0])}
	}
	chain, err := buildChain(pred)
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
