package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// peaksCmd and statsCmd are named in the CLI surface but not yet
// implemented; connections hist already covers the time-bucketed rate view
// peaks would otherwise provide. Kept as explicit stubs rather than
// omitted entirely, so `pgweasel peaks --help` documents why nothing
// happens instead of cobra reporting an unknown command.
var peaksCmd = &cobra.Command{
	Use:   "peaks [files or dirs]",
	Short: "Not implemented: identify peak-activity windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("peaks: not implemented")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [files or dirs]",
	Short: "Not implemented: print aggregate run statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return errors.New("stats: not implemented")
	},
}
