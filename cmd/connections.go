package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmoppel/pgweasel/internal/aggregate"
	"github.com/kmoppel/pgweasel/internal/engine"
)

var connectionsCmd = &cobra.Command{
	Use:     "connections [files or dirs]",
	Aliases: []string{"conn", "conns"},
	Short:   "Summarize connection attempts, authentications, and failures",
	RunE:    runConnections,
}

var connectionsHistCmd = &cobra.Command{
	Use:     "hist [files or dirs]",
	Aliases: []string{"histogram", "rate"},
	Short:   "Plot connection attempts per time bucket as a bar chart",
	RunE:    runConnectionsHist,
}

func init() {
	connectionsCmd.AddCommand(connectionsHistCmd)
}

func runConnections(cmd *cobra.Command, args []string) error {
	conns, err := scanConnections(args)
	if err != nil {
		return err
	}
	conns.Print(os.Stdout)
	return nil
}

func runConnectionsHist(cmd *cobra.Command, args []string) error {
	conns, err := scanConnections(args)
	if err != nil {
		return err
	}
	conns.PrintRate(os.Stdout)
	return nil
}

func scanConnections(args []string) (*aggregate.Connections, error) {
	chain, err := buildChain()
	if err != nil {
		return nil, err
	}
	files, err := resolveInputs(args)
	if err != nil {
		return nil, err
	}
	defer cleanupAll(files)

	conns := aggregate.NewConnections()
	for _, f := range files {
		if err := engine.Run(f.path, engineOptionsFor(f.path, chain), []aggregate.Aggregator{conns}); err != nil {
			return nil, fmt.Errorf("%s: %w", f.path, err)
		}
	}
	return conns, nil
}
