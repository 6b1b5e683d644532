// Package main is the entry point for pgweasel, a command-line analyzer
// for PostgreSQL server log files.
package main

import (
	"github.com/kmoppel/pgweasel/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
