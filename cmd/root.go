// Package cmd implements the command-line interface for pgweasel.
package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmoppel/pgweasel/internal/config"
)

var (
	version string
	commit  string
	date    string
)

// Global flags, bound on the root command as persistent flags so every
// subcommand inherits them.
var (
	debugFlag    bool
	maskFlag     string
	beginFlag    string
	endFlag      string
	afterFlag    int
	beforeFlag   int
	configFlag   string
	workersFlag  int
	bucketFlag   string
	loadedConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pgweasel [files or dirs]",
	Short: "Fast command-line analyzer for PostgreSQL server logs",
	Long: `pgweasel scans PostgreSQL server log files (plain or CSV format,
optionally gzip/zstd/zip/7z-compressed) and reports errors, locking
events, system/maintenance activity, connection statistics, and slow
statements.

Specify log files, directories, or glob patterns as arguments. Directories
are scanned non-recursively for supported log files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFlag != "" {
			c, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			loadedConfig = c
			applyConfigDefaults(cmd, c)
		}
		return nil
	},
}

// applyConfigDefaults fills in flag values the user did not set on the
// command line (left at their zero value, or for --bucket and --top-n not
// marked changed) from the loaded config file. An explicit CLI flag always
// wins, since Cobra has already parsed the command line by the time
// PersistentPreRunE runs, so we only backfill flags the user never touched.
func applyConfigDefaults(cmd *cobra.Command, c *config.Config) {
	if maskFlag == "" && c.Mask != "" {
		maskFlag = c.Mask
	}
	if beginFlag == "" && c.Begin != "" {
		beginFlag = c.Begin
	}
	if endFlag == "" && c.End != "" {
		endFlag = c.End
	}
	if workersFlag == 0 && c.Workers != 0 {
		workersFlag = c.Workers
	}
	if !cmd.Flags().Changed("bucket") && c.BucketWidth != "" {
		bucketFlag = c.BucketWidth
	}
	if c.TopN > 0 {
		if !errorsTopCmd.Flags().Changed("top-n") {
			errorsTopN = c.TopN
		}
		if !slowTopCmd.Flags().Changed("top-n") {
			slowTopN = c.TopN
		}
	}
	if !debugFlag && c.Debug {
		debugFlag = c.Debug
	}
}

// Execute runs the root command. Called from main.go.
func Execute(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "v", false,
		"enable verbose diagnostic logging")
	rootCmd.PersistentFlags().StringVarP(&maskFlag, "mask", "m", "",
		"only consider records whose timestamp begins with this literal prefix")
	rootCmd.PersistentFlags().StringVarP(&beginFlag, "begin", "b", "",
		"lower time bound: a duration before now (10m, 2h, 1d), \"today\", or an absolute timestamp")
	rootCmd.PersistentFlags().StringVarP(&endFlag, "end", "e", "",
		"upper time bound, same grammar as --begin")
	rootCmd.PersistentFlags().IntVarP(&beforeFlag, "before", "B", 0,
		"print N records of context before each match (grep-style)")
	rootCmd.PersistentFlags().IntVarP(&afterFlag, "after", "A", 0,
		"print N records of context after each match (grep-style)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"path to an optional YAML config file")
	rootCmd.PersistentFlags().IntVar(&workersFlag, "workers", 0,
		"number of parallel scan shards per file (0 = auto)")
	rootCmd.PersistentFlags().StringVar(&bucketFlag, "bucket", "10m",
		"time bucket width for histograms and connection rate buckets")

	rootCmd.AddCommand(errorsCmd)
	rootCmd.AddCommand(locksCmd)
	rootCmd.AddCommand(systemCmd)
	rootCmd.AddCommand(connectionsCmd)
	rootCmd.AddCommand(slowCmd)
	rootCmd.AddCommand(grepCmd)
	rootCmd.AddCommand(peaksCmd)
	rootCmd.AddCommand(statsCmd)
}

func bucketDuration() time.Duration {
	d, err := parseBucketFlag(bucketFlag)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}
