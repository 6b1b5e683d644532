package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kmoppel/pgweasel/internal/archive"
	"github.com/kmoppel/pgweasel/internal/engine"
	"github.com/kmoppel/pgweasel/internal/filter"
	"github.com/kmoppel/pgweasel/internal/format"
	"github.com/kmoppel/pgweasel/internal/timeparse"
)

// resolvedFile pairs an expanded, on-disk plain/CSV file with the cleanup
// needed to remove any scratch directory archive.Expand created for it.
type resolvedFile struct {
	path    string
	cleanup func()
}

// resolveInputs collects files/dirs/globs from args, then expands any
// compressed or archived members into scratch plain files.
func resolveInputs(args []string) ([]resolvedFile, error) {
	files := archive.CollectFiles(args)
	if len(files) == 0 {
		// Arguments may themselves be literal files not matched by
		// CollectFiles's glob/dir handling (e.g. a single explicit path).
		files = args
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files specified")
	}

	var resolved []resolvedFile
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			log.Printf("[WARN] skipping %s: %v", f, err)
			continue
		}
		paths, cleanup, err := archive.Expand(f)
		if err != nil {
			log.Printf("[WARN] skipping %s: %v", f, err)
			continue
		}
		for _, p := range paths {
			resolved = append(resolved, resolvedFile{path: p, cleanup: cleanup})
		}
	}
	if len(resolved) == 0 {
		return nil, fmt.Errorf("no readable input files found")
	}
	return resolved, nil
}

// cleanupAll runs every resolvedFile's cleanup. Archive members that share
// one scratch directory also share one cleanup func; archive.Expand's
// os.RemoveAll is idempotent, so calling it more than once is harmless.
func cleanupAll(files []resolvedFile) {
	for _, f := range files {
		f.cleanup()
	}
}

// parseBucketFlag parses the --bucket flag's duration grammar.
func parseBucketFlag(s string) (time.Duration, error) {
	return timeparse.ParseDuration(s)
}

// buildTimeWindow resolves --begin/--end against the current time into a
// filter.TimeWindow predicate, or returns ok=false if neither was given.
func buildTimeWindow() (filter.TimeWindow, bool, error) {
	if beginFlag == "" && endFlag == "" {
		return filter.TimeWindow{}, false, nil
	}
	now := time.Now()
	var begin, end time.Time
	var err error
	if beginFlag != "" {
		begin, err = timeparse.ParseBound(beginFlag, now)
		if err != nil {
			return filter.TimeWindow{}, false, fmt.Errorf("--begin: %w", err)
		}
	}
	if endFlag != "" {
		end, err = timeparse.ParseBound(endFlag, now)
		if err != nil {
			return filter.TimeWindow{}, false, fmt.Errorf("--end: %w", err)
		}
	}
	return filter.TimeWindow{Begin: begin, End: end}, true, nil
}

// buildChain composes the global mask/time-window predicates ahead of any
// subcommand-specific predicates.
func buildChain(extra ...filter.Predicate) (*filter.Chain, error) {
	var preds []filter.Predicate
	if maskFlag != "" {
		preds = append(preds, filter.StartsWith{Prefix: []byte(maskFlag)})
	}
	if tw, ok, err := buildTimeWindow(); err != nil {
		return nil, err
	} else if ok {
		preds = append(preds, tw)
	}
	preds = append(preds, extra...)
	return filter.NewChain(preds...), nil
}

func engineOptionsFor(path string, chain *filter.Chain) engine.Options {
	return engineOptionsForBucket(path, chain, bucketDuration())
}

// engineOptionsForBucket is engineOptionsFor with an explicit bucket width,
// for subcommands (errors hist) that override the global --bucket default.
func engineOptionsForBucket(path string, chain *filter.Chain, bucketWidth time.Duration) engine.Options {
	return engine.Options{
		Format:      format.Detect(path),
		Chain:       chain,
		Workers:     workersFlag,
		BucketWidth: bucketWidth,
	}
}

func debugLogf(format string, args ...interface{}) {
	if debugFlag {
		log.Printf("[DEBUG] "+format, args...)
	}
}
