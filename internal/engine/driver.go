// Package engine drives a parallel scan of a single log file: it maps the
// file into memory, partitions it into per-worker byte ranges aligned to
// record boundaries, applies the filter chain and extracts fields for each
// surviving record, and folds the results into a caller-supplied set of
// shardable aggregators.
package engine

import (
	"runtime"
	"time"

	"github.com/kmoppel/pgweasel/internal/aggregate"
	"github.com/kmoppel/pgweasel/internal/csvformat"
	"github.com/kmoppel/pgweasel/internal/filter"
	"github.com/kmoppel/pgweasel/internal/format"
	"github.com/kmoppel/pgweasel/internal/plain"
	"github.com/kmoppel/pgweasel/internal/record"
	"github.com/kmoppel/pgweasel/internal/timeparse"
)

// minBytesPerWorker bounds how finely a file is split: a worker handling
// less than this isn't worth the goroutine and merge overhead.
const minBytesPerWorker = 4 << 20 // 4 MiB

// WorkerCount picks the shard count for a file of the given size, following
// the teacher's determineWorkerCount shape: scale with available CPUs, but
// never split a file finer than minBytesPerWorker per shard, and a single
// small file just runs inline.
func WorkerCount(fileSize int64) int {
	if fileSize < minBytesPerWorker {
		return 1
	}
	maxWorkers := runtime.NumCPU()
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	byBytes := int(fileSize / minBytesPerWorker)
	if byBytes < 1 {
		byBytes = 1
	}
	if byBytes < maxWorkers {
		return byBytes
	}
	return maxWorkers
}

// Options configures a single Run call.
type Options struct {
	Format      format.Format
	Chain       *filter.Chain // may be nil (matches everything)
	Workers     int
	BucketWidth time.Duration // for time-bucketed aggregators; 0 disables bucketing
}

// Run scans filename, applying opts.Chain to every candidate record and
// folding matches into every aggregator in aggs (Run calls CloneEmpty per
// shard and Merges shard results back into the slot aggs occupies before
// returning, so aggs may already hold state from earlier files).
func Run(filename string, opts Options, aggs []aggregate.Aggregator) error {
	data, release, err := mapFile(filename)
	if err != nil {
		return err
	}
	defer release()

	if len(data) == 0 {
		return nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = WorkerCount(int64(len(data)))
	}
	ranges := record.PartitionFile(data, workers)

	shardResults := make([][]aggregate.Aggregator, len(ranges))
	done := make(chan int, len(ranges))

	for i, rng := range ranges {
		shards := make([]aggregate.Aggregator, len(aggs))
		for j, a := range aggs {
			shards[j] = a.CloneEmpty()
		}
		shardResults[i] = shards

		go func(idx int, rng record.Range, shards []aggregate.Aggregator) {
			scanRange(data, rng, opts, shards)
			done <- idx
		}(i, rng, shards)
	}

	for range ranges {
		<-done
	}

	for _, shards := range shardResults {
		for j, s := range shards {
			aggs[j].Merge(s)
		}
	}
	return nil
}

func scanRange(data []byte, rng record.Range, opts Options, shards []aggregate.Aggregator) {
	record.Iterate(data, rng, func(rec []byte) {
		if opts.Chain != nil && !opts.Chain.Matches(rec, opts.Format) {
			return
		}
		fields := extractFields(rec, opts)
		for _, s := range shards {
			s.Update(fields)
		}
	})
}

// extractFields runs every field extractor once per surviving record,
// regardless of how many aggregators are active.
func extractFields(rec []byte, opts Options) aggregate.Fields {
	f := aggregate.Fields{Raw: rec}

	var (
		msg                 []byte
		ok                  bool
		host, user, db, app []byte
		hOK, uOK, dOK, aOK  bool
		d                   time.Duration
		durOK               bool
		sevStr              string
	)

	if opts.Format == format.Csv {
		msg, ok = csvformat.Message(rec)
		sevStr = csvformat.Severity(rec).String()
		host, hOK = csvformat.Host(rec)
		user, uOK = csvformat.User(rec)
		db, dOK = csvformat.Database(rec)
		app, aOK = csvformat.ApplicationName(rec)
		d, durOK = csvformat.Duration(rec)
	} else {
		msg, ok = plain.Message(rec)
		sevStr = plain.Severity(rec).String()
		host, hOK = plain.Host(rec)
		user, uOK = plain.User(rec)
		db, dOK = plain.Database(rec)
		app, aOK = plain.ApplicationName(rec)
		d, durOK = plain.Duration(rec)
	}

	if ok {
		f.Message = msg
	}
	f.Severity = sevStr
	if hOK {
		f.Host = string(host)
	}
	if uOK {
		f.User = string(user)
	}
	if dOK {
		f.Database = string(db)
	}
	if aOK {
		f.ApplicationName = string(app)
	}
	if durOK {
		f.Duration = int64(d)
		f.HasDuration = true
	}

	if opts.BucketWidth > 0 {
		if ts, tok := timeparse.ParseRecordTimestamp(rec); tok {
			bucketTime := timeparse.FloorBucket(ts, opts.BucketWidth)
			f.BucketKey = bucketTime.Unix()
			f.BucketTime = bucketTime
		}
	}

	return f
}
