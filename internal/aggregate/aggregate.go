// Package aggregate implements the shardable summary statistics collected
// during a scan: each worker shard owns an independent clone, updates it
// record by record, and the engine merges shards single-threaded once
// scanning finishes.
package aggregate

import (
	"fmt"
	"io"
	"math"
	"time"
)

// Aggregator is update-shardable: CloneEmpty produces a fresh, independent
// instance suitable for a worker shard; Update folds in one record's already-
// extracted fields; Merge combines another shard's state into this one and
// must be associative and commutative; Print renders the final result.
type Aggregator interface {
	CloneEmpty() Aggregator
	Update(rec Fields)
	Merge(other Aggregator)
	Print(w io.Writer)
}

// Fields holds the subset of a record's extracted data an aggregator needs.
// Extractors run once per record regardless of how many aggregators are
// active; aggregators read from this struct rather than re-scanning bytes.
type Fields struct {
	Raw             []byte
	Message         []byte
	Host            string
	User            string
	Database        string
	ApplicationName string
	Duration        int64 // nanoseconds; 0 if absent
	HasDuration     bool
	Severity        string
	BucketKey       int64     // epoch-second key of FloorBucket(timestamp, bucketWidth)
	BucketTime      time.Time // the bucket instant, in its original zone offset
}

// writeBar renders a fixed-width ASCII bar scaled to maxValue: value/maxValue
// of width is filled with '#', the remainder padded with '-'. Matches the
// original implementation's error histogram print (filled.repeat + empty.repeat).
func writeBar(w io.Writer, label string, value, maxValue, width int) {
	if maxValue < 1 {
		maxValue = 1
	}
	filled := int(math.Round(float64(value) / float64(maxValue) * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled
	fmt.Fprintf(w, "[%s] %s%s %d\n", label, repeat("#", filled), repeat("-", empty), value)
}

func repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, len(s)*n)
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
