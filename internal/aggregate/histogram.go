package aggregate

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// Histogram buckets error counts (or any severity-at-or-above filter's
// matches) by a fixed time interval and renders a fixed-width ASCII bar
// chart per spec §4.4.4: width 50, filled cells scaled to the bucket with
// the largest count.
type Histogram struct {
	BucketWidth time.Duration
	counts      map[int64]int
}

const barWidth = 50

// NewHistogram returns an empty Histogram bucketing by bucketWidth.
func NewHistogram(bucketWidth time.Duration) *Histogram {
	return &Histogram{BucketWidth: bucketWidth, counts: make(map[int64]int)}
}

func (h *Histogram) CloneEmpty() Aggregator { return NewHistogram(h.BucketWidth) }

func (h *Histogram) Update(f Fields) {
	h.counts[f.BucketKey]++
}

func (h *Histogram) Merge(other Aggregator) {
	o, ok := other.(*Histogram)
	if !ok {
		return
	}
	for k, v := range o.counts {
		h.counts[k] += v
	}
}

func (h *Histogram) Print(w io.Writer) {
	if len(h.counts) == 0 {
		fmt.Fprintln(w, "(no data in range)")
		return
	}
	keys := make([]int64, 0, len(h.counts))
	maxValue := 0
	for k, v := range h.counts {
		keys = append(keys, k)
		if v > maxValue {
			maxValue = v
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		label := time.Unix(k, 0).UTC().Format("2006-01-02 15:04:05")
		writeBar(w, label, h.counts[k], maxValue, barWidth)
	}
}
