package aggregate

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Connections tallies connection activity per spec §4.4.3: per-host,
// per-database, per-user, and per-application-name counts restricted to
// the message classes that name them, a time-bucketed count of connection
// attempts, and the scalar totals (attempts, authenticated, authenticated
// over SSL, failures).
type Connections struct {
	ByHost   map[string]int
	ByDB     map[string]int
	ByUser   map[string]int
	ByApp    map[string]int
	ByBucket map[int64]int

	// bucketTimes remembers one representative, location-aware instant per
	// bucket key so Print can render the original UTC offset (spec §8
	// scenario 6: "5  2025-05-21 11:00:00 +03:00"), since ByBucket itself is
	// keyed by a location-independent epoch second.
	bucketTimes map[int64]time.Time

	Attempts         int
	Authenticated    int
	AuthenticatedSSL int
	Failures         int
}

// NewConnections returns an empty Connections aggregator.
func NewConnections() *Connections {
	return &Connections{
		ByHost:      make(map[string]int),
		ByDB:        make(map[string]int),
		ByUser:      make(map[string]int),
		ByApp:       make(map[string]int),
		ByBucket:    make(map[int64]int),
		bucketTimes: make(map[int64]time.Time),
	}
}

func (c *Connections) CloneEmpty() Aggregator { return NewConnections() }

// Update dispatches on severity and message prefix per spec §4.4.3's table.
// Any record that doesn't match one of the three named conditions is
// ignored entirely — unlike a generic field extractor, ByHost/ByUser/ByDB/
// ByApp are only bumped inside the branch the spec restricts them to.
func (c *Connections) Update(f Fields) {
	msg := string(f.Message)
	switch {
	case f.Severity == "FATAL" &&
		(strings.Contains(msg, "password authentication failed") || strings.Contains(msg, "is not permitted to log in")):
		c.Failures++

	case f.Severity == "LOG" && strings.HasPrefix(msg, "connection received:"):
		c.Attempts++
		if f.Host != "" {
			c.ByHost[f.Host]++
		}
		if _, seen := c.bucketTimes[f.BucketKey]; !seen {
			c.bucketTimes[f.BucketKey] = f.BucketTime
		}
		c.ByBucket[f.BucketKey]++

	case f.Severity == "LOG" && strings.HasPrefix(msg, "connection authorized:"):
		c.Authenticated++
		if strings.Contains(msg, "SSL enabled") {
			c.AuthenticatedSSL++
		}
		if f.User != "" {
			c.ByUser[f.User]++
		}
		if f.Database != "" {
			c.ByDB[f.Database]++
		}
		if f.ApplicationName != "" {
			c.ByApp[f.ApplicationName]++
		}
	}
}

func (c *Connections) Merge(other Aggregator) {
	o, ok := other.(*Connections)
	if !ok {
		return
	}
	mergeCounts(c.ByHost, o.ByHost)
	mergeCounts(c.ByDB, o.ByDB)
	mergeCounts(c.ByUser, o.ByUser)
	mergeCounts(c.ByApp, o.ByApp)
	for k, v := range o.ByBucket {
		c.ByBucket[k] += v
	}
	for k, t := range o.bucketTimes {
		if _, seen := c.bucketTimes[k]; !seen {
			c.bucketTimes[k] = t
		}
	}
	c.Attempts += o.Attempts
	c.Authenticated += o.Authenticated
	c.AuthenticatedSSL += o.AuthenticatedSSL
	c.Failures += o.Failures
}

func mergeCounts(dst, src map[string]int) {
	for k, v := range src {
		dst[k] += v
	}
}

// Print renders the scalar totals followed by every breakdown, each sorted
// by descending count per spec §4.4.3's "Print" contract, under the exact
// section headers end-to-end tests match against ("Connections by host:",
// ..., "Connections by time bucket:").
func (c *Connections) Print(w io.Writer) {
	fmt.Fprintf(w, "Total connection attempts: %d\n", c.Attempts)
	fmt.Fprintf(w, "Total authenticated connections: %d\n", c.Authenticated)
	fmt.Fprintf(w, "Total authenticated SSL connections: %d\n", c.AuthenticatedSSL)
	fmt.Fprintf(w, "Total connection failures: %d\n", c.Failures)
	printConnMap(w, "Connections by host:", c.ByHost)
	printConnMap(w, "Connections by database:", c.ByDB)
	printConnMap(w, "Connections by user:", c.ByUser)
	printConnMap(w, "Connections by application name:", c.ByApp)
	c.printBucketMap(w, "Connections by time bucket:")
}

// PrintRate renders the same time-bucketed connection-attempt counts as a
// fixed-width bar chart (see Histogram.Print), for the `connections hist`
// subcommand.
func (c *Connections) PrintRate(w io.Writer) {
	if len(c.ByBucket) == 0 {
		fmt.Fprintln(w, "(no data in range)")
		return
	}
	keys := make([]int64, 0, len(c.ByBucket))
	maxValue := 0
	for k, v := range c.ByBucket {
		keys = append(keys, k)
		if v > maxValue {
			maxValue = v
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		label := c.bucketLabel(k)
		writeBar(w, label, c.ByBucket[k], maxValue, barWidth)
	}
}

func (c *Connections) bucketLabel(key int64) string {
	if t, ok := c.bucketTimes[key]; ok && !t.IsZero() {
		return t.Format("2006-01-02 15:04:05 -07:00")
	}
	return time.Unix(key, 0).UTC().Format("2006-01-02 15:04:05 -07:00")
}

func (c *Connections) printBucketMap(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n", title)
	if len(c.ByBucket) == 0 {
		return
	}
	type kv struct {
		k int64
		n int
	}
	entries := make([]kv, 0, len(c.ByBucket))
	for k, n := range c.ByBucket {
		entries = append(entries, kv{k, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return entries[i].k < entries[j].k
	})
	for _, e := range entries {
		fmt.Fprintf(w, "  %6d  %s\n", e.n, c.bucketLabel(e.k))
	}
}

func printConnMap(w io.Writer, title string, m map[string]int) {
	fmt.Fprintf(w, "%s\n", title)
	if len(m) == 0 {
		return
	}
	type kv struct {
		k string
		n int
	}
	entries := make([]kv, 0, len(m))
	for k, n := range m {
		entries = append(entries, kv{k, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return entries[i].k < entries[j].k
	})
	for _, e := range entries {
		fmt.Fprintf(w, "  %6d  %s\n", e.n, e.k)
	}
}
