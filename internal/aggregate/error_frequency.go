package aggregate

import (
	"fmt"
	"io"
	"sort"
)

// ErrorFrequency counts distinct error messages, retaining only the N most
// frequent after each Merge to bound memory on long scans with a large
// number of distinct one-off messages.
type ErrorFrequency struct {
	N      int
	counts map[string]int
}

// NewErrorFrequency returns an ErrorFrequency aggregator that reports the n
// most common error messages.
func NewErrorFrequency(n int) *ErrorFrequency {
	return &ErrorFrequency{N: n, counts: make(map[string]int)}
}

func (e *ErrorFrequency) CloneEmpty() Aggregator {
	return &ErrorFrequency{N: e.N, counts: make(map[string]int)}
}

func (e *ErrorFrequency) Update(f Fields) {
	if f.Severity != "ERROR" && f.Severity != "FATAL" && f.Severity != "PANIC" {
		return
	}
	if len(f.Message) == 0 {
		return
	}
	e.counts[string(f.Message)]++
}

func (e *ErrorFrequency) Merge(other Aggregator) {
	o, ok := other.(*ErrorFrequency)
	if !ok {
		return
	}
	for msg, c := range o.counts {
		e.counts[msg] += c
	}
	e.evict()
}

// evict keeps only the N highest-count entries, bounding map growth across
// a long chain of merges.
func (e *ErrorFrequency) evict() {
	if e.N <= 0 || len(e.counts) <= e.N {
		return
	}
	type kv struct {
		msg string
		n   int
	}
	entries := make([]kv, 0, len(e.counts))
	for msg, c := range e.counts {
		entries = append(entries, kv{msg, c})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].n > entries[j].n })
	kept := make(map[string]int, e.N)
	for _, ent := range entries[:e.N] {
		kept[ent.msg] = ent.n
	}
	e.counts = kept
}

func (e *ErrorFrequency) Print(w io.Writer) {
	e.evict()
	type kv struct {
		msg string
		n   int
	}
	entries := make([]kv, 0, len(e.counts))
	for msg, c := range e.counts {
		entries = append(entries, kv{msg, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return entries[i].msg < entries[j].msg
	})
	if len(entries) == 0 {
		fmt.Fprintln(w, "(no errors found)")
		return
	}
	for i, ent := range entries {
		fmt.Fprintf(w, "%2d. %6d  %s\n", i+1, ent.n, truncate([]byte(ent.msg), 160))
	}
}
