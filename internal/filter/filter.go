// Package filter implements the composable chain of byte-level predicates
// applied to each candidate record before it reaches an aggregator.
package filter

import (
	"bytes"
	"regexp"
	"time"

	ahocorasick "github.com/BobuSumisu/aho-corasick"

	"github.com/kmoppel/pgweasel/internal/csvformat"
	"github.com/kmoppel/pgweasel/internal/format"
	"github.com/kmoppel/pgweasel/internal/plain"
	"github.com/kmoppel/pgweasel/internal/severity"
	"github.com/kmoppel/pgweasel/internal/timeparse"
)

// Predicate is a pure function over one candidate record. Implementations
// must not retain the record slice past the call.
type Predicate interface {
	Matches(record []byte, f format.Format) bool
	// Static reports whether this predicate only inspects raw bytes (no
	// timestamp parsing, no aggregator-adjacent work). Static predicates
	// run first in the chain, per the optimization contract in spec §4.3.
	Static() bool
}

// Chain is an ordered, short-circuiting composition of predicates. The
// static byte-only prefix is evaluated first, then the remaining
// predicates, stopping at the first false result.
type Chain struct {
	static  []Predicate
	dynamic []Predicate
}

// NewChain builds a Chain from an unordered predicate list, placing static
// predicates ahead of dynamic ones while preserving each group's relative
// order.
func NewChain(predicates ...Predicate) *Chain {
	c := &Chain{}
	for _, p := range predicates {
		if p.Static() {
			c.static = append(c.static, p)
		} else {
			c.dynamic = append(c.dynamic, p)
		}
	}
	return c
}

// Matches runs the full chain with short-circuit semantics.
func (c *Chain) Matches(record []byte, f format.Format) bool {
	for _, p := range c.static {
		if !p.Matches(record, f) {
			return false
		}
	}
	for _, p := range c.dynamic {
		if !p.Matches(record, f) {
			return false
		}
	}
	return true
}

// ---- static byte predicates ----

// Contains matches records containing needle as a literal byte substring.
type Contains struct{ Needle []byte }

func (p Contains) Matches(record []byte, _ format.Format) bool { return bytes.Contains(record, p.Needle) }
func (Contains) Static() bool                                  { return true }

// ContainsFold matches records containing needle, ASCII case-insensitively.
type ContainsFold struct{ needleLower []byte }

// NewContainsFold builds a ContainsFold predicate from needle.
func NewContainsFold(needle []byte) ContainsFold {
	return ContainsFold{needleLower: bytes.ToLower(needle)}
}

func (p ContainsFold) Matches(record []byte, _ format.Format) bool {
	return bytes.Contains(bytes.ToLower(record), p.needleLower)
}
func (ContainsFold) Static() bool { return true }

// StartsWith matches records whose first bytes equal prefix (used for the
// "-m/--mask" timestamp-prefix filter).
type StartsWith struct{ Prefix []byte }

func (p StartsWith) Matches(record []byte, _ format.Format) bool {
	return bytes.HasPrefix(record, p.Prefix)
}
func (StartsWith) Static() bool { return true }

// DurationAbove matches records whose embedded "duration:" value exceeds
// Threshold. Absent duration ⇒ no match.
type DurationAbove struct{ Threshold time.Duration }

func (p DurationAbove) Matches(record []byte, f format.Format) bool {
	var d time.Duration
	var ok bool
	if f == format.Csv {
		d, ok = csvformat.Duration(record)
	} else {
		d, ok = plain.Duration(record)
	}
	return ok && d > p.Threshold
}
func (DurationAbove) Static() bool { return true }

// lockProcessAcquired is the bespoke "process <digits> acquired" rule,
// a regular expression checked after the locks keyword set's trie.
var lockProcessAcquired = regexp.MustCompile(`process \d+ acquired`)

// KeywordSet matches records containing any of a multi-pattern keyword set,
// evaluated in a single Aho-Corasick pass.
type KeywordSet struct {
	trie            *ahocorasick.Trie
	caseInsensitive bool
	extraRegex      *regexp.Regexp // bespoke pattern not expressible as a literal keyword
}

// NewKeywordSet builds a KeywordSet from literal patterns. When
// caseInsensitive is true, patterns and input are both lowercased before
// matching (the aho-corasick trie itself only matches exact bytes).
func NewKeywordSet(patterns []string, caseInsensitive bool, extraRegex *regexp.Regexp) *KeywordSet {
	pats := patterns
	if caseInsensitive {
		pats = make([]string, len(patterns))
		for i, p := range patterns {
			pats[i] = string(bytes.ToLower([]byte(p)))
		}
	}
	trie := ahocorasick.NewTrieBuilder().AddStrings(pats).Build()
	return &KeywordSet{trie: trie, caseInsensitive: caseInsensitive, extraRegex: extraRegex}
}

func (k *KeywordSet) Matches(record []byte, _ format.Format) bool {
	haystack := record
	if k.caseInsensitive {
		haystack = bytes.ToLower(record)
	}
	if m := k.trie.Match(haystack); len(m) > 0 {
		return true
	}
	if k.extraRegex != nil && k.extraRegex.Match(record) {
		return true
	}
	return false
}
func (*KeywordSet) Static() bool { return true }

// LocksKeywords is the locking-event keyword set named in spec §4.3.
var LocksKeywords = []string{
	"deadlock detected",
	"still waiting for",
	"acquired",
	"wait queue",
	"lock timeout",
	"canceling statement due to lock timeout",
}

// NewLocksFilter builds the locks predicate: the literal keyword set plus
// the bespoke "process <digits> acquired" pattern.
func NewLocksFilter() *KeywordSet {
	return NewKeywordSet(LocksKeywords, false, lockProcessAcquired)
}

// SystemKeywords is the system/maintenance keyword set named in spec §4.3:
// autovacuum/checkpointer, WAL/replication, startup/shutdown, configuration
// changes, and extensions. Matched ASCII case-insensitively, grounded on
// the original implementation's system_filter.rs.
var SystemKeywords = []string{
	// Autovacuum / maintenance
	"autovacuum",
	"checkpointer",
	"background writer",
	"bgwriter",
	// WAL / replication
	"wal",
	"replication",
	"logical replication",
	"replication slot",
	"walreceiver",
	"walsender",
	"archiver",
	// Startup / shutdown
	"starting PostgreSQL",
	"database system is starting",
	"database system is ready",
	"database system is shutting down",
	"startup process",
	"shut down",
	"listening",
	// Configuration changes
	"reloading configuration",
	"configuration file",
	"SIGHUP",
	// Extensions
	"extension",
	"shared_preload_libraries",
	"CREATE EXTENSION",
}

// NewSystemFilter builds the system-events predicate, case-insensitive per
// the original implementation's AhoCorasick::builder().ascii_case_insensitive(true).
func NewSystemFilter() *KeywordSet {
	return NewKeywordSet(SystemKeywords, true, nil)
}

// ---- dynamic predicates (need parsed fields) ----

// SeverityAtLeast matches records whose severity ranks at or above Min.
// Severity extraction is cheap (a handful of byte scans) but still counts
// as "dynamic" per spec's chain ordering contract, since it depends on the
// format dispatch rather than being a pure byte scan.
type SeverityAtLeast struct{ Min severity.Severity }

func (p SeverityAtLeast) Matches(record []byte, f format.Format) bool {
	var sev severity.Severity
	if f == format.Csv {
		sev = csvformat.Severity(record)
	} else {
		sev = plain.Severity(record)
	}
	return sev >= p.Min
}
func (SeverityAtLeast) Static() bool { return false }

// TimeWindow matches records whose timestamp, parsed per spec §4.3 (first
// three whitespace-separated tokens, optional trailing timezone
// abbreviation), falls in [Begin, End]. Zero Begin/End means unbounded on
// that side. A record whose timestamp cannot be parsed does not match.
type TimeWindow struct{ Begin, End time.Time }

func (p TimeWindow) Matches(record []byte, _ format.Format) bool {
	ts, ok := timeparse.ParseRecordTimestamp(record)
	if !ok {
		return false
	}
	if !p.Begin.IsZero() && ts.Before(p.Begin) {
		return false
	}
	if !p.End.IsZero() && ts.After(p.End) {
		return false
	}
	return true
}
func (TimeWindow) Static() bool { return false }
