// Package timeparse converts PostgreSQL log timestamps and human-readable
// interval/duration strings to absolute instants and durations.
package timeparse

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// tzAbbreviations maps the timezone abbreviations PostgreSQL commonly emits
// to fixed UTC offsets. PostgreSQL's own source resolves these via search-
// and-replace on the raw timestamp string; replicating the fixed map here
// is simpler and sufficient for the logs this tool reads (see spec §9).
var tzAbbreviations = map[string]string{
	"UTC":  "+00:00",
	"EET":  "+02:00",
	"EEST": "+03:00",
	"CET":  "+01:00",
	"CEST": "+02:00",
	"PST":  "-08:00",
	"PDT":  "-07:00",
	"EST":  "-05:00",
	"EDT":  "-04:00",
	"CST":  "-06:00",
	"CDT":  "-05:00",
	"MST":  "-07:00",
	"MDT":  "-06:00",
}

const dateTimeLayout = "2006-01-02 15:04:05"
const dateTimeFracLayout = "2006-01-02 15:04:05.999999"

// ParseTimestamp parses a PostgreSQL log timestamp of the form
// "YYYY-MM-DD HH:MM:SS[.ffffff] [TZ]". A recognized trailing abbreviation
// is resolved to its fixed offset; an unrecognized or absent abbreviation
// is interpreted in the local zone.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for abbr, offset := range tzAbbreviations {
		if strings.HasSuffix(s, " "+abbr) {
			base := strings.TrimSuffix(s, " "+abbr)
			layout := dateTimeLayout + " -07:00"
			if strings.Contains(base, ".") {
				layout = dateTimeFracLayout + " -07:00"
			}
			return time.Parse(layout, base+" "+offset)
		}
	}

	// An unrecognized trailing abbreviation is dropped, leaving the wall
	// clock to be read in the local zone.
	if i := strings.LastIndexByte(s, ' '); i > 0 && looksLikeTZAbbrev([]byte(s[i+1:])) {
		s = strings.TrimSpace(s[:i])
	}
	layout := dateTimeLayout
	if strings.Contains(s, ".") {
		layout = dateTimeFracLayout
	}
	return time.ParseInLocation(layout, s, time.Local)
}

// ParseRecordTimestamp extracts and parses the timestamp from a raw record:
// the first three whitespace-separated tokens (date, time, optional
// timezone abbreviation), per spec §4.3.
func ParseRecordTimestamp(record []byte) (time.Time, bool) {
	fields := bytes.Fields(record)
	if len(fields) < 2 {
		return time.Time{}, false
	}
	n := 2
	if len(fields) >= 3 && looksLikeTZAbbrev(fields[2]) {
		n = 3
	}
	var parts []string
	for i := 0; i < n; i++ {
		parts = append(parts, string(fields[i]))
	}
	ts, err := ParseTimestamp(strings.Join(parts, " "))
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func looksLikeTZAbbrev(tok []byte) bool {
	if len(tok) < 2 || len(tok) > 5 {
		return false
	}
	for _, b := range tok {
		if b < 'A' || b > 'Z' {
			return false
		}
	}
	return true
}

// ParseDuration converts a human-readable duration string ("10ms", "2s",
// "1min", "1.5s") to a time.Duration. Recognized units:
// ns, us, ms, s, m, min, minutes, h, d.
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	i := 0
	for i < len(input) && (isDigit(input[i]) || input[i] == '.') {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("invalid duration %q: no numeric value", input)
	}
	value, err := strconv.ParseFloat(input[:i], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", input, err)
	}
	unit := strings.TrimSpace(input[i:])
	switch unit {
	case "ns":
		return time.Duration(value), nil
	case "us":
		return time.Duration(value * float64(time.Microsecond)), nil
	case "ms":
		return time.Duration(value * float64(time.Millisecond)), nil
	case "s":
		return time.Duration(value * float64(time.Second)), nil
	case "m", "min", "minutes":
		return time.Duration(value * float64(time.Minute)), nil
	case "h":
		return time.Duration(value * float64(time.Hour)), nil
	case "d":
		return time.Duration(value * 24 * float64(time.Hour)), nil
	default:
		return 0, fmt.Errorf("invalid duration %q: unknown unit %q", input, unit)
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ParseBound resolves a -b/-e CLI bound spec: a duration-before-now
// ("10m", "2h", "1d"), the literal "today", or an absolute timestamp
// ("2025-09-01 12:00:00", optionally with seconds/timezone).
func ParseBound(spec string, now time.Time) (time.Time, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return time.Time{}, nil
	}
	if spec == "today" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	if d, err := ParseDuration(spec); err == nil {
		return now.Add(-d), nil
	}
	if ts, err := ParseTimestamp(spec); err == nil {
		return ts, nil
	}
	// Accept a timestamp without seconds.
	if t, err := time.ParseInLocation("2006-01-02 15:04", spec, now.Location()); err == nil {
		return t, nil
	}
	// Accept a bare date too.
	if t, err := time.ParseInLocation("2006-01-02", spec, now.Location()); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time spec %q", spec)
}

// FloorBucket floors t to the nearest preceding multiple of interval,
// measured in nanoseconds since the Unix epoch. Idempotent:
// FloorBucket(FloorBucket(t, i), i) == FloorBucket(t, i).
func FloorBucket(t time.Time, interval time.Duration) time.Time {
	if interval <= 0 {
		return t
	}
	ns := t.UnixNano()
	floored := ns - (ns % int64(interval))
	return time.Unix(0, floored).In(t.Location())
}

// FloorBucketSeconds floors an instant to a bucket width measured in whole
// seconds, returning the bucket's epoch-second key. The aggregators do not
// call it: the engine keys their buckets by FloorBucket(...).Unix().
func FloorBucketSeconds(t time.Time, widthSeconds int64) int64 {
	if widthSeconds <= 0 {
		return t.Unix()
	}
	sec := t.Unix()
	return sec - (sec % widthSeconds)
}
