// Package plain extracts fields from PostgreSQL stderr/log_line_prefix
// format records without re-parsing or copying the underlying bytes.
package plain

import (
	"bytes"
	"strconv"
	"time"

	"github.com/kmoppel/pgweasel/internal/severity"
)

// severityMarkers lists every keyword Severity looks for. Every marker is
// searched for, and the one occurring earliest in the record wins, so the
// order of this list does not affect the result.
var severityMarkers = []struct {
	marker []byte
	sev    severity.Severity
}{
	{[]byte("DEBUG5:"), severity.Debug5},
	{[]byte("DEBUG4:"), severity.Debug4},
	{[]byte("DEBUG3:"), severity.Debug3},
	{[]byte("DEBUG2:"), severity.Debug2},
	{[]byte("DEBUG1:"), severity.Debug1},
	{[]byte("LOG:"), severity.Log},
	{[]byte("INFO:"), severity.Info},
	{[]byte("NOTICE:"), severity.Notice},
	{[]byte("WARNING:"), severity.Warning},
	{[]byte("ERROR:"), severity.Error},
	{[]byte("FATAL:"), severity.Fatal},
	{[]byte("PANIC:"), severity.Panic},
}

// Severity scans record for the first severity keyword. Absent ⇒ LOG.
func Severity(record []byte) severity.Severity {
	best := -1
	sev := severity.Log
	for _, m := range severityMarkers {
		if idx := bytes.Index(record, m.marker); idx != -1 {
			if best == -1 || idx < best {
				best = idx
				sev = m.sev
			}
		}
	}
	return sev
}

// Message returns the text after the first "colon-space" pair, trimmed,
// running to the first newline or record end. Absent ⇒ ok is false.
func Message(record []byte) (msg []byte, ok bool) {
	idx := bytes.Index(record, []byte(": "))
	if idx == -1 {
		return nil, false
	}
	start := idx + 2
	for start < len(record) && record[start] == ' ' {
		start++
	}
	end := bytes.IndexByte(record[start:], '\n')
	if end == -1 {
		end = len(record)
	} else {
		end += start
	}
	return bytes.TrimSpace(record[start:end]), true
}

// needle-based field extraction shared by both formats: find "key=" and
// return the bytes up to the next space, comma, or double quote.
func extractNeedle(record []byte, needle string) ([]byte, bool) {
	idx := bytes.Index(record, []byte(needle))
	if idx == -1 {
		return nil, false
	}
	start := idx + len(needle)
	rest := record[start:]
	end := len(rest)
	for i, b := range rest {
		if b == ' ' || b == ',' || b == '"' {
			end = i
			break
		}
	}
	if end == 0 {
		return nil, false
	}
	return rest[:end], true
}

// Host extracts the "host=" field.
func Host(record []byte) ([]byte, bool) { return extractNeedle(record, "host=") }

// User extracts the "user=" field.
func User(record []byte) ([]byte, bool) { return extractNeedle(record, "user=") }

// Database extracts the "database=" field.
func Database(record []byte) ([]byte, bool) { return extractNeedle(record, "database=") }

// ApplicationName extracts the "application_name=" field.
func ApplicationName(record []byte) ([]byte, bool) {
	return extractNeedle(record, "application_name=")
}

// Duration extracts and parses the "duration: <N> <unit>" fragment.
// Absent or unparseable ⇒ ok is false.
func Duration(record []byte) (d time.Duration, ok bool) {
	idx := bytes.Index(record, []byte("duration:"))
	if idx == -1 {
		return 0, false
	}
	i := idx + len("duration:")
	for i < len(record) && record[i] == ' ' {
		i++
	}
	numStart := i
	for i < len(record) && (isDigit(record[i]) || record[i] == '.') {
		i++
	}
	if i == numStart {
		return 0, false
	}
	value, err := strconv.ParseFloat(string(record[numStart:i]), 64)
	if err != nil {
		return 0, false
	}
	for i < len(record) && record[i] == ' ' {
		i++
	}
	unitStart := i
	for i < len(record) && isAlpha(record[i]) {
		i++
	}
	unit := string(record[unitStart:i])
	return unitToDuration(value, unit)
}

func unitToDuration(value float64, unit string) (time.Duration, bool) {
	switch unit {
	case "ns":
		return time.Duration(value), true
	case "us":
		return time.Duration(value * float64(time.Microsecond)), true
	case "ms":
		return time.Duration(value * float64(time.Millisecond)), true
	case "s":
		return time.Duration(value * float64(time.Second)), true
	case "m", "min", "minutes":
		return time.Duration(value * float64(time.Minute)), true
	default:
		return 0, false
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' }
