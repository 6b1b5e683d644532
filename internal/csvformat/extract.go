// Package csvformat extracts fields from PostgreSQL CSV-format log records
// (23, 24, or 26 column variants, for PostgreSQL v13/v14/v15+) without
// allocating a parsed structure: Fields walks the raw bytes once and
// returns byte-slice views into the original record.
package csvformat

import (
	"bytes"
	"time"

	"github.com/kmoppel/pgweasel/internal/plain"
	"github.com/kmoppel/pgweasel/internal/severity"
)

// Column positions relied upon (1-indexed per spec, 0-indexed here).
const (
	colTimestamp = 0
	colSeverity  = 11
	colMessage   = 13
)

// Fields splits the first logical CSV line of record into fields under
// RFC-4180 quoting: double quotes escape inner quotes, and commas inside a
// quoted field are not separators. Only the first line is parsed — value
// fields containing embedded newlines (e.g. multi-line QUERY text) are left
// to their own field's bytes up to the closing quote, which the RFC-4180
// grammar already threads through embedded '\n' correctly since quoting
// spans the whole record, not just one '\n'-delimited line.
//
// Returned slices alias record, except a quoted field containing escaped
// ("") quotes, which is returned as an unescaped copy. An unterminated
// quote runs its field to the end of the record. Malformed input never
// aborts the scan — a field that is missing or empty simply causes
// downstream extractors to report absent.
func Fields(record []byte) [][]byte {
	var fields [][]byte
	i := 0
	n := len(record)
	for i <= n {
		var field []byte
		if i < n && record[i] == '"' {
			i++
			start := i
			var buf []byte
			for i < n {
				if record[i] == '"' {
					if i+1 < n && record[i+1] == '"' {
						buf = append(buf, record[start:i]...)
						buf = append(buf, '"')
						i += 2
						start = i
						continue
					}
					break
				}
				i++
			}
			if buf != nil {
				buf = append(buf, record[start:i]...)
				field = buf
			} else {
				field = record[start:i]
			}
			if i < n && record[i] == '"' {
				i++
			}
			// skip to next comma or end of this logical line
			for i < n && record[i] != ',' && record[i] != '\n' {
				i++
			}
		} else {
			start := i
			for i < n && record[i] != ',' && record[i] != '\n' {
				i++
			}
			field = record[start:i]
		}
		fields = append(fields, field)
		if i >= n || record[i] == '\n' {
			break
		}
		// record[i] == ','
		i++
	}
	return fields
}

func field(fields [][]byte, idx int) ([]byte, bool) {
	if idx < 0 || idx >= len(fields) {
		return nil, false
	}
	f := fields[idx]
	if len(f) == 0 {
		return nil, false
	}
	return f, true
}

// Message returns the 14th field (message), per spec §9 Open Question: the
// "14th field" extractor is the correct one, not "last comma".
func Message(record []byte) (msg []byte, ok bool) {
	return field(Fields(record), colMessage)
}

// Severity returns the severity field by its fixed column position.
func Severity(record []byte) severity.Severity {
	fields := Fields(record)
	v, ok := field(fields, colSeverity)
	if !ok {
		return severity.Log
	}
	return severity.Parse(string(bytes.TrimSpace(v)))
}

// Host, User, Database, ApplicationName, and Duration reuse the plain
// extractor's needle-based scan: CSV records embed the same "key=value"
// convention inside the message/detail fields, so there is no need for a
// second implementation of the same scan.
func Host(record []byte) ([]byte, bool)            { return plain.Host(record) }
func User(record []byte) ([]byte, bool)            { return plain.User(record) }
func Database(record []byte) ([]byte, bool)        { return plain.Database(record) }
func ApplicationName(record []byte) ([]byte, bool) { return plain.ApplicationName(record) }
func Duration(record []byte) (time.Duration, bool) { return plain.Duration(record) }
