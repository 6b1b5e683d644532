// Package record identifies record boundaries in byte-addressable PostgreSQL
// log data and partitions byte ranges for parallel scanning.
//
// A record is the contiguous byte span [start, end) beginning at a line
// whose first bytes match the fixed timestamp shape "YYYY-MM-DD HH:MM:SS"
// and running up to the next such line or the end of the file. All other
// lines in between are continuation lines (DETAIL, HINT, STATEMENT, ...)
// belonging to the same record.
package record

import "bytes"

// minPrefixLen is the number of bytes the shape check inspects: the 19-byte
// "YYYY-MM-DD HH:MM:SS" stamp plus the following separator byte.
const minPrefixLen = 20

// IsRecordStart reports whether line begins with the fixed timestamp shape.
// It never interprets the timestamp value, only its shape: positions 0-3,
// 5-6, 8-9, 11-12, 14-15 and 17-18 are digits, 4 and 7 are '-', 10 is
// space, 13 and 16 are ':', and 19 is '.' or space.
func IsRecordStart(line []byte) bool {
	if len(line) < minPrefixLen {
		return false
	}
	if !isDigit(line[0]) || !isDigit(line[1]) || !isDigit(line[2]) || !isDigit(line[3]) {
		return false
	}
	if line[4] != '-' {
		return false
	}
	if !isDigit(line[5]) || !isDigit(line[6]) {
		return false
	}
	if line[7] != '-' {
		return false
	}
	if !isDigit(line[8]) || !isDigit(line[9]) {
		return false
	}
	if line[10] != ' ' {
		return false
	}
	if !isDigit(line[11]) || !isDigit(line[12]) {
		return false
	}
	if line[13] != ':' {
		return false
	}
	if !isDigit(line[14]) || !isDigit(line[15]) {
		return false
	}
	if line[16] != ':' {
		return false
	}
	if !isDigit(line[17]) || !isDigit(line[18]) {
		return false
	}
	return line[19] == '.' || line[19] == ' '
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Range is a byte span [Start, End) of a file to be scanned by one worker.
// Both bounds fall on record boundaries (or file start/end), so scanning a
// Range in isolation never splits a record across two ranges.
type Range struct {
	Start int64
	End   int64
}

// PartitionFile divides a file of the given size into at most `workers`
// ranges, each boundary-adjusted forward to the next record start so every
// range holds a whole number of records and the ranges exactly tile the
// file. The data slice must be the full mapped file content; its length is
// the file size and its bytes are used to find boundaries.
//
// Empty input or input with no recognizable record start yields a single
// range spanning the whole file (the caller's scan over it will simply
// produce zero records, per spec: "not an error").
func PartitionFile(data []byte, workers int) []Range {
	size := int64(len(data))
	if size == 0 {
		return []Range{{Start: 0, End: 0}}
	}
	if workers < 1 {
		workers = 1
	}
	if int64(workers) > size {
		workers = int(size)
	}

	chunk := (size + int64(workers) - 1) / int64(workers)

	ranges := make([]Range, 0, workers)
	start := int64(0)
	for start < size {
		end := start + chunk
		if end >= size {
			end = size
		} else {
			end = advanceToRecordStart(data, end)
		}
		ranges = append(ranges, Range{Start: start, End: end})
		start = end
	}
	return ranges
}

// advanceToRecordStart moves `pos` forward to the first newline at or after
// pos such that the following line satisfies IsRecordStart, so the chunk
// boundary falls exactly before a record. If no such boundary exists before
// the end of the data, the whole remainder belongs to the current chunk.
func advanceToRecordStart(data []byte, pos int64) int64 {
	size := int64(len(data))
	for pos < size {
		nl := bytes.IndexByte(data[pos:], '\n')
		if nl < 0 {
			return size
		}
		lineStart := pos + int64(nl) + 1
		if lineStart >= size {
			return size
		}
		if IsRecordStart(data[lineStart:]) {
			return lineStart
		}
		pos = lineStart
	}
	return size
}

// Iterate walks data[rng.Start:rng.End] line by line and invokes fn with the
// byte slice of each complete record found entirely within the range.
// Multi-line records (continuation lines) are included verbatim, bytes
// unchanged, exactly as they appear on disk. Bytes that do not follow a
// record-start line (leading lines without the timestamp shape) are not
// passed to fn.
func Iterate(data []byte, rng Range, fn func(rec []byte)) {
	seg := data[rng.Start:rng.End]
	if len(seg) == 0 {
		return
	}

	recStart := 0
	offset := 0
	for offset < len(seg) {
		nl := bytes.IndexByte(seg[offset:], '\n')
		if nl < 0 {
			break
		}
		lineStart := offset + nl + 1
		if lineStart < len(seg) && IsRecordStart(seg[lineStart:]) && lineStart != 0 {
			if lineStart > recStart && IsRecordStart(seg[recStart:]) {
				fn(seg[recStart:lineStart])
			}
			recStart = lineStart
		}
		offset = lineStart
	}

	if recStart < len(seg) && IsRecordStart(seg[recStart:]) {
		fn(seg[recStart:])
	}
}
