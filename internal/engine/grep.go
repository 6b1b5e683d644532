package engine

import (
	"fmt"
	"io"

	"github.com/kmoppel/pgweasel/internal/filter"
	"github.com/kmoppel/pgweasel/internal/format"
	"github.com/kmoppel/pgweasel/internal/record"
)

// GrepOptions configures RunGrep.
type GrepOptions struct {
	Format format.Format
	Chain  *filter.Chain
	Before int // number of preceding records to print (-B)
	After  int // number of following records to print (-A)
}

// RunGrep scans filename single-threaded and prints every record matching
// opts.Chain, each surrounded by its requested context window, in file
// order. Parallel scanning cannot preserve whole-file order or let a
// record's context window cross a worker's byte-range boundary, so context
// mode always runs this sequential path (spec §9).
func RunGrep(filename string, opts GrepOptions, w io.Writer) error {
	data, release, err := mapFile(filename)
	if err != nil {
		return err
	}
	defer release()

	if len(data) == 0 {
		return nil
	}

	var all [][]byte
	record.Iterate(data, record.Range{Start: 0, End: int64(len(data))}, func(rec []byte) {
		cp := make([]byte, len(rec))
		copy(cp, rec)
		all = append(all, cp)
	})

	printed := make([]bool, len(all))
	lastPrinted := -1
	for i, rec := range all {
		if opts.Chain != nil && !opts.Chain.Matches(rec, opts.Format) {
			continue
		}
		start := i - opts.Before
		if start < 0 {
			start = 0
		}
		end := i + opts.After
		if end >= len(all) {
			end = len(all) - 1
		}
		for j := start; j <= end; j++ {
			if printed[j] {
				continue
			}
			if lastPrinted >= 0 && j > lastPrinted+1 {
				fmt.Fprintln(w, "--")
			}
			fmt.Fprintln(w, string(all[j]))
			printed[j] = true
			lastPrinted = j
		}
	}
	return nil
}
