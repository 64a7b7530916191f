package fmindex

import (
	"context"
	"fmt"
	"sort"
)

// lf maps row to the row of the rotation starting one symbol earlier
// in the text.
func (x *Index) lf(row int) int {
	sym := x.bwt[row]
	code := x.alpha.code[sym]
	return x.alpha.first[code] + x.occ.rank(x.bwt, sym, code, row)
}

// Search returns the rows whose rotation starts with pattern. The
// number of rows is the number of (possibly overlapping) occurrences
// of pattern in the text.
func (x *Index) Search(pattern []byte) []int {
	rows, _ := x.SearchContext(context.Background(), pattern)
	return rows
}

// SearchContext is like Search, but returns ctx.Err() if ctx is done
// before the whole pattern has been consumed.
//
// Each pattern symbol is matched against every candidate row
// individually, so the cost is proportional to len(pattern) times the
// number of candidate rows.
func (x *Index) SearchContext(ctx context.Context, pattern []byte) ([]int, error) {
	if len(pattern) == 0 {
		rows := make([]int, x.n)
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}
	lo, hi, ok := x.Range(pattern[len(pattern)-1])
	if !ok {
		return nil, nil
	}
	rows := make([]int, 0, hi-lo)
	for row := lo; row < hi; row++ {
		rows = append(rows, row)
	}
	next := make([]int, 0, len(rows))
	for i := len(pattern) - 2; i >= 0 && len(rows) > 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sym := pattern[i]
		code := x.alpha.code[sym]
		if code < 0 {
			return nil, nil
		}
		next = next[:0]
		for _, row := range rows {
			if x.bwt[row] == sym {
				next = append(next, x.alpha.first[code]+x.occ.rank(x.bwt, sym, code, row))
			}
		}
		rows, next = next, rows
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows, nil
}

// Count returns the number of occurrences of pattern in the text.
func (x *Index) Count(pattern []byte) int {
	return len(x.Search(pattern))
}

// Locate returns the sorted text offsets of the given rows.
func (x *Index) Locate(rows []int) []int {
	offsets := make([]int, len(rows))
	for i, row := range rows {
		offsets[i] = x.locate(row)
	}
	sort.Ints(offsets)
	return offsets
}

func (x *Index) locate(start int) int {
	row := start
	for steps := 0; ; steps++ {
		if off, ok := x.sa.lookup(row); ok {
			return (off + steps) % x.n
		}
		if steps >= x.factor {
			panic(fmt.Sprintf("fmindex: no sampled row within %d LF steps of row %d", x.factor, start))
		}
		row = x.lf(row)
	}
}

// Reconstruct returns the indexed text, recovered from the BWT.
func (x *Index) Reconstruct() []byte {
	text := make([]byte, x.n)
	text[x.n-1] = x.sentinel
	row := 0
	for i := x.n - 2; i >= 0; i-- {
		text[i] = x.bwt[row]
		row = x.lf(row)
	}
	return text
}

// Samples returns the number of retained suffix array entries.
func (x *Index) Samples() int { return x.sa.len() }
