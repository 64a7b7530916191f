package fmindex

import "math/bits"

// sampledSA keeps the suffix array entries whose text offset is a
// multiple of factor, keyed by row.
type sampledSA struct {
	marks   []uint64 // bit r%64 of marks[r/64] is set if row r is sampled
	before  []int32  // before[w] = sampled rows in marks[:w]
	offsets []int32  // text offsets of sampled rows, in row order
}

func newSampledSA(sa []int, factor int) sampledSA {
	words := (len(sa) + 63) / 64
	s := sampledSA{
		marks:   make([]uint64, words),
		before:  make([]int32, words),
		offsets: make([]int32, 0, (len(sa)+factor-1)/factor),
	}
	for row, off := range sa {
		if off%factor == 0 {
			s.marks[row/64] |= 1 << uint(row%64)
			s.offsets = append(s.offsets, int32(off))
		}
	}
	var total int32
	for w, m := range s.marks {
		s.before[w] = total
		total += int32(bits.OnesCount64(m))
	}
	return s
}

func (s *sampledSA) lookup(row int) (int, bool) {
	w, bit := row/64, uint64(1)<<uint(row%64)
	if s.marks[w]&bit == 0 {
		return 0, false
	}
	idx := int(s.before[w]) + bits.OnesCount64(s.marks[w]&(bit-1))
	return int(s.offsets[idx]), true
}

func (s *sampledSA) len() int { return len(s.offsets) }
