package fmindex

import "sort"

// checkpoints samples rank(c, i) at every step'th BWT position.
//
// The committed positions are shared by all symbols. counts holds one
// block of len(pos) entries per symbol code, so the counts for code c
// at pos[k] live at counts[c*len(pos)+k].
type checkpoints struct {
	step   int
	pos    []int
	counts []int32
}

func newCheckpoints(bwt []byte, alpha *alphabet, step int) checkpoints {
	ncommit := len(bwt)/step + 1
	cp := checkpoints{
		step:   step,
		pos:    make([]int, 0, ncommit),
		counts: make([]int32, alpha.size()*ncommit),
	}
	working := make([]int32, alpha.size())
	commit := func() {
		k := len(cp.pos)
		for c, count := range working {
			cp.counts[c*ncommit+k] = count
		}
	}
	for i, sym := range bwt {
		if i%step == 0 {
			commit()
			cp.pos = append(cp.pos, i)
		}
		working[alpha.code[sym]]++
	}
	if len(cp.pos) < ncommit {
		commit()
		cp.pos = append(cp.pos, len(bwt))
	}
	return cp
}

// nearest returns the index of the committed position closest to i.
func (cp *checkpoints) nearest(i int) int {
	k := sort.SearchInts(cp.pos, i)
	if k == len(cp.pos) || (k > 0 && i-cp.pos[k-1] < cp.pos[k]-i) {
		k--
	}
	return k
}

// rank returns the number of occurrences of sym (whose code is code)
// in bwt[:i].
func (cp *checkpoints) rank(bwt []byte, sym byte, code int16, i int) int {
	k := cp.nearest(i)
	r := int(cp.counts[int(code)*len(cp.pos)+k])
	p := cp.pos[k]
	for ; p < i; p++ {
		if bwt[p] == sym {
			r++
		}
	}
	for ; p > i; p-- {
		if bwt[p-1] == sym {
			r--
		}
	}
	return r
}
