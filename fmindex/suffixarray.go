package fmindex

import "sort"

// rankKey orders a suffix by the ranks of its first k and next k
// symbols. next is -1 past the end of the text.
type rankKey struct {
	rank, next int
}

func (a rankKey) less(b rankKey) bool {
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	return a.next < b.next
}

// suffixArray returns the suffix array of text by prefix doubling,
// in O(n log² n).
func suffixArray(text []byte) []int {
	n := len(text)
	if n == 0 {
		return nil
	}
	keys := make([]rankKey, n)
	for i, c := range text {
		keys[i] = rankKey{int(c), 0}
	}
	rank := make([]int, n)
	order := make([]int, n)
	maxRank := densify(keys, rank, order)
	for k := 1; maxRank < n-1; k <<= 1 {
		for i := range keys {
			next := -1
			if i+k < n {
				next = rank[i+k]
			}
			keys[i] = rankKey{rank[i], next}
		}
		maxRank = densify(keys, rank, order)
	}
	sa := order
	for i, r := range rank {
		sa[r] = i
	}
	return sa
}

// densify sets rank[i] to the position of keys[i] among the distinct
// keys, and returns the largest rank assigned.
func densify(keys []rankKey, rank, order []int) int {
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return keys[order[a]].less(keys[order[b]])
	})
	r := 0
	for i, idx := range order {
		if i > 0 && keys[order[i-1]] != keys[idx] {
			r++
		}
		rank[idx] = r
	}
	return r
}

func bwtFromSuffixArray(text []byte, sa []int) []byte {
	n := len(text)
	bwt := make([]byte, n)
	for i, off := range sa {
		bwt[i] = text[(off+n-1)%n]
	}
	return bwt
}
