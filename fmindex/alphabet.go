package fmindex

// alphabet maps the symbols of one text to dense codes and holds the
// first-column table.
type alphabet struct {
	code  [256]int16 // -1 if the symbol does not occur
	syms  []byte     // sorted; syms[code] is the symbol with that code
	first []int      // rows [first[c], first[c+1]) start with syms[c]
}

func newAlphabet(bwt []byte) alphabet {
	var counts [256]int
	for _, c := range bwt {
		counts[c]++
	}
	var a alphabet
	a.first = append(a.first, 0)
	for sym, count := range counts {
		if count == 0 {
			a.code[sym] = -1
			continue
		}
		a.code[sym] = int16(len(a.syms))
		a.syms = append(a.syms, byte(sym))
		a.first = append(a.first, a.first[len(a.first)-1]+count)
	}
	return a
}

func (a *alphabet) size() int { return len(a.syms) }
