// Package hgvs describes the differences between two sequences as
// HGVS-style variants.
package hgvs

import (
	"fmt"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Variant replaces Ref with New at 1-based Position.
type Variant struct {
	Position int
	Ref      string
	New      string
}

func (v Variant) String() string {
	end := v.Position + len(v.Ref) - 1
	switch {
	case len(v.Ref) == 0:
		return fmt.Sprintf("%d_%dins%s", v.Position-1, v.Position, v.New)
	case len(v.New) == 0 && len(v.Ref) == 1:
		return fmt.Sprintf("%ddel", v.Position)
	case len(v.New) == 0:
		return fmt.Sprintf("%d_%ddel", v.Position, end)
	case len(v.Ref) == 1 && len(v.New) == 1:
		return fmt.Sprintf("%d%s>%s", v.Position, v.Ref, v.New)
	case len(v.Ref) == 1:
		return fmt.Sprintf("%ddelins%s", v.Position, v.New)
	default:
		return fmt.Sprintf("%d_%ddelins%s", v.Position, end, v.New)
	}
}

// Annotate returns v in genomic HGVS notation on the named sequence,
// e.g. "chr2:g.1008C>G".
func (v Variant) Annotate(seqname string) string {
	return seqname + ":g." + v.String()
}

// Diff returns the variants that turn a into b. If timeout is
// positive and expires, the result may be less than minimal and
// timedOut is true.
func Diff(a, b string, timeout time.Duration) (variants []Variant, timedOut bool) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	dmp := diffmatchpatch.New()
	diffs := merge(dmp.DiffCleanupEfficiency(dmp.DiffBisect(a, b, deadline)))
	timedOut = !deadline.IsZero() && time.Now().After(deadline)

	pos := 1
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		if d.Type == diffmatchpatch.DiffEqual {
			pos += len(d.Text)
			continue
		}
		v := Variant{Position: pos}
		if d.Type == diffmatchpatch.DiffDelete {
			v.Ref = d.Text
		} else {
			v.New = d.Text
		}
		// a delete adjacent to an insert is a single delins
		if i+1 < len(diffs) && diffs[i+1].Type != diffmatchpatch.DiffEqual && diffs[i+1].Type != d.Type {
			i++
			if diffs[i].Type == diffmatchpatch.DiffDelete {
				v.Ref = diffs[i].Text
			} else {
				v.New = diffs[i].Text
			}
		}
		pos += len(v.Ref)
		variants = append(variants, v)
	}
	return
}

// merge joins consecutive diffs of the same type.
func merge(in []diffmatchpatch.Diff) []diffmatchpatch.Diff {
	var out []diffmatchpatch.Diff
	for _, d := range in {
		if n := len(out); n > 0 && out[n-1].Type == d.Type {
			out[n-1].Text += d.Text
		} else {
			out = append(out, d)
		}
	}
	return out
}
