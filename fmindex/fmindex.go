// Package fmindex implements an FM-index over a sentinel-terminated
// text: a Burrows-Wheeler transform with a checkpointed rank table, a
// first-column table, and a sampled suffix array for locating matches.
//
// An Index is immutable once built and may be queried concurrently.
package fmindex

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSentinel terminates texts passed to Build.
const DefaultSentinel = '$'

var (
	ErrValidation = errors.New("fmindex: invalid text")
	ErrConfig     = errors.New("fmindex: invalid configuration")
)

// Config controls the memory/latency tradeoffs of an Index.
type Config struct {
	// Every SampleRate'th text offset is kept in the sampled
	// suffix array. Locate walks at most SampleRate LF steps.
	SampleRate int
	// Rank counts are committed every CheckpointStride BWT
	// positions. A rank query scans at most CheckpointStride
	// BWT symbols.
	CheckpointStride int
	// Sentinel must occur exactly once, as the last symbol of the
	// text, and sort below every other symbol.
	Sentinel byte
}

// Index is an FM-index for one text.
type Index struct {
	n        int
	sentinel byte
	factor   int
	bwt      []byte
	alpha    alphabet
	occ      checkpoints
	sa       sampledSA
}

// Build returns an index of text, using factor as both the suffix
// array sample rate and the checkpoint stride.
func Build(text []byte, factor int) (*Index, error) {
	return Config{SampleRate: factor, CheckpointStride: factor, Sentinel: DefaultSentinel}.Build(text)
}

// Build returns an index of text. The text is not retained.
func (cfg Config) Build(text []byte) (*Index, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrConfig, cfg.SampleRate)
	}
	if cfg.CheckpointStride <= 0 {
		return nil, fmt.Errorf("%w: checkpoint stride %d", ErrConfig, cfg.CheckpointStride)
	}
	if err := validate(text, cfg.Sentinel); err != nil {
		return nil, err
	}
	sa := suffixArray(text)
	bwt := bwtFromSuffixArray(text, sa)
	alpha := newAlphabet(bwt)
	return &Index{
		n:        len(text),
		sentinel: cfg.Sentinel,
		factor:   cfg.SampleRate,
		bwt:      bwt,
		alpha:    alpha,
		occ:      newCheckpoints(bwt, &alpha, cfg.CheckpointStride),
		sa:       newSampledSA(sa, cfg.SampleRate),
	}, nil
}

func validate(text []byte, sentinel byte) error {
	if len(text) == 0 {
		return fmt.Errorf("%w: empty text", ErrValidation)
	}
	if len(text) > math.MaxInt32 {
		return fmt.Errorf("%w: text length %d exceeds %d", ErrValidation, len(text), math.MaxInt32)
	}
	if last := text[len(text)-1]; last != sentinel {
		return fmt.Errorf("%w: text ends with %q, not sentinel %q", ErrValidation, last, sentinel)
	}
	for i, c := range text[:len(text)-1] {
		if c == sentinel {
			return fmt.Errorf("%w: duplicate sentinel %q at offset %d", ErrValidation, sentinel, i)
		} else if c < sentinel {
			return fmt.Errorf("%w: symbol %q at offset %d sorts below sentinel %q", ErrValidation, c, i, sentinel)
		}
	}
	return nil
}

// Len returns the length of the indexed text, sentinel included.
func (x *Index) Len() int { return x.n }

func (x *Index) SampleRate() int { return x.factor }

func (x *Index) CheckpointStride() int { return x.occ.step }

func (x *Index) Sentinel() byte { return x.sentinel }

// BWT returns the Burrows-Wheeler transform of the text. The caller
// must not modify it.
func (x *Index) BWT() []byte { return x.bwt }

// Alphabet returns the distinct symbols of the text in sorted order.
func (x *Index) Alphabet() []byte {
	return append([]byte(nil), x.alpha.syms...)
}

// Range returns the half-open range of rows whose rotation starts
// with sym. ok is false if sym does not occur in the text.
func (x *Index) Range(sym byte) (lo, hi int, ok bool) {
	code := x.alpha.code[sym]
	if code < 0 {
		return 0, 0, false
	}
	return x.alpha.first[code], x.alpha.first[code+1], true
}
