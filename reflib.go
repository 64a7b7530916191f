package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"git.arvados.org/readscreen.git/fmindex"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

const (
	desiredRole     = "desired"
	contaminantRole = "contaminant"
)

// A matcher finds exact occurrences of a read in one reference
// sequence.
type matcher interface {
	Occurrences(ctx context.Context, read []byte, locate bool) (count int, offsets []int, err error)
}

type reference struct {
	ReferenceInfo
	index *fmindex.Index
}

func (ref *reference) Occurrences(ctx context.Context, read []byte, locate bool) (int, []int, error) {
	rows, err := ref.index.SearchContext(ctx, read)
	if err != nil || len(rows) == 0 || !locate {
		return len(rows), nil, err
	}
	return len(rows), ref.index.Locate(rows), nil
}

// refLibrary builds FM indexes for reference fragments. Fragments
// with identical sequences share one index.
type refLibrary struct {
	config fmindex.Config

	mtx   sync.Mutex
	cache map[[blake2b.Size256]byte]*fmindex.Index
}

func (lib *refLibrary) Len() int {
	lib.mtx.Lock()
	defer lib.mtx.Unlock()
	return len(lib.cache)
}

// getIndex returns an index of the given sequence, building it if it
// is not already in the library.
func (lib *refLibrary) getIndex(sequence []byte) (*fmindex.Index, error) {
	text := sentinelText(sequence, lib.config.Sentinel)
	key := blake2b.Sum256(text)
	lib.mtx.Lock()
	idx, ok := lib.cache[key]
	lib.mtx.Unlock()
	if ok {
		return idx, nil
	}
	idx, err := lib.config.Build(text)
	if err != nil {
		return nil, err
	}
	lib.mtx.Lock()
	defer lib.mtx.Unlock()
	if existing, ok := lib.cache[key]; ok {
		return existing, nil
	}
	if lib.cache == nil {
		lib.cache = map[[blake2b.Size256]byte]*fmindex.Index{}
	}
	lib.cache[key] = idx
	return idx, nil
}

// Load indexes every fragment of the given files. Fragments that
// cannot be indexed are logged and skipped.
func (lib *refLibrary) Load(role string, files []string) ([]*reference, error) {
	var refs []*reference
	var seqs [][]byte
	for _, infile := range files {
		frags, err := readFragments(infile)
		if err != nil {
			return nil, err
		}
		for _, frag := range frags {
			if len(frag.Seq) == 0 {
				log.Warnf("%s: %s: skipping empty %s reference", infile, frag.ID, role)
				continue
			}
			refs = append(refs, &reference{ReferenceInfo: ReferenceInfo{
				Name:   frag.ID,
				File:   infile,
				Role:   role,
				Length: len(frag.Seq),
			}})
			seqs = append(seqs, frag.Seq)
		}
	}

	starttime := time.Now()
	errs := make([]error, len(refs))
	todo := make(chan int, len(refs))
	for i := range refs {
		todo <- i
	}
	close(todo)
	var wg sync.WaitGroup
	for w := 0; w < runtime.NumCPU(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range todo {
				refs[i].index, errs[i] = lib.getIndex(seqs[i])
				seqs[i] = nil
			}
		}()
	}
	wg.Wait()

	var ok []*reference
	for i, ref := range refs {
		if errs[i] != nil {
			log.Warnf("%s: %s: skipping %s reference: %s", ref.File, ref.Name, role, errs[i])
			continue
		}
		ok = append(ok, ref)
	}
	log.Printf("indexed %d/%d %s reference sequences in %v", len(ok), len(refs), role, time.Since(starttime))
	return ok, nil
}

func loadReferences(lib *refLibrary, desiredPaths, contaminantPaths []string) (desired, contaminant []*reference, err error) {
	desFiles, err := listInputFiles(desiredPaths)
	if err != nil {
		return
	}
	contFiles, err := listInputFiles(contaminantPaths)
	if err != nil {
		return
	}
	if desired, err = lib.Load(desiredRole, desFiles); err != nil {
		return
	}
	if contaminant, err = lib.Load(contaminantRole, contFiles); err != nil {
		return
	}
	if len(desired)+len(contaminant) == 0 {
		err = errors.New("no usable reference sequences")
	} else {
		log.Printf("%d distinct indexes for %d desired and %d contaminant sequences", lib.Len(), len(desired), len(contaminant))
	}
	return
}

func referenceInfos(groups ...[]*reference) []ReferenceInfo {
	var infos []ReferenceInfo
	for _, refs := range groups {
		for _, ref := range refs {
			infos = append(infos, ref.ReferenceInfo)
		}
	}
	return infos
}

func matchers(refs []*reference) []matcher {
	ms := make([]matcher, len(refs))
	for i, ref := range refs {
		ms[i] = ref
	}
	return ms
}

func describeIndex(idx *fmindex.Index) string {
	return fmt.Sprintf("%d symbols, alphabet %q, %d sampled offsets", idx.Len(), idx.Alphabet(), idx.Samples())
}
