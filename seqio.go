package main

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
)

func init() {
	// Symbols outside a reference's alphabet just fail to match, so
	// there is nothing to gain from rejecting them at parse time.
	seq.ValidateSeq = false
}

// A fragment is one FASTA or FASTQ record.
type fragment struct {
	ID   string
	Seq  []byte
	Qual []byte // nil for FASTA
}

func readFragments(filename string) ([]fragment, error) {
	rdr, err := fastx.NewReader(nil, filename, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	defer rdr.Close()
	var frags []fragment
	for {
		record, err := rdr.Read()
		if err == io.EOF {
			return frags, nil
		} else if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", filename, len(frags)+1, err)
		}
		frag := fragment{
			ID:  string(record.ID),
			Seq: append([]byte(nil), record.Seq.Seq...),
		}
		// record is reused across reads, and its Qual is only
		// reset when parsing FASTQ.
		if rdr.IsFastq {
			frag.Qual = append([]byte{}, record.Seq.Qual...)
		}
		frags = append(frags, frag)
	}
}

// listInputFiles expands each path that is a directory into the
// regular files it contains (not recursively, skipping dotfiles).
func listInputFiles(paths []string) (files []string, err error) {
	for _, path := range paths {
		if path == "-" {
			files = append(files, path)
			continue
		}
		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%s: stat failed: %s", path, err)
		} else if !fi.IsDir() {
			files = append(files, path)
			continue
		}
		d, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%s: open failed: %s", path, err)
		}
		names, err := d.Readdirnames(0)
		d.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: readdir failed: %s", path, err)
		}
		sort.Strings(names)
		for _, name := range names {
			if strings.HasPrefix(name, ".") {
				continue
			}
			if fi, err := os.Stat(filepath.Join(path, name)); err == nil && fi.Mode().IsRegular() {
				files = append(files, filepath.Join(path, name))
			}
		}
	}
	return
}

// writeFragments writes frags to filename as FASTQ, or as FASTA if a
// fragment has no qualities. A ".gz" suffix selects gzip output.
func writeFragments(filename string, frags []fragment) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	defer f.Close()
	var out io.Writer = f
	var zw *gzip.Writer
	if strings.HasSuffix(filename, ".gz") {
		zw = gzip.NewWriter(f)
		out = zw
	}
	bufw := bufio.NewWriter(out)
	for _, frag := range frags {
		if frag.Qual == nil {
			fmt.Fprintf(bufw, ">%s\n%s\n", frag.ID, frag.Seq)
		} else {
			fmt.Fprintf(bufw, "@%s\n%s\n+\n%s\n", frag.ID, frag.Seq, frag.Qual)
		}
	}
	if err = bufw.Flush(); err != nil {
		return err
	}
	if zw != nil {
		if err = zw.Close(); err != nil {
			return err
		}
	}
	return f.Close()
}

// sentinelText returns the upper-cased sequence with sentinel
// appended, ready for indexing.
func sentinelText(sequence []byte, sentinel byte) []byte {
	return append(bytes.ToUpper(sequence), sentinel)
}
