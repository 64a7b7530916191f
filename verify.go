package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"git.arvados.org/readscreen.git/fmindex"
	"git.arvados.org/readscreen.git/hgvs"
	log "github.com/sirupsen/logrus"
)

// verifier checks that each reference sequence can be recovered from
// its index.
type verifier struct {
	refs    stringList
	factor  int
	step    int
	timeout time.Duration
}

func (cmd *verifier) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Var(&cmd.refs, "ref", "reference fasta `file` or directory (may be repeated)")
	flags.IntVar(&cmd.factor, "factor", 10, "suffix array sample rate")
	flags.IntVar(&cmd.step, "step", 0, "rank checkpoint stride (default: same as -factor)")
	flags.DurationVar(&cmd.timeout, "timeout", 0, "diff timeout per sequence (examples: \"1s\", \"1ms\")")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	} else if len(cmd.refs) == 0 {
		err = errors.New("reference data (-ref) not specified")
		return 2
	}
	if cmd.step == 0 {
		cmd.step = cmd.factor
	}
	if cmd.factor <= 0 || cmd.step <= 0 {
		err = fmt.Errorf("%w: -factor and -step must be positive", fmindex.ErrConfig)
		return 2
	}
	lib := &refLibrary{config: fmindex.Config{
		SampleRate:       cmd.factor,
		CheckpointStride: cmd.step,
		Sentinel:         fmindex.DefaultSentinel,
	}}

	files, err := listInputFiles(cmd.refs)
	if err != nil {
		return 1
	}
	failed := 0
	for _, infile := range files {
		var frags []fragment
		frags, err = readFragments(infile)
		if err != nil {
			return 1
		}
		for _, frag := range frags {
			if !cmd.verify(stdout, lib, frag) {
				failed++
			}
		}
	}
	if failed > 0 {
		err = fmt.Errorf("%d sequences failed verification", failed)
		return 1
	}
	return 0
}

func (cmd *verifier) verify(stdout io.Writer, lib *refLibrary, frag fragment) bool {
	idx, err := lib.getIndex(frag.Seq)
	if err != nil {
		fmt.Fprintf(stdout, "%s\tFAIL\t%s\n", frag.ID, err)
		return false
	}
	want := sentinelText(frag.Seq, idx.Sentinel())
	got := idx.Reconstruct()
	if bytes.Equal(want, got) {
		fmt.Fprintf(stdout, "%s\tOK\t%s\n", frag.ID, describeIndex(idx))
		return true
	}
	variants, timedOut := hgvs.Diff(string(want), string(got), cmd.timeout)
	if timedOut {
		log.Warnf("%s: diff timed out, variants may not be minimal", frag.ID)
	}
	annos := make([]string, len(variants))
	for i, v := range variants {
		annos[i] = v.Annotate(frag.ID)
	}
	fmt.Fprintf(stdout, "%s\tFAIL\t%s\n", frag.ID, strings.Join(annos, ";"))
	return false
}
