package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"git.arvados.org/readscreen.git/fmindex"
)

type searcher struct {
	refs   stringList
	factor int
	step   int
}

func (cmd *searcher) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
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
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	} else if len(cmd.refs) == 0 {
		err = errors.New("reference data (-ref) not specified")
		return 2
	} else if flags.NArg() == 0 {
		err = fmt.Errorf("usage: %s [options] pattern [pattern ...]", prog)
		return 2
	}
	if cmd.step == 0 {
		cmd.step = cmd.factor
	}
	if cmd.factor <= 0 || cmd.step <= 0 {
		err = fmt.Errorf("%w: -factor and -step must be positive", fmindex.ErrConfig)
		return 2
	}

	files, err := listInputFiles(cmd.refs)
	if err != nil {
		return 1
	}
	lib := &refLibrary{config: fmindex.Config{
		SampleRate:       cmd.factor,
		CheckpointStride: cmd.step,
		Sentinel:         fmindex.DefaultSentinel,
	}}
	refs, err := lib.Load("search", files)
	if err != nil {
		return 1
	}

	bufw := bufio.NewWriter(stdout)
	for _, pattern := range flags.Args() {
		query := bytes.ToUpper([]byte(pattern))
		for _, ref := range refs {
			rows := ref.index.Search(query)
			if len(rows) == 0 {
				continue
			}
			offsets := ref.index.Locate(rows)
			strs := make([]string, len(offsets))
			for i, off := range offsets {
				strs[i] = fmt.Sprint(off)
			}
			fmt.Fprintf(bufw, "%s\t%s\t%d\t%s\n", ref.Name, pattern, len(rows), strings.Join(strs, ","))
		}
	}
	err = bufw.Flush()
	if err != nil {
		return 1
	}
	return 0
}
