package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"git.arvados.org/arvados.git/sdk/go/arvados"
	"git.arvados.org/readscreen.git/fmindex"
	log "github.com/sirupsen/logrus"
)

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

type classifier struct {
	desiredRefs     stringList
	contaminantRefs stringList
	queryPath       string
	factor          int
	step            int
	outputFile      string
	cleanFile       string
	locate          bool
	timeout         time.Duration
	runLocal        bool
	projectUUID     string
}

func (cmd *classifier) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Var(&cmd.desiredRefs, "des-ref", "desired reference fasta `file` or directory (may be repeated)")
	flags.Var(&cmd.contaminantRefs, "cont-ref", "contaminant reference fasta `file` or directory (may be repeated)")
	flags.StringVar(&cmd.queryPath, "query", "", "query fastq `file` or directory")
	flags.IntVar(&cmd.factor, "factor", 10, "suffix array sample rate")
	flags.IntVar(&cmd.step, "step", 0, "rank checkpoint stride (default: same as -factor)")
	flags.StringVar(&cmd.outputFile, "o", "", "write classification gob to `file` (\"-\" for stdout)")
	flags.StringVar(&cmd.cleanFile, "clean-output", "", "write desired and unassigned reads to fastq `file`")
	flags.BoolVar(&cmd.locate, "locate", false, "record match offsets in output")
	flags.DurationVar(&cmd.timeout, "timeout", 0, "give up after `duration` (0 = no limit)")
	flags.BoolVar(&cmd.runLocal, "local", false, "run on local host (default: run in an arvados container)")
	flags.StringVar(&cmd.projectUUID, "project", "", "project `UUID` for containers and output data")
	priority := flags.Int("priority", 500, "container request priority")
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	} else if cmd.queryPath == "" {
		err = errors.New("query reads (-query) not specified")
		return 2
	} else if len(cmd.desiredRefs)+len(cmd.contaminantRefs) == 0 {
		err = errors.New("no references (-des-ref, -cont-ref) specified")
		return 2
	}
	if cmd.step == 0 {
		cmd.step = cmd.factor
	}
	if cmd.factor <= 0 || cmd.step <= 0 {
		err = fmt.Errorf("%w: -factor and -step must be positive", fmindex.ErrConfig)
		return 2
	}

	if *pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}

	if !cmd.runLocal {
		if cmd.outputFile != "" || cmd.cleanFile != "" {
			err = errors.New("cannot specify output file in container mode: not implemented")
			return 2
		}
		runner := arvadosContainerRunner{
			Name:        "readscreen classify",
			Client:      arvados.NewClientFromEnv(),
			ProjectUUID: cmd.projectUUID,
			RAM:         16000000000,
			VCPUs:       8,
			Priority:    *priority,
		}
		err = runner.TranslatePaths(&cmd.queryPath)
		if err != nil {
			return 1
		}
		for _, refs := range []stringList{cmd.desiredRefs, cmd.contaminantRefs} {
			for i := range refs {
				err = runner.TranslatePaths(&refs[i])
				if err != nil {
					return 1
				}
			}
		}
		runner.Args = []string{"classify", "-local=true",
			"-query", cmd.queryPath,
			"-factor", fmt.Sprint(cmd.factor),
			"-step", fmt.Sprint(cmd.step),
			fmt.Sprintf("-locate=%v", cmd.locate),
			"-o", "/mnt/output/classification.gob",
			"-clean-output", "/mnt/output/clean.fastq",
		}
		for _, ref := range cmd.desiredRefs {
			runner.Args = append(runner.Args, "-des-ref", ref)
		}
		for _, ref := range cmd.contaminantRefs {
			runner.Args = append(runner.Args, "-cont-ref", ref)
		}
		var output string
		output, err = runner.Run()
		if err != nil {
			return 1
		}
		fmt.Fprintln(stdout, output+"/classification.gob")
		return 0
	}

	report := stdout
	if cmd.outputFile == "-" {
		report = stderr
	}

	lib := &refLibrary{config: fmindex.Config{
		SampleRate:       cmd.factor,
		CheckpointStride: cmd.step,
		Sentinel:         fmindex.DefaultSentinel,
	}}
	desired, contaminant, err := loadReferences(lib, cmd.desiredRefs, cmd.contaminantRefs)
	if err != nil {
		return 1
	}

	queryFiles, err := listInputFiles([]string{cmd.queryPath})
	if err != nil {
		return 1
	}
	var reads []fragment
	for _, infile := range queryFiles {
		var frags []fragment
		frags, err = readFragments(infile)
		if err != nil {
			return 1
		}
		reads = append(reads, frags...)
	}
	log.Printf("read %d query sequences from %d files", len(reads), len(queryFiles))

	ctx := context.Background()
	if cmd.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.timeout)
		defer cancel()
	}
	s := screen{
		desired:     matchers(desired),
		contaminant: matchers(contaminant),
		locate:      cmd.locate,
	}
	assignments, err := s.Classify(ctx, reads)
	if err != nil {
		return 1
	}
	writeReport(report, assignments)

	if cmd.outputFile != "" {
		err = cmd.writeGob(stdout, ClassificationEntry{
			References:  referenceInfos(desired, contaminant),
			Assignments: assignments,
		})
		if err != nil {
			return 1
		}
	}
	if cmd.cleanFile != "" {
		var clean []fragment
		for i, a := range assignments {
			if a.Group != Contaminated {
				clean = append(clean, reads[i])
			}
		}
		err = writeFragments(cmd.cleanFile, clean)
		if err != nil {
			return 1
		}
		log.Printf("wrote %d reads to %s", len(clean), cmd.cleanFile)
	}
	return 0
}

func (cmd *classifier) writeGob(stdout io.Writer, ent ClassificationEntry) error {
	var output io.WriteCloser
	if cmd.outputFile == "-" {
		output = nopCloser{stdout}
	} else {
		f, err := os.OpenFile(cmd.outputFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}
	bufw := bufio.NewWriter(output)
	err := gob.NewEncoder(bufw).Encode(ent)
	if err != nil {
		return err
	}
	if err = bufw.Flush(); err != nil {
		return err
	}
	return output.Close()
}

func writeReport(w io.Writer, assignments []ReadAssignment) {
	var counts [3]int
	for _, a := range assignments {
		counts[a.Group]++
	}
	for _, g := range []Group{Contaminated, Desired, Unassigned} {
		pct := 0.0
		if len(assignments) > 0 {
			pct = 100 * float64(counts[g]) / float64(len(assignments))
		}
		fmt.Fprintf(w, "%s: %.2f%%\n", g, pct)
	}
}

// screen assigns each read to the first group with a reference the
// read occurs in: desired references are checked before contaminant
// references, and the first reference with a match wins.
type screen struct {
	desired     []matcher
	contaminant []matcher
	locate      bool
}

// Classify returns one assignment per read, in the same order.
func (s *screen) Classify(ctx context.Context, reads []fragment) ([]ReadAssignment, error) {
	starttime := time.Now()
	assignments := make([]ReadAssignment, len(reads))
	todo := make(chan int, len(reads))
	for i := range reads {
		todo <- i
	}
	close(todo)
	errs := make(chan error, 1)
	var done int64
	var wg sync.WaitGroup
	for w := 0; w < runtime.NumCPU(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range todo {
				if len(errs) > 0 {
					return
				}
				a, err := s.assign(ctx, reads[i])
				if err != nil {
					select {
					case errs <- err:
					default:
					}
					return
				}
				assignments[i] = a
				if n := atomic.AddInt64(&done, 1); n%100000 == 0 {
					ttl := time.Since(starttime) * time.Duration(int64(len(reads))-n) / time.Duration(n)
					log.Printf("progress %d/%d, eta %v (%v)", n, len(reads), time.Now().Add(ttl), ttl)
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	if err := <-errs; err != nil {
		return nil, err
	}
	log.Printf("classified %d reads in %v", len(reads), time.Since(starttime))
	return assignments, nil
}

func (s *screen) assign(ctx context.Context, read fragment) (ReadAssignment, error) {
	a := ReadAssignment{ReadID: read.ID, Group: Unassigned, Reference: -1}
	if len(read.Seq) == 0 {
		return a, nil
	}
	query := bytes.ToUpper(read.Seq)
	for _, try := range []struct {
		group Group
		refs  []matcher
		base  int
	}{
		{Desired, s.desired, 0},
		{Contaminated, s.contaminant, len(s.desired)},
	} {
		for i, m := range try.refs {
			count, offsets, err := m.Occurrences(ctx, query, s.locate)
			if err != nil {
				return a, fmt.Errorf("read %s: %w", read.ID, err)
			}
			if count > 0 {
				a.Group = try.group
				a.Reference = try.base + i
				a.Occurrences = count
				a.Offsets = offsets
				return a, nil
			}
		}
	}
	return a, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
