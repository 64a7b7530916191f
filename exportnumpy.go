package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/kshedden/gonpy"
	log "github.com/sirupsen/logrus"
)

const exportColumns = 3

type exportNumpy struct{}

// RunCommand writes one row per classified read: group (0 =
// unassigned, 1 = desired, 2 = contaminated), reference index (-1 if
// none), and occurrence count.
func (cmd *exportNumpy) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(stderr, "%s\n", err)
		}
	}()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.SetOutput(stderr)
	pprof := flags.String("pprof", "", "serve Go profile data at http://`[addr]:port`")
	var inputFilenames stringList
	flags.Var(&inputFilenames, "i", "input classification gob `file` (may be repeated, default stdin)")
	outputFilename := flags.String("o", "-", "output `file`")
	err = flags.Parse(args)
	if err == flag.ErrHelp {
		err = nil
		return 0
	} else if err != nil {
		return 2
	}

	if *pprof != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof, nil))
		}()
	}

	if len(inputFilenames) == 0 {
		inputFilenames = stringList{"-"}
	}
	var inputs []io.Reader
	for _, fnm := range inputFilenames {
		if fnm == "-" {
			inputs = append(inputs, bufio.NewReader(stdin))
			continue
		}
		var f *os.File
		f, err = os.Open(fnm)
		if err != nil {
			return 1
		}
		defer f.Close()
		inputs = append(inputs, bufio.NewReader(f))
	}
	refs, assignments, err := ReadClassifications(inputs...)
	if err != nil {
		return 1
	}
	log.Printf("read %d assignments against %d references", len(assignments), len(refs))

	out := make([]int32, 0, len(assignments)*exportColumns)
	for _, a := range assignments {
		out = append(out, int32(a.Group), int32(a.Reference), int32(a.Occurrences))
	}

	var output io.WriteCloser
	if *outputFilename == "-" {
		output = nopCloser{stdout}
	} else {
		output, err = os.OpenFile(*outputFilename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0666)
		if err != nil {
			return 1
		}
		defer output.Close()
	}
	bufw := bufio.NewWriter(output)
	npw, err := gonpy.NewWriter(nopCloser{bufw})
	if err != nil {
		return 1
	}
	npw.Shape = []int{len(assignments), exportColumns}
	err = npw.WriteInt32(out)
	if err != nil {
		return 1
	}
	err = bufw.Flush()
	if err != nil {
		return 1
	}
	err = output.Close()
	if err != nil {
		return 1
	}
	return 0
}
