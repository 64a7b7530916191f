package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/kshedden/gonpy"
	"gopkg.in/check.v1"
)

type exportSuite struct{}

var _ = check.Suite(&exportSuite{})

func (s *exportSuite) TestClassificationToNumpy(c *check.C) {
	files := writeTestFiles(c)
	var buffer bytes.Buffer
	exited := (&classifier{}).RunCommand("classify", []string{
		"-local=true",
		"-des-ref", files.desired,
		"-cont-ref", files.contaminant,
		"-query", files.reads,
		"-o", "-",
	}, &bytes.Buffer{}, &buffer, os.Stderr)
	c.Assert(exited, check.Equals, 0)

	var output bytes.Buffer
	exited = (&exportNumpy{}).RunCommand("export-numpy", nil, &buffer, &output, os.Stderr)
	c.Assert(exited, check.Equals, 0)
	npy, err := gonpy.NewReader(&output)
	c.Assert(err, check.IsNil)
	c.Check(npy.Shape, check.DeepEquals, []int{5, 3})
	rows, err := npy.GetInt32()
	c.Assert(err, check.IsNil)
	c.Check(rows, check.DeepEquals, []int32{
		1, 0, 1,
		1, 1, 1,
		2, 2, 1,
		0, -1, 0,
		0, -1, 0,
	})
}

func (s *exportSuite) TestFiles(c *check.C) {
	dir := c.MkDir()
	f, err := os.Create(dir + "/in.gob")
	c.Assert(err, check.IsNil)
	err = (&classifier{outputFile: "-"}).writeGob(f, ClassificationEntry{
		References:  []ReferenceInfo{{Name: "a"}},
		Assignments: []ReadAssignment{{ReadID: "r1", Group: Contaminated, Reference: 0, Occurrences: 7}},
	})
	c.Assert(err, check.IsNil)
	c.Assert(f.Close(), check.IsNil)

	exited := (&exportNumpy{}).RunCommand("export-numpy", []string{"-i", dir + "/in.gob", "-o", dir + "/out.npy"}, &bytes.Buffer{}, &bytes.Buffer{}, os.Stderr)
	c.Assert(exited, check.Equals, 0)
	out, err := os.Open(dir + "/out.npy")
	c.Assert(err, check.IsNil)
	defer out.Close()
	npy, err := gonpy.NewReader(out)
	c.Assert(err, check.IsNil)
	rows, err := npy.GetInt32()
	c.Assert(err, check.IsNil)
	c.Check(rows, check.DeepEquals, []int32{2, 0, 7})
}

func (s *exportSuite) TestBadInput(c *check.C) {
	var stderr bytes.Buffer
	exited := (&exportNumpy{}).RunCommand("export-numpy", nil, bytes.NewBufferString("not a gob"), &bytes.Buffer{}, &stderr)
	c.Check(exited, check.Equals, 1)
	c.Check(stderr.Len() > 0, check.Equals, true)
}

func (s *exportSuite) TestMultipleInputs(c *check.C) {
	dir := c.MkDir()
	for i, ent := range []ClassificationEntry{
		{
			References:  []ReferenceInfo{{Name: "a"}},
			Assignments: []ReadAssignment{{ReadID: "r1", Group: Desired, Reference: 0, Occurrences: 1}},
		},
		{
			References:  []ReferenceInfo{{Name: "b"}, {Name: "c"}},
			Assignments: []ReadAssignment{{ReadID: "r2", Group: Contaminated, Reference: 1, Occurrences: 4}},
		},
	} {
		c.Assert((&classifier{outputFile: fmt.Sprintf("%s/%d.gob", dir, i)}).writeGob(nil, ent), check.IsNil)
	}
	var output bytes.Buffer
	exited := (&exportNumpy{}).RunCommand("export-numpy", []string{"-i", dir + "/0.gob", "-i", dir + "/1.gob"}, &bytes.Buffer{}, &output, os.Stderr)
	c.Assert(exited, check.Equals, 0)
	npy, err := gonpy.NewReader(&output)
	c.Assert(err, check.IsNil)
	c.Check(npy.Shape, check.DeepEquals, []int{2, 3})
	rows, err := npy.GetInt32()
	c.Assert(err, check.IsNil)
	c.Check(rows, check.DeepEquals, []int32{1, 0, 1, 2, 2, 4})
}
