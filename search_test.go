package main

import (
	"bytes"
	"io/ioutil"
	"os"

	"gopkg.in/check.v1"
)

type searchSuite struct{}

var _ = check.Suite(&searchSuite{})

func (s *searchSuite) TestSearch(c *check.C) {
	fnm := c.MkDir() + "/ref.fa"
	c.Assert(ioutil.WriteFile(fnm, []byte(">abc\nabaabab\n>other\nBBBB\n"), 0644), check.IsNil)
	var stdout bytes.Buffer
	exited := (&searcher{}).RunCommand("search", []string{"-ref", fnm, "-factor", "3", "aba", "xyz", "bb"}, &bytes.Buffer{}, &stdout, os.Stderr)
	c.Assert(exited, check.Equals, 0)
	c.Check(stdout.String(), check.Equals, "abc\taba\t2\t0,3\nother\tbb\t3\t0,1,2\n")
}

func (s *searchSuite) TestUsage(c *check.C) {
	fnm := c.MkDir() + "/ref.fa"
	c.Assert(ioutil.WriteFile(fnm, []byte(">abc\nabaabab\n"), 0644), check.IsNil)
	for _, args := range [][]string{
		{"aba"},
		{"-ref", fnm},
		{"-ref", fnm, "-factor", "0", "aba"},
	} {
		exited := (&searcher{}).RunCommand("search", args, &bytes.Buffer{}, &bytes.Buffer{}, &bytes.Buffer{})
		c.Check(exited, check.Equals, 2, check.Commentf("%q", args))
	}
}
