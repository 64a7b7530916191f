package main

import (
	"context"
	"io/ioutil"

	"git.arvados.org/readscreen.git/fmindex"
	"gopkg.in/check.v1"
)

type reflibSuite struct{}

var _ = check.Suite(&reflibSuite{})

func (s *reflibSuite) TestLoad(c *check.C) {
	dir := c.MkDir()
	c.Assert(ioutil.WriteFile(dir+"/a.fa", []byte(`>one
ACGTTGCA
>empty
>two
acgttgca
>bad
ACG$TGCA
>three
GGGGCCCC
`), 0644), check.IsNil)
	lib := &refLibrary{config: fmindex.Config{SampleRate: 2, CheckpointStride: 3, Sentinel: '$'}}
	refs, err := lib.Load(desiredRole, []string{dir + "/a.fa"})
	c.Assert(err, check.IsNil)
	var names []string
	for _, ref := range refs {
		names = append(names, ref.Name)
		c.Check(ref.Role, check.Equals, desiredRole)
		c.Check(ref.index, check.NotNil)
	}
	c.Check(names, check.DeepEquals, []string{"one", "two", "three"})
	// "one" and "two" differ only in case
	c.Check(lib.Len(), check.Equals, 2)
	c.Check(refs[0].index, check.Equals, refs[1].index)
	c.Check(refs[0].index.SampleRate(), check.Equals, 2)
	c.Check(refs[0].index.CheckpointStride(), check.Equals, 3)

	count, offsets, err := refs[0].Occurrences(context.Background(), []byte("TG"), true)
	c.Check(err, check.IsNil)
	c.Check(count, check.Equals, 1)
	c.Check(offsets, check.DeepEquals, []int{4})

	count, offsets, err = refs[2].Occurrences(context.Background(), []byte("GC"), false)
	c.Check(err, check.IsNil)
	c.Check(count, check.Equals, 1)
	c.Check(offsets, check.IsNil)
}

func (s *reflibSuite) TestLoadReferences(c *check.C) {
	dir := c.MkDir()
	c.Assert(ioutil.WriteFile(dir+"/bad.fa", []byte(">bad\nAC#GT\n"), 0644), check.IsNil)
	lib := &refLibrary{config: fmindex.Config{SampleRate: 4, CheckpointStride: 4, Sentinel: '$'}}
	_, _, err := loadReferences(lib, []string{dir + "/bad.fa"}, nil)
	c.Check(err, check.ErrorMatches, `no usable reference sequences`)

	_, _, err = loadReferences(lib, []string{dir + "/missing.fa"}, nil)
	c.Check(err, check.ErrorMatches, `.*stat failed.*`)
}

func (s *reflibSuite) TestDescribeIndex(c *check.C) {
	idx, err := fmindex.Build([]byte("ABAABAB$"), 3)
	c.Assert(err, check.IsNil)
	c.Check(describeIndex(idx), check.Equals, `8 symbols, alphabet "$AB", 3 sampled offsets`)
}
