package main

import (
	"io/ioutil"
	"os"

	"gopkg.in/check.v1"
)

type seqioSuite struct{}

var _ = check.Suite(&seqioSuite{})

func (s *seqioSuite) TestListInputFiles(c *check.C) {
	dir := c.MkDir()
	for _, name := range []string{"b.fa", "a.fa", ".hidden.fa"} {
		c.Assert(ioutil.WriteFile(dir+"/"+name, []byte(">x\nACGT\n"), 0644), check.IsNil)
	}
	c.Assert(os.Mkdir(dir+"/sub", 0755), check.IsNil)
	c.Assert(ioutil.WriteFile(dir+"/sub/c.fa", []byte(">x\nACGT\n"), 0644), check.IsNil)

	files, err := listInputFiles([]string{dir, "-", dir + "/sub/c.fa"})
	c.Assert(err, check.IsNil)
	c.Check(files, check.DeepEquals, []string{dir + "/a.fa", dir + "/b.fa", "-", dir + "/sub/c.fa"})

	_, err = listInputFiles([]string{dir + "/nonexistent"})
	c.Check(err, check.ErrorMatches, `.*/nonexistent: stat failed: .*`)
}

func (s *seqioSuite) TestReadWriteFragments(c *check.C) {
	dir := c.MkDir()
	for _, frags := range [][]fragment{
		{{ID: "r1", Seq: []byte("ACGT"), Qual: []byte("IIII")}, {ID: "r2", Seq: []byte("ggcc"), Qual: []byte("#I#I")}},
		{{ID: "chr1", Seq: []byte("ACGTNNACGT")}, {ID: "chr2", Seq: []byte("TTTT")}},
	} {
		for _, fnm := range []string{dir + "/out.fq", dir + "/out.fq.gz"} {
			c.Assert(writeFragments(fnm, frags), check.IsNil)
			got, err := readFragments(fnm)
			c.Assert(err, check.IsNil)
			c.Check(got, check.DeepEquals, frags, check.Commentf("%s", fnm))
		}
	}
}

func (s *seqioSuite) TestMultilineFasta(c *check.C) {
	fnm := c.MkDir() + "/ref.fa"
	c.Assert(ioutil.WriteFile(fnm, []byte(">chrM description\nACGT\nacgt\n\n>chr2\nNN\n"), 0644), check.IsNil)
	got, err := readFragments(fnm)
	c.Assert(err, check.IsNil)
	c.Check(got, check.DeepEquals, []fragment{
		{ID: "chrM", Seq: []byte("ACGTacgt")},
		{ID: "chr2", Seq: []byte("NN")},
	})
}

func (s *seqioSuite) TestSentinelText(c *check.C) {
	c.Check(string(sentinelText([]byte("acgTN"), '$')), check.Equals, "ACGTN$")
	c.Check(sentinelText([]byte{}, 0), check.DeepEquals, []byte{0})
}

func (s *seqioSuite) TestFastaAfterFastq(c *check.C) {
	dir := c.MkDir()
	c.Assert(ioutil.WriteFile(dir+"/reads.fq", []byte("@q\nACGTACGTAC\n+\nIIIIIIIIII\n"), 0644), check.IsNil)
	c.Assert(ioutil.WriteFile(dir+"/ref.fa", []byte(">f\nACG\n"), 0644), check.IsNil)
	reads, err := readFragments(dir + "/reads.fq")
	c.Assert(err, check.IsNil)
	c.Check(string(reads[0].Qual), check.Equals, "IIIIIIIIII")
	frags, err := readFragments(dir + "/ref.fa")
	c.Assert(err, check.IsNil)
	c.Check(frags, check.DeepEquals, []fragment{{ID: "f", Seq: []byte("ACG")}})

	c.Assert(writeFragments(dir+"/clean.fq", append(frags, reads...)), check.IsNil)
	out, err := ioutil.ReadFile(dir + "/clean.fq")
	c.Assert(err, check.IsNil)
	c.Check(string(out), check.Equals, ">f\nACG\n@q\nACGTACGTAC\n+\nIIIIIIIIII\n")
}
