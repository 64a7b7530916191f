package main

import (
	"bytes"
	"io/ioutil"

	"gopkg.in/check.v1"
)

type cmdSuite struct{}

var _ = check.Suite(&cmdSuite{})

func (s *cmdSuite) TestSubcommands(c *check.C) {
	for _, name := range []string{"classify", "search", "verify", "export-numpy", "build-docker-image", "version"} {
		c.Check(handler[name], check.NotNil, check.Commentf("%s", name))
	}
	_, ok := handler["build-docker-image"].(*buildDockerImage)
	c.Check(ok, check.Equals, true)
}

func (s *cmdSuite) TestBuildDockerImage(c *check.C) {
	fakeDocker := c.MkDir() + "/docker"
	c.Assert(ioutil.WriteFile(fakeDocker, []byte("#!/bin/sh\necho \"$1 $2\"\ncat \"$3/Dockerfile\"\n"), 0755), check.IsNil)
	var stdout, stderr bytes.Buffer
	exited := (&buildDockerImage{docker: fakeDocker}).RunCommand("build-docker-image", nil, &bytes.Buffer{}, &stdout, &stderr)
	c.Assert(exited, check.Equals, 0, check.Commentf("stderr %q", stderr.String()))
	c.Check(stdout.String(), check.Equals, "build --tag=readscreen-runtime\n"+runtimeDockerfile)
}

func (s *cmdSuite) TestBuildDockerImageFails(c *check.C) {
	var stderr bytes.Buffer
	exited := (&buildDockerImage{docker: c.MkDir() + "/nonexistent"}).RunCommand("build-docker-image", nil, &bytes.Buffer{}, &bytes.Buffer{}, &stderr)
	c.Check(exited, check.Equals, 1)
	c.Check(stderr.String(), check.Not(check.Equals), "")
}
