package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/exec"

	"git.arvados.org/arvados.git/lib/cmd"
)

var (
	handler = cmd.Multi(map[string]cmd.Handler{
		"version":   cmd.Version,
		"-version":  cmd.Version,
		"--version": cmd.Version,

		"classify":           &classifier{},
		"search":             &searcher{},
		"verify":             &verifier{},
		"export-numpy":       &exportNumpy{},
		"build-docker-image": &buildDockerImage{},
	})
)

func main() {
	os.Exit(handler.RunCommand(os.Args[0], os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// runtimeImage is the container image classify runs in when not
// running locally.
const runtimeImage = "readscreen-runtime"

// The readscreen binary itself is mounted from a collection; the
// image supplies CA certificates for Keep and tools for inspecting
// compressed FASTA/FASTQ inputs.
const runtimeDockerfile = `FROM debian:10
RUN apt-get update
RUN DEBIAN_FRONTEND=noninteractive apt-get install -y --no-install-recommends ca-certificates pigz xz-utils zstd seqtk
`

type buildDockerImage struct {
	// docker command, default "docker"
	docker string
}

func (cmd *buildDockerImage) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	tmpdir, err := ioutil.TempDir("", "")
	if err != nil {
		fmt.Fprint(stderr, err)
		return 1
	}
	defer os.RemoveAll(tmpdir)
	err = ioutil.WriteFile(tmpdir+"/Dockerfile", []byte(runtimeDockerfile), 0644)
	if err != nil {
		fmt.Fprint(stderr, err)
		return 1
	}
	dockerProg := cmd.docker
	if dockerProg == "" {
		dockerProg = "docker"
	}
	docker := exec.Command(dockerProg, "build", "--tag="+runtimeImage, tmpdir)
	docker.Stdout = stdout
	docker.Stderr = stderr
	err = docker.Run()
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	return 0
}
