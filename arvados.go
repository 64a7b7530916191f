package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"regexp"
	"time"

	"git.arvados.org/arvados.git/sdk/go/arvados"
	"git.arvados.org/arvados.git/sdk/go/arvadosclient"
	"git.arvados.org/arvados.git/sdk/go/keepclient"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

type arvadosContainerRunner struct {
	Client      *arvados.Client
	Name        string
	ProjectUUID string
	VCPUs       int
	RAM         int64
	Args        []string
	Mounts      map[string]map[string]interface{}
	Priority    int
}

var (
	collectionInPathRe = regexp.MustCompile(`^(.*/)?([0-9a-f]{32}\+[0-9]+|[0-9a-z]{5}-[0-9a-z]{5}-[0-9a-z]{15})(/.*)?$`)
)

// Run submits a container request, waits for it to finish, and
// returns the UUID of the output collection.
func (runner *arvadosContainerRunner) Run() (string, error) {
	if runner.ProjectUUID == "" {
		return "", errors.New("cannot run arvados container: ProjectUUID not provided")
	}

	mounts := map[string]map[string]interface{}{
		"/mnt/output": {
			"kind":     "tmp",
			"writable": true,
			"capacity": 100000000000,
		},
	}
	for path, mnt := range runner.Mounts {
		mounts[path] = mnt
	}

	cmdUUID, err := runner.makeCommandCollection()
	if err != nil {
		return "", err
	}
	mounts["/mnt/cmd"] = map[string]interface{}{
		"kind": "collection",
		"uuid": cmdUUID,
	}
	command := append([]string{"/mnt/cmd/readscreen"}, runner.Args...)

	rc := arvados.RuntimeConstraints{
		VCPUs:        runner.VCPUs,
		RAM:          runner.RAM,
		KeepCacheRAM: (1 << 26) * 2 * int64(runner.VCPUs),
	}
	var cr arvados.ContainerRequest
	err = runner.Client.RequestAndDecode(&cr, "POST", "arvados/v1/container_requests", nil, map[string]interface{}{
		"container_request": map[string]interface{}{
			"owner_uuid":          runner.ProjectUUID,
			"name":                runner.Name,
			"container_image":     runtimeImage,
			"command":             command,
			"mounts":              mounts,
			"use_existing":        true,
			"output_path":         "/mnt/output",
			"runtime_constraints": rc,
			"priority":            runner.Priority,
			"state":               arvados.ContainerRequestStateCommitted,
		},
	})
	if err != nil {
		return "", err
	}
	log.Printf("container request UUID: %s", cr.UUID)

	var logged arvados.ContainerState
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for cr.State != arvados.ContainerRequestStateFinal {
		<-ticker.C
		err = runner.Client.RequestAndDecode(&cr, "GET", "arvados/v1/container_requests/"+cr.UUID, nil, nil)
		if err != nil {
			log.Printf("error while polling container request: %s", err)
			continue
		}
		if cr.ContainerUUID == "" {
			continue
		}
		var ctr arvados.Container
		err = runner.Client.RequestAndDecode(&ctr, "GET", "arvados/v1/containers/"+cr.ContainerUUID, nil, nil)
		if err != nil {
			log.Printf("error while polling container: %s", err)
			continue
		}
		if ctr.State != logged {
			log.Printf("container state: %s", ctr.State)
			logged = ctr.State
		}
		if ctr.State == arvados.ContainerStateComplete && ctr.ExitCode != 0 {
			return "", fmt.Errorf("container %s exited %d", ctr.UUID, ctr.ExitCode)
		}
	}
	if cr.OutputUUID == "" {
		return "", fmt.Errorf("container request %s finished without output", cr.UUID)
	}
	return cr.OutputUUID, nil
}

// TranslatePaths rewrites each path that refers to a collection
// (by portable data hash or UUID) to a path under the collection's
// mount point, and adds the mount.
func (runner *arvadosContainerRunner) TranslatePaths(paths ...*string) error {
	if runner.Mounts == nil {
		runner.Mounts = make(map[string]map[string]interface{})
	}
	for _, path := range paths {
		if *path == "" || *path == "-" {
			continue
		}
		m := collectionInPathRe.FindStringSubmatch(*path)
		if m == nil {
			return fmt.Errorf("cannot find uuid in path: %q", *path)
		}
		uuid := m[2]
		mnt := "/mnt/" + uuid
		if _, ok := runner.Mounts[mnt]; !ok {
			mount := map[string]interface{}{"kind": "collection"}
			if len(uuid) == 27 {
				mount["uuid"] = uuid
			} else {
				mount["portable_data_hash"] = uuid
			}
			runner.Mounts[mnt] = mount
		}
		*path = mnt + m[3]
	}
	return nil
}

func (runner *arvadosContainerRunner) makeCommandCollection() (string, error) {
	exe, err := ioutil.ReadFile("/proc/self/exe")
	if err != nil {
		return "", err
	}
	b2 := blake2b.Sum256(exe)
	cname := fmt.Sprintf("readscreen-%x", b2)
	var existing arvados.CollectionList
	err = runner.Client.RequestAndDecode(&existing, "GET", "arvados/v1/collections", nil, arvados.ListOptions{
		Limit: 1,
		Count: "none",
		Filters: []arvados.Filter{
			{Attr: "name", Operator: "=", Operand: cname},
			{Attr: "owner_uuid", Operator: "=", Operand: runner.ProjectUUID},
		},
	})
	if err != nil {
		return "", err
	}
	if len(existing.Items) > 0 {
		uuid := existing.Items[0].UUID
		log.Printf("using existing collection %q named %q (did not verify whether content matches)", uuid, cname)
		return uuid, nil
	}
	log.Printf("writing readscreen binary to new collection %q", cname)
	ac, err := arvadosclient.New(runner.Client)
	if err != nil {
		return "", err
	}
	kc := keepclient.New(ac)
	var coll arvados.Collection
	fs, err := coll.FileSystem(runner.Client, kc)
	if err != nil {
		return "", err
	}
	f, err := fs.OpenFile("readscreen", os.O_CREATE|os.O_WRONLY, 0777)
	if err != nil {
		return "", err
	}
	_, err = f.Write(exe)
	if err != nil {
		return "", err
	}
	err = f.Close()
	if err != nil {
		return "", err
	}
	mtxt, err := fs.MarshalManifest(".")
	if err != nil {
		return "", err
	}
	err = runner.Client.RequestAndDecode(&coll, "POST", "arvados/v1/collections", nil, map[string]interface{}{
		"collection": map[string]interface{}{
			"owner_uuid":    runner.ProjectUUID,
			"manifest_text": mtxt,
			"name":          cname,
		},
	})
	if err != nil {
		return "", err
	}
	log.Printf("collection: %#v", coll)
	return coll.UUID, nil
}
