package main

import (
	"encoding/gob"
	"fmt"
	"io"
)

type Group int8

const (
	Unassigned Group = iota
	Desired
	Contaminated
)

func (g Group) String() string {
	switch g {
	case Desired:
		return "Desired"
	case Contaminated:
		return "Contaminated"
	default:
		return "Unassigned"
	}
}

type ReferenceInfo struct {
	Name   string
	File   string
	Role   string
	Length int // excluding sentinel
}

type ReadAssignment struct {
	ReadID      string
	Group       Group
	Reference   int // index into References, -1 if unassigned
	Occurrences int
	Offsets     []int // only if located
}

type ClassificationEntry struct {
	References  []ReferenceInfo
	Assignments []ReadAssignment
}

// ReadClassifications returns the references and assignments of all
// entries in the given gob streams. Each stream must come from a
// single encoder. Reference indexes in later entries are shifted so
// they remain valid in the concatenated reference list.
func ReadClassifications(rdrs ...io.Reader) ([]ReferenceInfo, []ReadAssignment, error) {
	var refs []ReferenceInfo
	var assignments []ReadAssignment
	for i, rdr := range rdrs {
		dec := gob.NewDecoder(rdr)
		for {
			var ent ClassificationEntry
			err := dec.Decode(&ent)
			if err == io.EOF {
				break
			} else if err != nil {
				return nil, nil, fmt.Errorf("stream %d: %w", i, err)
			}
			for _, a := range ent.Assignments {
				if a.Reference >= 0 {
					a.Reference += len(refs)
				}
				assignments = append(assignments, a)
			}
			refs = append(refs, ent.References...)
		}
	}
	return refs, assignments, nil
}
