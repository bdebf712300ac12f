package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pacview/pkg/errors"
	"github.com/matzehuels/pacview/pkg/graph"
)

// ReadJSON decodes a snapshot from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed (INVALID_FORMAT)
//   - The snapshot was written by a newer format version (INVALID_FORMAT)
//   - A package name is invalid (INVALID_PACKAGE)
//   - A package appears twice (INVALID_INPUT)
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	if s.Version > FormatVersion {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "snapshot version %d is newer than supported version %d", s.Version, FormatVersion)
	}

	seen := make(map[string]bool, len(s.Packages))
	for i, p := range s.Packages {
		if p == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "package %d is null", i)
		}
		if err := errors.ValidatePackageName(p.Name); err != nil {
			return nil, fmt.Errorf("package %d: %w", i, err)
		}
		if seen[p.Name] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "package %s appears twice", p.Name)
		}
		seen[p.Name] = true
	}
	return &s, nil
}

// ImportJSON reads a JSON snapshot file at path.
//
// A missing file fails with FILE_NOT_FOUND; otherwise ImportJSON returns the
// same errors as [ReadJSON].
func ImportJSON(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// Records returns the snapshot's packages keyed by name, ready for
// [graph.Build].
func (s *Snapshot) Records() map[string]*graph.Record {
	out := make(map[string]*graph.Record, len(s.Packages))
	for _, p := range s.Packages {
		out[p.Name] = p
	}
	return out
}
