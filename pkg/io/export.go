package io

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/matzehuels/pacview/pkg/graph"
)

// FormatVersion is the snapshot format written by [WriteJSON].
const FormatVersion = 1

// Snapshot is the serialized form of a package database.
type Snapshot struct {
	Version   int             `json:"version"`
	Source    string          `json:"source,omitempty"`
	Generator string          `json:"generator,omitempty"`
	Packages  []*graph.Record `json:"packages"`
}

// NewSnapshot collects records into a snapshot ordered by package name.
func NewSnapshot(source string, records map[string]*graph.Record) *Snapshot {
	s := &Snapshot{
		Version:  FormatVersion,
		Source:   source,
		Packages: slices.Collect(maps.Values(records)),
	}
	slices.SortFunc(s.Packages, func(a, b *graph.Record) int {
		return strings.Compare(a.Name, b.Name)
	})
	return s
}

// WriteJSON encodes a snapshot as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(s *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a snapshot to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(s *Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
