package io

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/pacview/pkg/errors"
	"github.com/matzehuels/pacview/pkg/graph"
)

func sampleRecords() map[string]*graph.Record {
	return map[string]*graph.Record{
		"glibc": {Name: "glibc", Version: "2.40-1", Size: 50000},
		"bash": {
			Name: "bash", Version: "5.2-1", Size: 9000, Explicit: true,
			Description: "The GNU Bourne Again shell", URL: "https://www.gnu.org/software/bash/",
			Depends: []string{"glibc", "readline"}, Optional: []string{"bash-completion"}, Provides: []string{"sh"},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(NewSnapshot("/var/lib/pacman/local", sampleRecords()), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	s, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if s.Version != FormatVersion || s.Source != "/var/lib/pacman/local" {
		t.Errorf("header = %d %q", s.Version, s.Source)
	}
	if got := graph.Names(s.Packages); !slices.Equal(got, []string{"bash", "glibc"}) {
		t.Errorf("packages = %v, want name order", got)
	}

	recs := s.Records()
	bash := recs["bash"]
	if bash == nil || !bash.Explicit || bash.Size != 9000 {
		t.Fatalf("bash = %+v", bash)
	}
	if !slices.Equal(bash.Depends, []string{"glibc", "readline"}) || !slices.Equal(bash.Provides, []string{"sh"}) {
		t.Errorf("bash lists = %v %v", bash.Depends, bash.Provides)
	}
	if _, err := graph.Build(recs); err != nil {
		t.Errorf("Build(imported) = %v", err)
	}
}

func TestWriteJSONDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := WriteJSON(NewSnapshot("", sampleRecords()), &a); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(NewSnapshot("", sampleRecords()), &b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two exports of the same records differ")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed", `{"packages": [`, errors.ErrCodeInvalidFormat},
		{"future version", `{"version": 99, "packages": []}`, errors.ErrCodeInvalidFormat},
		{"empty name", `{"packages": [{"name": ""}]}`, errors.ErrCodeInvalidPackage},
		{"name with slash", `{"packages": [{"name": "a/b"}]}`, errors.ErrCodeInvalidPackage},
		{"null package", `{"packages": [null]}`, errors.ErrCodeInvalidInput},
		{"duplicate", `{"packages": [{"name": "a"}, {"name": "a"}]}`, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.json")
	if err := ExportJSON(NewSnapshot("test", sampleRecords()), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("exported file missing or empty: %v", err)
	}

	s, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(s.Packages) != 2 {
		t.Errorf("len(Packages) = %d, want 2", len(s.Packages))
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON() error = %v, want FILE_NOT_FOUND", err)
	}
}
