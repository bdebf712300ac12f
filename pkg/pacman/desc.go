// Package pacman reads the local pacman package database.
//
// The database is a directory with one subdirectory per installed package
// (named "<name>-<version>-<release>"), each holding a "desc" file. A desc
// file is a sequence of sections separated by blank lines; every section
// starts with a header line such as "%NAME%" followed by one value per line:
//
//	%NAME%
//	vim
//
//	%VERSION%
//	9.1.0-1
//
//	%DEPENDS%
//	glibc>=2.38
//	ncurses
//
// [ParseDesc] parses a single file and [Load] reads a whole database into
// [graph.Record] values ready for [graph.Build].
package pacman

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/matzehuels/pacview/pkg/errors"
)

// Desc is the parsed content of one desc file. Dependency names still carry
// their version constraints.
type Desc struct {
	Name        string
	Version     string
	Description string
	URL         string
	Explicit    bool
	Size        uint64
	Depends     []string
	OptDepends  []OptDepend
	Provides    []string
}

// OptDepend is an optional dependency with its optional reason text.
type OptDepend struct {
	Name   string
	Reason string
}

// reasonDependency is the only %REASON% value pacman writes; a missing
// section means the package was installed explicitly.
const reasonDependency = "1"

// ParseDesc parses the content of a desc file.
//
// Unknown sections are ignored. A section with a header but no value, a
// %REASON% other than "1", a non-numeric %SIZE%, or a missing %NAME% or
// %VERSION% fail with INVALID_FORMAT.
func ParseDesc(data []byte) (*Desc, error) {
	d := &Desc{Explicit: true}

	var (
		header string
		values []string
	)
	flush := func() error {
		if header == "" {
			return nil
		}
		defer func() { header, values = "", nil }()
		if len(values) == 0 {
			return errors.New(errors.ErrCodeInvalidFormat, "section %s has no value", header)
		}
		return d.apply(header, values)
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case line == "":
			if err := flush(); err != nil {
				return nil, err
			}
		case header == "":
			header = line
		default:
			values = append(values, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read desc")
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if d.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "missing %%NAME%%")
	}
	if d.Version == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "package %s: missing %%VERSION%%", d.Name)
	}
	return d, nil
}

func (d *Desc) apply(header string, values []string) error {
	switch header {
	case "%NAME%":
		d.Name = values[0]
	case "%VERSION%":
		d.Version = values[0]
	case "%DESC%":
		d.Description = values[0]
	case "%URL%":
		d.URL = values[0]
	case "%REASON%":
		if values[0] != reasonDependency {
			return errors.New(errors.ErrCodeInvalidFormat, "unexpected reason %q", values[0])
		}
		d.Explicit = false
	case "%SIZE%":
		size, err := strconv.ParseUint(values[0], 10, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse size %q", values[0])
		}
		d.Size = size
	case "%DEPENDS%":
		d.Depends = append(d.Depends, values...)
	case "%OPTDEPENDS%":
		for _, v := range values {
			d.OptDepends = append(d.OptDepends, parseOptDepend(v))
		}
	case "%PROVIDES%":
		d.Provides = append(d.Provides, values...)
	}
	return nil
}

// parseOptDepend splits "name: reason" lines.
func parseOptDepend(line string) OptDepend {
	name, reason, _ := strings.Cut(line, ": ")
	return OptDepend{Name: name, Reason: reason}
}

// StripConstraint removes a version constraint from a dependency or provides
// entry: "glibc>=2.38" becomes "glibc", "sh=5.2" becomes "sh".
func StripConstraint(dep string) string {
	if i := strings.IndexAny(dep, "<>="); i >= 0 {
		dep = dep[:i]
	}
	return strings.TrimSpace(dep)
}
