package pacman

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pacview/pkg/errors"
	"github.com/matzehuels/pacview/pkg/graph"
	"github.com/matzehuels/pacview/pkg/observability"
)

// DefaultDBPath is where pacman keeps the local package database.
const DefaultDBPath = "/var/lib/pacman/local"

// descFile is the per-package metadata file inside each package directory.
const descFile = "desc"

// Options configures [Load].
type Options struct {
	// IncludeOptional counts optional dependencies as dependency edges.
	IncludeOptional bool
	// Workers bounds concurrent desc reads. Zero uses GOMAXPROCS.
	Workers int
	// Logger receives debug output. Nil discards.
	Logger *log.Logger
}

// Load reads every package of the database at dir.
//
// Files at the top level of dir (such as ALPM_DB_VERSION) are skipped. A
// package directory without a desc file, or a desc file that fails to parse,
// aborts the whole load. The returned map is keyed by package name and can be
// passed to [graph.Build] directly.
func Load(ctx context.Context, dir string, opts Options) (map[string]*graph.Record, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	start := time.Now()
	observability.Load().OnLoadStart(ctx, dir)

	records, err := load(ctx, dir, opts, logger)
	observability.Load().OnLoadComplete(ctx, dir, len(records), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	logger.Debug("read package database", "dir", dir, "packages", len(records), "elapsed", time.Since(start))
	return records, nil
}

func load(ctx context.Context, dir string, opts Options, logger *log.Logger) (map[string]*graph.Record, error) {
	pkgDirs, err := packageDirs(dir)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	descs := make([]*Desc, len(pkgDirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range pkgDirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, name, descFile)
			d, err := readDesc(path)
			if err != nil {
				return err
			}
			descs[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return resolve(descs, opts.IncludeOptional, logger)
}

// packageDirs lists the subdirectories of dir in name order.
func packageDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "package database %s", dir)
		}
		return nil, fmt.Errorf("read package database: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func readDesc(path string) (*Desc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	d, err := ParseDesc(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	return d, nil
}

// resolve turns parsed descs into records: constraints are stripped, names
// only satisfied through %PROVIDES% are mapped to the providing package, and
// optional dependencies are folded in when requested.
func resolve(descs []*Desc, includeOptional bool, logger *log.Logger) (map[string]*graph.Record, error) {
	records := make(map[string]*graph.Record, len(descs))
	for _, d := range descs {
		if _, dup := records[d.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "package %s is installed twice", d.Name)
		}
		records[d.Name] = &graph.Record{
			Name:        d.Name,
			Version:     d.Version,
			Description: d.Description,
			URL:         d.URL,
			Size:        d.Size,
			Explicit:    d.Explicit,
		}
	}

	// descs are in directory order, so the first provider by directory name
	// wins when several packages provide the same name.
	providers := make(map[string]string)
	for _, d := range descs {
		for _, p := range d.Provides {
			p = StripConstraint(p)
			if _, installed := records[p]; installed || p == "" {
				continue
			}
			if _, taken := providers[p]; !taken {
				providers[p] = d.Name
			}
		}
	}

	lookup := func(dep string) string {
		name := StripConstraint(dep)
		if _, ok := records[name]; ok {
			return name
		}
		if p, ok := providers[name]; ok {
			return p
		}
		return name
	}

	for _, d := range descs {
		r := records[d.Name]
		for _, dep := range d.Depends {
			r.Depends = appendUnique(r.Depends, lookup(dep))
		}
		for _, opt := range d.OptDepends {
			name := lookup(opt.Name)
			r.Optional = appendUnique(r.Optional, name)
			if includeOptional {
				r.Depends = appendUnique(r.Depends, name)
			}
		}
		for _, p := range d.Provides {
			r.Provides = appendUnique(r.Provides, StripConstraint(p))
		}
	}
	logger.Debug("resolved dependencies", "packages", len(records), "virtual", len(providers))
	return records, nil
}

func appendUnique(list []string, name string) []string {
	if name == "" || slices.Contains(list, name) {
		return list
	}
	return append(list, name)
}

// Fingerprint summarises the database state at dir: the package directory
// names and the modification time of their desc files. Any install, removal,
// upgrade or reason change alters it.
func Fingerprint(dir string) (string, error) {
	pkgDirs, err := packageDirs(dir)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	for _, name := range pkgDirs {
		var mod int64
		info, err := os.Stat(filepath.Join(dir, name, descFile))
		switch {
		case err == nil:
			mod = info.ModTime().UnixNano()
		case !os.IsNotExist(err):
			return "", fmt.Errorf("stat %s: %w", name, err)
		}
		fmt.Fprintf(h, "%s\x00%d\n", name, mod)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
