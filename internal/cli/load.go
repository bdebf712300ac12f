package cli

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pacview/pkg/buildinfo"
	"github.com/matzehuels/pacview/pkg/cache"
	"github.com/matzehuels/pacview/pkg/config"
	"github.com/matzehuels/pacview/pkg/graph"
	pkgio "github.com/matzehuels/pacview/pkg/io"
	"github.com/matzehuels/pacview/pkg/observability"
	"github.com/matzehuels/pacview/pkg/pacman"
)

// =============================================================================
// Package Sources
// =============================================================================

// source is where a command reads its packages from.
type source struct {
	// snapshot is a JSON snapshot path; empty means the pacman database.
	snapshot string
	cfg      config.Config
}

func (s source) String() string {
	if s.snapshot != "" {
		return s.snapshot
	}
	return s.cfg.Database.Path
}

// sourceFor resolves the configuration of cmd and where its packages come
// from.
func (c *CLI) sourceFor(cmd *cobra.Command) (source, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return source{}, err
	}
	from, _ := cmd.Flags().GetString(flagFrom)
	return source{snapshot: from, cfg: cfg}, nil
}

// loadRecords reads every package record from src. Database reads go
// through the snapshot cache when it is enabled; cached reports whether the
// records came from it.
func (c *CLI) loadRecords(ctx context.Context, src source) (records map[string]*graph.Record, cached bool, err error) {
	if src.snapshot != "" {
		records, err := loadSnapshotFile(ctx, src.snapshot)
		return records, false, err
	}

	store, err := newCache(src.cfg.Cache)
	if err != nil {
		return nil, false, err
	}
	defer store.Close()
	return c.loadDatabase(ctx, src.cfg, store)
}

func loadSnapshotFile(ctx context.Context, path string) (map[string]*graph.Record, error) {
	start := time.Now()
	observability.Load().OnLoadStart(ctx, path)

	s, err := pkgio.ImportJSON(path)
	var records map[string]*graph.Record
	if err == nil {
		records = s.Records()
	}
	observability.Load().OnLoadComplete(ctx, path, len(records), time.Since(start), err)
	return records, err
}

// loadDatabase reads the pacman database, answering from store when the
// database is unchanged since the entry was written.
func (c *CLI) loadDatabase(ctx context.Context, cfg config.Config, store cache.Cache) (map[string]*graph.Record, bool, error) {
	dir := cfg.Database.Path
	opts := pacman.Options{
		IncludeOptional: cfg.Database.IncludeOptional,
		Workers:         cfg.Database.Workers,
		Logger:          c.Logger,
	}

	fingerprint, err := pacman.Fingerprint(dir)
	if err != nil {
		// Let Load report the real problem with the directory.
		c.Logger.Debug("fingerprint failed, skipping cache", "dir", dir, "err", err)
		records, err := pacman.Load(ctx, dir, opts)
		return records, false, err
	}
	key := cache.SnapshotKey(dir, fingerprint, opts.IncludeOptional)

	if data, ok, err := store.Get(ctx, key); err != nil {
		c.Logger.Debug("cache read failed", "err", err)
	} else if ok {
		s, err := pkgio.ReadJSON(bytes.NewReader(data))
		if err == nil {
			return s.Records(), true, nil
		}
		c.Logger.Debug("discarding unreadable cache entry", "err", err)
	}

	records, err := pacman.Load(ctx, dir, opts)
	if err != nil {
		return nil, false, err
	}

	snap := pkgio.NewSnapshot(dir, records)
	snap.Generator = buildinfo.UserAgent()
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(snap, &buf); err != nil {
		return nil, false, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := store.Set(ctx, key, buf.Bytes(), cfg.Cache.TTL); err != nil {
		c.Logger.Warn("could not cache package database", "err", err)
	}
	return records, false, nil
}

// loadGraph reads src and builds the dependency graph.
func (c *CLI) loadGraph(ctx context.Context, src source) (*graph.Graph, bool, error) {
	prog := newProgress(loggerFromContext(ctx))

	records, cached, err := c.loadRecords(ctx, src)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	g, err := graph.Build(records)
	if err != nil {
		return nil, false, err
	}
	observability.Load().OnBuildComplete(ctx, g.Len(), g.EdgeCount(), time.Since(start))

	prog.done(fmt.Sprintf("Loaded %d packages from %s", g.Len(), src))
	return g, cached, nil
}

// =============================================================================
// Cache
// =============================================================================

// newCache opens the snapshot cache described by cfg. A disabled cache, or
// one whose directory cannot be determined, is a NullCache.
func newCache(cfg config.CacheConfig) (cache.Cache, error) {
	if !cfg.Enabled {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory, defaulting to the XDG
// cache location.
func cacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return config.CacheDir()
}
