package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pacview/pkg/cache"
	"github.com/matzehuels/pacview/pkg/config"
	"github.com/matzehuels/pacview/pkg/errors"
	pkgio "github.com/matzehuels/pacview/pkg/io"
)

var testDescs = map[string]string{
	"vim-9.1-1": `%NAME%
vim

%VERSION%
9.1-1

%DESC%
Vi Improved

%URL%
https://www.vim.org

%SIZE%
4800000

%DEPENDS%
glibc
ncurses>=6
`,
	"ncurses-6.5-1": `%NAME%
ncurses

%VERSION%
6.5-1

%REASON%
1

%SIZE%
3000000

%DEPENDS%
glibc
`,
	"glibc-2.40-1": `%NAME%
glibc

%VERSION%
2.40-1

%REASON%
1

%SIZE%
50000000
`,
}

// isolate keeps config and cache lookups inside a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv(config.EnvConfig, "")
	return dir
}

func writeTestDB(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "local")
	for name, desc := range testDescs {
		pkgDir := filepath.Join(dir, name)
		if err := os.MkdirAll(pkgDir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(pkgDir, "desc"), []byte(desc), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// execute runs the root command with args and returns what it printed to
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	runErr := root.ExecuteContext(context.Background())

	w.Close()
	return <-done, runErr
}

func TestConfigCommandFlags(t *testing.T) {
	isolate(t)

	out, err := execute(t, "config", "--sort", "size", "--all", "--no-cache", "--db", "/mnt/local")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{`sort = "size"`, "explicit_only = false", "enabled = false", `path = "/mnt/local"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCommandEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PACVIEW_UI_PAGE_SIZE", "25")

	out, err := execute(t, "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, "page_size = 25") {
		t.Errorf("config output ignores environment:\n%s", out)
	}
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "pacview.toml")

	if _, err := execute(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := config.Load(path); err != nil {
		t.Errorf("written config does not load: %v", err)
	}

	_, err := execute(t, "config", "init", "--config", path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second init error = %v, want INVALID_INPUT", err)
	}
	if _, err := execute(t, "config", "init", "--config", path, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestInfoCommand(t *testing.T) {
	isolate(t)
	db := writeTestDB(t)

	out, err := execute(t, "info", "ncurses", "--db", db, "--no-cache")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"ncurses", "6.5-1", "dependency", "3.0 MB", "glibc", "vim"} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoUnknownPackage(t *testing.T) {
	isolate(t)
	db := writeTestDB(t)

	_, err := execute(t, "info", "emacs", "--db", db, "--no-cache")
	if !errors.Is(err, errors.ErrCodePackageNotFound) {
		t.Errorf("info unknown error = %v, want PACKAGE_NOT_FOUND", err)
	}
}

func TestMissingDatabase(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "info", "vim", "--db", filepath.Join(dir, "nope"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing db error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestExportAndBrowseFrom(t *testing.T) {
	dir := isolate(t)
	db := writeTestDB(t)
	snap := filepath.Join(dir, "packages.json")

	if _, err := execute(t, "export", "--db", db, "--no-cache", "-o", snap); err != nil {
		t.Fatalf("export: %v", err)
	}

	s, err := pkgio.ImportJSON(snap)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(s.Packages) != 3 {
		t.Errorf("snapshot has %d packages, want 3", len(s.Packages))
	}
	if !strings.HasPrefix(s.Generator, "pacview/") {
		t.Errorf("Generator = %q", s.Generator)
	}

	out, err := execute(t, "info", "vim", "--from", snap)
	if err != nil {
		t.Fatalf("info --from: %v", err)
	}
	if !strings.Contains(out, "Vi Improved") {
		t.Errorf("info --from output:\n%s", out)
	}
}

func TestGraphCommand(t *testing.T) {
	isolate(t)
	db := writeTestDB(t)

	out, err := execute(t, "graph", "vim", "--db", db, "--no-cache", "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	for _, want := range []string{"digraph G", `"vim" -> "glibc"`, `"vim" -> "ncurses"`} {
		if !strings.Contains(out, want) {
			t.Errorf("graph output missing %q:\n%s", want, out)
		}
	}

	_, err = execute(t, "graph", "vim", "--db", db, "-f", "png")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("graph -f png error = %v, want INVALID_INPUT", err)
	}
}

func TestCachePath(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if want := filepath.Join(dir, "cache", appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestLoadDatabaseCache(t *testing.T) {
	isolate(t)
	db := writeTestDB(t)

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := New(io.Discard, log.InfoLevel)
	cfg := config.Defaults()
	cfg.Database.Path = db

	first, cached, err := c.loadDatabase(context.Background(), cfg, store)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if cached {
		t.Error("first load reported a cache hit")
	}

	second, cached, err := c.loadDatabase(context.Background(), cfg, store)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if !cached {
		t.Error("second load missed the cache")
	}
	if len(first) != len(second) || second["vim"].Description != "Vi Improved" {
		t.Errorf("cached records differ: %d vs %d", len(first), len(second))
	}

	// Clearing the cache forces a fresh read.
	if _, err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, cached, _ := c.loadDatabase(context.Background(), cfg, store); cached {
		t.Error("load after Clear reported a cache hit")
	}
}

func TestCacheClear(t *testing.T) {
	isolate(t)
	db := writeTestDB(t)

	// Populate the default cache directory.
	if _, err := execute(t, "info", "vim", "--db", db); err != nil {
		t.Fatalf("info: %v", err)
	}
	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output:\n%s", out)
	}
}
