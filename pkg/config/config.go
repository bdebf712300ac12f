// Package config loads pacview's layered configuration.
//
// Values are resolved from, in increasing precedence:
//
//  1. built-in defaults
//  2. the TOML config file ($XDG_CONFIG_HOME/pacview/config.toml, or the file
//     named by PACVIEW_CONFIG)
//  3. PACVIEW_* environment variables (PACVIEW_UI_SORT=size, ...)
//  4. command-line flags bound by the caller with viper's BindPFlag
//
// A missing default config file is not an error.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	pverrors "github.com/matzehuels/pacview/pkg/errors"
	"github.com/matzehuels/pacview/pkg/graph"
)

const (
	appName = "pacview"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PACVIEW"

	// EnvConfig names an explicit config file path.
	EnvConfig = "PACVIEW_CONFIG"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	UI       UIConfig       `mapstructure:"ui"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// DatabaseConfig locates and interprets the package database.
type DatabaseConfig struct {
	Path            string `mapstructure:"path" toml:"path"`
	IncludeOptional bool   `mapstructure:"include_optional" toml:"include_optional"`
	Workers         int    `mapstructure:"workers" toml:"workers"`
}

// UIConfig holds browser settings.
type UIConfig struct {
	PageSize     int    `mapstructure:"page_size" toml:"page_size"`
	Sort         string `mapstructure:"sort" toml:"sort"`
	ExplicitOnly bool   `mapstructure:"explicit_only" toml:"explicit_only"`
	ShowHelp     bool   `mapstructure:"show_help" toml:"show_help"`
}

// SortMode returns the parsed sort setting. Validate rejects unknown values.
func (u UIConfig) SortMode() graph.SortMode {
	m, _ := graph.ParseSortMode(u.Sort)
	return m
}

// CacheConfig controls the parsed-database snapshot cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	// Dir overrides the cache directory; empty means CacheDir().
	Dir string `mapstructure:"dir"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{
			Path:            "/var/lib/pacman/local",
			IncludeOptional: true,
			Workers:         8,
		},
		UI: UIConfig{
			PageSize:     10,
			Sort:         "name",
			ExplicitOnly: true,
			ShowHelp:     true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
	}
}

// NewViper returns a viper instance with defaults, file location and
// environment overrides configured but nothing read yet. path overrides the
// config file location; empty means PACVIEW_CONFIG or the default path.
func NewViper(path string) *viper.Viper {
	v := viper.New()

	d := Defaults()
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.include_optional", d.Database.IncludeOptional)
	v.SetDefault("database.workers", d.Database.Workers)
	v.SetDefault("ui.page_size", d.UI.PageSize)
	v.SetDefault("ui.sort", d.UI.Sort)
	v.SetDefault("ui.explicit_only", d.UI.ExplicitOnly)
	v.SetDefault("ui.show_help", d.UI.ShowHelp)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.dir", d.Cache.Dir)

	v.SetConfigType("toml")
	v.SetConfigFile(Path(path))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

// Read loads the config file into v, decodes and validates the result.
// A missing file is only an error when it was named explicitly.
func Read(v *viper.Viper, explicit bool) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), os.IsNotExist(err) && !explicit:
		case os.IsNotExist(err):
			return Config{}, pverrors.Wrap(pverrors.ErrCodeFileNotFound, err, "config file %s", v.ConfigFileUsed())
		default:
			return Config{}, pverrors.Wrap(pverrors.ErrCodeInvalidFormat, err, "read config %s", v.ConfigFileUsed())
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, pverrors.Wrap(pverrors.ErrCodeInvalidFormat, err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load is NewViper followed by Read.
func Load(path string) (Config, error) {
	return Read(NewViper(path), IsExplicit(path))
}

// IsExplicit reports whether the config path was chosen by the user rather
// than defaulted.
func IsExplicit(path string) bool {
	return path != "" || os.Getenv(EnvConfig) != ""
}

// Validate checks value ranges that viper cannot express.
func (c Config) Validate() error {
	if c.Database.Path == "" {
		return pverrors.New(pverrors.ErrCodeInvalidInput, "database.path must not be empty")
	}
	if c.Database.Workers < 0 {
		return pverrors.New(pverrors.ErrCodeInvalidInput, "database.workers must not be negative, got %d", c.Database.Workers)
	}
	if c.UI.PageSize <= 0 {
		return pverrors.New(pverrors.ErrCodeInvalidInput, "ui.page_size must be positive, got %d", c.UI.PageSize)
	}
	if _, ok := graph.ParseSortMode(c.UI.Sort); !ok {
		return pverrors.New(pverrors.ErrCodeInvalidInput, "ui.sort must be \"name\" or \"size\", got %q", c.UI.Sort)
	}
	if c.Cache.TTL < 0 {
		return pverrors.New(pverrors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

// =============================================================================
// Encoding
// =============================================================================

// fileConfig is the on-disk shape. Durations are written as strings such as
// "24h0m0s", which viper decodes back into time.Duration.
type fileConfig struct {
	Database DatabaseConfig `toml:"database"`
	UI       UIConfig       `toml:"ui"`
	Cache    struct {
		Enabled bool   `toml:"enabled"`
		TTL     string `toml:"ttl"`
		Dir     string `toml:"dir,omitempty"`
	} `toml:"cache"`
}

// Encode writes c as TOML.
func Encode(w io.Writer, c Config) error {
	f := fileConfig{Database: c.Database, UI: c.UI}
	f.Cache.Enabled = c.Cache.Enabled
	f.Cache.TTL = c.Cache.TTL.String()
	f.Cache.Dir = c.Cache.Dir

	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// WriteFile writes c to path, creating parent directories. An existing file
// is only replaced when overwrite is set.
func WriteFile(path string, c Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return pverrors.New(pverrors.ErrCodeInvalidInput, "%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// =============================================================================
// Paths
// =============================================================================

// Path picks the explicit path, then PACVIEW_CONFIG, then DefaultPath.
func Path(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return DefaultPath()
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/pacview/config.toml).
func DefaultPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", appName+".toml")
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// CacheDir returns the cache directory using the XDG standard
// (~/.cache/pacview/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
