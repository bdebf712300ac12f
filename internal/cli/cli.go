package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/pacview/pkg/buildinfo"
	"github.com/matzehuels/pacview/pkg/config"
	"github.com/matzehuels/pacview/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "pacview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Flag names shared between commands.
const (
	flagConfig          = "config"
	flagDB              = "db"
	flagFrom            = "from"
	flagIncludeOptional = "include-optional"
	flagWorkers         = "workers"
	flagNoCache         = "no-cache"
	flagSort            = "sort"
	flagPageSize        = "page-size"
	flagAll             = "all"
	flagNoHelp          = "no-help"
)

// flagKeys maps flags onto the config keys they override.
var flagKeys = map[string]string{
	flagDB:              "database.path",
	flagIncludeOptional: "database.include_optional",
	flagWorkers:         "database.workers",
	flagSort:            "ui.sort",
	flagPageSize:        "ui.page_size",
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// out is where the logger writes outside the browser.
	out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Running the root command without a subcommand starts the browser.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Browse installed pacman packages and their dependencies",
		Long: `pacview is a terminal browser for the local pacman database. It shows the
packages that require the focused package on the left, the installed packages
in the middle and what the focused package depends on on the right.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			hooks := &loggingHooks{logger: c.Logger}
			observability.SetLoadHooks(hooks)
			observability.SetCacheHooks(hooks)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.String(flagConfig, "", "config file (default $XDG_CONFIG_HOME/pacview/config.toml)")
	pf.String(flagDB, "", "pacman local database directory")
	pf.String(flagFrom, "", "read packages from a JSON snapshot instead of the database")
	pf.Bool(flagIncludeOptional, false, "count optional dependencies as dependencies")
	pf.Int(flagWorkers, 0, "parallel desc file readers")
	pf.Bool(flagNoCache, false, "do not read or write the snapshot cache")
	addBrowseFlags(pf)

	root.AddCommand(c.browseCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// addBrowseFlags registers the browser settings. They are persistent so
// that info and config honour them too.
func addBrowseFlags(f *pflag.FlagSet) {
	f.String(flagSort, "", "initial sort order: name or size")
	f.Int(flagPageSize, 0, "rows moved by PgUp/PgDown")
	f.BoolP(flagAll, "a", false, "start with all packages instead of explicitly installed ones")
	f.Bool(flagNoHelp, false, "hide the help table at startup")
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig resolves the effective configuration for cmd: defaults, config
// file, environment and finally the flags set on the command line.
func (c *CLI) loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString(flagConfig)
	v := config.NewViper(path)
	if err := bindFlags(v, cmd); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Read(v, config.IsExplicit(path))
	if err != nil {
		return config.Config{}, err
	}

	// Negated switches have no config key of their own.
	if on, _ := cmd.Flags().GetBool(flagAll); on {
		cfg.UI.ExplicitOnly = false
	}
	if on, _ := cmd.Flags().GetBool(flagNoHelp); on {
		cfg.UI.ShowHelp = false
	}
	if on, _ := cmd.Flags().GetBool(flagNoCache); on {
		cfg.Cache.Enabled = false
	}

	c.Logger.Debug("configuration", "file", v.ConfigFileUsed(), "db", cfg.Database.Path, "sort", cfg.UI.Sort)
	return cfg, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
