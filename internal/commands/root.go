// ABOUTME: Root command and CLI initialization for catalint
// ABOUTME: Sets up cobra command structure, global flags, settings and logging
package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/plugincheck/catalint/internal/config"
	"github.com/plugincheck/catalint/internal/logging"
	"github.com/plugincheck/catalint/internal/ui"
)

var (
	catalintHome string
	logLevel     string
	noColor      bool

	// Populated by loadSettings before any subcommand runs
	settings = config.Default()
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "catalint",
	Short: "Validate browser plugin catalogs",
	Long: `catalint checks a browser plugin catalog (plugins_list.json) against
its schema: top-level mime types, every plugin, its per-OS version groups,
version records and platform descriptors.

Every rule is evaluated and reported; a bad plugin never hides problems in
the rest of the catalog.`,
	Annotations: map[string]string{
		ui.EnvAnnotation: `CATALINT_HOME  catalint home directory (default ~/.catalint)
CATALINT_<KEY>  override a config.toml setting, e.g. CATALINT_OUTPUT=json
CATALINT_HISTORY__ENABLED  nested keys are joined with a double underscore
NO_COLOR  disable colored output`,
	},
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command until ctx is cancelled
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version for the root command
func SetVersion(version string) {
	rootCmd.Version = version
}

func init() {
	// Set up custom help template with lipgloss styling
	ui.SetupHelpTemplate(rootCmd)

	rootCmd.PersistentFlags().StringVar(&catalintHome, "home", config.MustHome(), "catalint home directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// loadSettings layers config.toml and the environment over the defaults.
// Flags set on the command line win over both.
func loadSettings(cmd *cobra.Command, args []string) error {
	if noColor {
		ui.DisableColor()
	}

	loaded, err := config.Load(catalintHome)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		loaded.Log.Level = logLevel
	}

	l, err := logging.New(loaded.Log.Level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	settings = *loaded
	logger = l
	logger.Debug("settings loaded",
		zap.String("home", catalintHome),
		zap.String("config", config.ConfigPath(catalintHome)))
	return nil
}
