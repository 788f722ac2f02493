package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aidanlsb/mtpoi/internal/config"
	"github.com/aidanlsb/mtpoi/internal/logging"
	"github.com/aidanlsb/mtpoi/internal/ui"
)

var (
	// Global flags
	configPath   string
	dumpRootFlag string
	verbose      bool
	quiet        bool

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	logger             = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mtpoi",
	Short: "mtpoi - Motor Town points of interest",
	Long: `mtpoi reads a JSON export of Motor Town's game assets and writes the map's
delivery points, bus stops, EV chargers, houses and areas as flat JSON files.

Run 'mtpoi docs' for guides.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logging.Options{Verbose: verbose, Quiet: quiet, JSON: jsonOutput})
		if err != nil {
			return err
		}

		if !needsConfig(cmd) {
			cfg = config.Default()
			return nil
		}

		cfg, resolvedConfigPath, err = config.Load(configPath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Run 'mtpoi config init' to create a config file")
		}
		if strings.TrimSpace(dumpRootFlag) != "" {
			cfg.DumpRoot = dumpRootFlag
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		logger.Debug("config loaded",
			zap.String("path", resolvedConfigPath),
			zap.String("dump_root", cfg.DumpRoot))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the CLI. It returns an error when the command failed; errors
// already reported as a JSON envelope are not printed again.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	if !isReported(err) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

// noConfigAnnotation marks commands (and their subcommands) that must run
// even when the config file is missing or broken.
const noConfigAnnotation = "mtpoi.no-config"

func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[noConfigAnnotation] != "" {
			return false
		}
		switch c.Name() {
		case "help", cobra.ShellCompRequestCmd, "completion":
			return false
		}
	}
	return true
}

func withoutConfig(cmds ...*cobra.Command) {
	for _, c := range cmds {
		if c.Annotations == nil {
			c.Annotations = map[string]string{}
		}
		c.Annotations[noConfigAnnotation] = "true"
	}
}

func init() {
	withoutConfig(versionCmd, docsCmd, configInitCmd)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dumpRootFlag, "dump-root", "", "Directory of the game export (overrides dump_root)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for script use)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	return cfg
}

// getConfigPath returns the config file in effect, "" for built-in defaults.
func getConfigPath() string {
	return resolvedConfigPath
}
