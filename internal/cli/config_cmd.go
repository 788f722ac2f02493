package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mtpoi/internal/config"
	"github.com/aidanlsb/mtpoi/internal/ui"
)

var configInitLocal bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the mtpoi config file",
	Long: `Manage the TOML config file.

mtpoi reads the file given with --config, else ./mtpoi.toml, else
~/.config/mtpoi/config.toml. Without any of them the built-in defaults apply.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented config file",
	Long: `Create a commented config file with every key and its default.

Without --config the file is created in the user config directory, or in
./mtpoi.toml with --local. An existing file is left unchanged.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := initPath()
		created, err := config.CreateDefault(path)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": path, "created": created}, nil)
			return nil
		}
		if !created {
			fmt.Println(ui.Infof("Config already exists at %s", ui.FilePath(path)))
			return nil
		}
		fmt.Println(ui.Successf("Created %s", ui.FilePath(path)))
		return nil
	},
}

func initPath() string {
	switch {
	case strings.TrimSpace(configPath) != "":
		return configPath
	case configInitLocal:
		return config.LocalFile
	default:
		return config.DefaultPath()
	}
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which config file is in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := getConfigPath()
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path":         path,
				"exists":       path != "",
				"default_path": config.DefaultPath(),
			}, nil)
			return nil
		}
		if path == "" {
			fmt.Println(ui.Infof("No config file found; using defaults. Create one at %s", ui.FilePath(config.DefaultPath())))
			return nil
		}
		fmt.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration as TOML: the config file merged over the
defaults, with command-line overrides such as --dump-root applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := getConfig()
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path":   getConfigPath(),
				"config": c,
			}, nil)
			return nil
		}
		data, err := config.Encode(c)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		if p := getConfigPath(); p != "" {
			fmt.Println(ui.Hint("# " + p))
		} else {
			fmt.Println(ui.Hint("# built-in defaults"))
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitLocal, "local", false, "Create ./mtpoi.toml instead of the user config")
	configCmd.AddCommand(configInitCmd, configPathCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
