package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mtpoi/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show mtpoi version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildinfo.Current()
		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}

		fmt.Printf("mtpoi %s\n", info.Version)
		if info.Commit != "" {
			suffix := ""
			if info.Modified {
				suffix = " (modified)"
			}
			fmt.Printf("commit: %s%s\n", info.Commit, suffix)
		}
		if info.CommitTime != "" {
			fmt.Printf("built: %s\n", info.CommitTime)
		}
		fmt.Printf("go: %s %s/%s\n", info.GoVersion, info.GOOS, info.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
