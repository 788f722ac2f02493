package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mtpoi/internal/check"
	"github.com/aidanlsb/mtpoi/internal/ui"
)

var checkStrictWarnings bool

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Validate written output files",
	Long: `Validate the output files in dir (default: output_dir) against the bundled
JSON Schemas, and report drop points, bus destinations and area names that
point nowhere.

Examples:
  mtpoi check
  mtpoi check ./out --warnings-as-errors
  mtpoi check --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := getConfig().OutputDir
		if len(args) == 1 {
			dir = args[0]
		}

		checker, err := check.New()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		report, err := checker.Dir(dir)
		if err != nil {
			return handleError(errorCode(err, ErrFileReadError), err, "")
		}

		errs := report.Errors()
		warns := len(report.Issues) - errs
		failed := errs > 0 || (checkStrictWarnings && warns > 0)

		if isJSONOutput() {
			if failed {
				return handleErrorWithDetails(ErrValidationFailed,
					fmt.Sprintf("%d errors, %d warnings", errs, warns), "", report)
			}
			var warnings []Warning
			for _, i := range report.Issues {
				warnings = append(warnings, Warning{Code: WarnOutputIssue, Message: i.Message, Ref: i.File + i.Pointer})
			}
			outputSuccessWithWarnings(report, warnings, &Meta{Count: len(report.Files)})
			return nil
		}

		for _, f := range report.Files {
			fmt.Printf("%s %s\n", ui.FilePath(f.Path), ui.Hint(fmt.Sprintf("%d records", f.Records)))
		}
		for _, i := range report.Issues {
			switch i.Level {
			case check.LevelError:
				fmt.Println(ui.Error(i.String()))
			default:
				fmt.Println(ui.Warning(i.String()))
			}
		}
		if failed {
			return fmt.Errorf("validation failed %s", ui.ErrorWarningCounts(errs, warns))
		}
		if len(report.Issues) > 0 {
			fmt.Println(ui.Successf("Outputs valid %s", ui.ErrorWarningCounts(errs, warns)))
			return nil
		}
		fmt.Println(ui.Success("Outputs valid"))
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrictWarnings, "warnings-as-errors", false, "Fail on warnings too")
	rootCmd.AddCommand(checkCmd)
}
