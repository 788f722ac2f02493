package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mtpoi/internal/history"
	"github.com/aidanlsb/mtpoi/internal/ui"
)

var (
	historySince time.Duration
	historyLimit int
	historyDir   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous extraction runs",
	Long: `List the extraction runs recorded in the output directory, newest first.

Runs are recorded while history = true (the default).

Examples:
  mtpoi history
  mtpoi history --since 24h
  mtpoi history --out ./out --limit 5 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := getConfig()
		dir := c.OutputDir
		if cmd.Flags().Changed("out") {
			dir = historyDir
		}

		log := history.New(dir, true)
		var entries []history.Entry
		var err error
		if historySince > 0 {
			entries, err = log.ReadSince(time.Now().Add(-historySince))
		} else {
			entries, err = log.Read()
		}
		if err != nil {
			return handleError(errorCode(err, ErrFileReadError), err, "")
		}

		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.After(entries[j].Timestamp)
		})
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[:historyLimit]
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path": log.Path(),
				"runs": entries,
			}, &Meta{Count: len(entries)})
			return nil
		}

		if len(entries) == 0 {
			fmt.Println(ui.Hint("No runs recorded in " + log.Path()))
			return nil
		}
		tbl := newTable("time", "categories", "records", "skipped", "elapsed")
		for _, e := range entries {
			total := 0
			for _, n := range e.Records {
				total += n
			}
			tbl.AddRow(
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				strings.Join(e.Categories, ","),
				fmt.Sprint(total),
				fmt.Sprint(e.Skipped),
				(time.Duration(e.ElapsedMs) * time.Millisecond).String(),
			)
		}
		fmt.Print(tbl.String())
		return nil
	},
}

func init() {
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "Only list runs newer than this (e.g. 24h)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum runs to list (0 = all)")
	historyCmd.Flags().StringVar(&historyDir, "out", "", "Output directory (overrides output_dir)")
	rootCmd.AddCommand(historyCmd)
}
