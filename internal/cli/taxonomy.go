package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mtpoi/internal/ui"
)

var taxonomyType string

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the cargo taxonomy",
	Long: `Print the cargo types and the items each one expands to. Storage rules that
name only a cargo type apply to every listed item.

The built-in taxonomy is replaced by taxonomy_file when set.

Examples:
  mtpoi taxonomy
  mtpoi taxonomy --type EDeliveryCargoType::Food`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := getConfig()
		tax, err := loadTaxonomy(c)
		if err != nil {
			return handleError(errorCode(err, ErrConfigInvalid), err, "Check taxonomy_file in your config")
		}

		types := tax.Types()
		if taxonomyType != "" {
			if _, ok := tax[taxonomyType]; !ok {
				return handleErrorMsg(ErrInvalidInput,
					fmt.Sprintf("unknown cargo type %q", taxonomyType),
					"Run 'mtpoi taxonomy' to list types")
			}
			types = []string{taxonomyType}
		}

		if isJSONOutput() {
			out := make(map[string][]string, len(types))
			for _, t := range types {
				out[t] = tax.Items(t)
			}
			outputSuccess(map[string]interface{}{
				"source": taxonomySource(c.TaxonomyFile),
				"types":  out,
			}, &Meta{Count: len(types)})
			return nil
		}

		for _, t := range types {
			items := tax.Items(t)
			fmt.Printf("%s %s\n", ui.AccentBold.Render(t), ui.Hint(fmt.Sprintf("(%d)", len(items))))
			if len(items) > 0 {
				fmt.Printf("  %s\n", strings.Join(items, ", "))
			}
		}
		fmt.Println(ui.Hint("source: " + taxonomySource(c.TaxonomyFile)))
		return nil
	},
}

func taxonomySource(file string) string {
	if strings.TrimSpace(file) == "" {
		return "built-in"
	}
	return file
}

func init() {
	taxonomyCmd.Flags().StringVar(&taxonomyType, "type", "", "Only print this cargo type")
	rootCmd.AddCommand(taxonomyCmd)
}
