package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/mtpoi/internal/extract"
	"github.com/aidanlsb/mtpoi/internal/slugs"
	"github.com/aidanlsb/mtpoi/internal/spatial"
	"github.com/aidanlsb/mtpoi/internal/ui"
)

var areasFlag string

type areaView struct {
	Key      string        `json:"key"`
	Name     string        `json:"name"`
	Flag     string        `json:"flag"`
	Vertices int           `json:"vertices"`
	BBox     *spatial.BBox `json:"bbox,omitempty"`
}

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "List the named map areas",
	Long: `Parse the world file and list its area volumes, the regions every point
is labelled with.

Examples:
  mtpoi areas
  mtpoi areas --flag RaceTrack
  mtpoi areas --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := getConfig()
		s := settingsFromConfig(c)
		s.cats = extract.Categories{}

		res, err := runPipeline(cmd.Context(), c, s, logger)
		if err != nil {
			return handleError(errorCode(err, ErrInternal), err, extractSuggestion(errorCode(err, ErrInternal)))
		}

		var views []areaView
		for _, a := range res.Areas {
			if !flagMatches(a.Flag, areasFlag) {
				continue
			}
			v := areaView{Key: slugs.AreaKey(a.Name), Name: a.Name, Flag: a.Flag, Vertices: len(a.Vertex)}
			if len(a.Vertex) > 0 {
				verts := make([]spatial.Vec2, len(a.Vertex))
				for i, p := range a.Vertex {
					verts[i] = spatial.Vec2{X: p.X, Y: p.Y}
				}
				box := spatial.NewArea(a.Name, a.Flag, verts).BBox()
				v.BBox = &box
			}
			views = append(views, v)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"areas": views}, &Meta{Count: len(views)})
			return nil
		}

		if len(views) == 0 {
			fmt.Println("No areas found.")
			return nil
		}
		tbl := newTable("area", "flag", "vertices")
		for _, v := range views {
			tbl.AddRow(ui.Accent.Render(v.Name), v.Flag, fmt.Sprint(v.Vertices))
		}
		fmt.Print(tbl.String())
		fmt.Println(ui.Hint(fmt.Sprintf("%d areas", len(views))))
		return nil
	},
}

// flagMatches compares an area flag with a filter given with or without the
// enum prefix. An empty filter matches everything.
func flagMatches(flag, filter string) bool {
	if filter == "" {
		return true
	}
	_, short, _ := strings.Cut(flag, "::")
	return strings.EqualFold(flag, filter) || strings.EqualFold(short, filter)
}

func init() {
	areasCmd.Flags().StringVar(&areasFlag, "flag", "", "Only list areas with this flag (Zone, LargeArea, SmallArea, RaceTrack)")
	rootCmd.AddCommand(areasCmd)
}
