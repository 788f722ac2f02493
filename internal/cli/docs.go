package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	builtindocs "github.com/aidanlsb/mtpoi/docs"
	"github.com/aidanlsb/mtpoi/internal/ui"
)

var (
	docsSearchLimit int

	docsTerminal       = ui.DetectTerminal
	docsMarkdownRender = ui.RenderMarkdown
)

type docsPage struct {
	Topic   string `json:"topic"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type docsSearchResult struct {
	Query   string              `json:"query"`
	Matches []builtindocs.Match `json:"matches"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Read the bundled guides",
	Long: `Read long-form guides bundled into the mtpoi binary.

For command-level usage, use 'mtpoi help <command>'.

Examples:
  mtpoi docs
  mtpoi docs configuration
  mtpoi docs search drop points`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listDocsTopics()
		}
		return showDocsTopic(args[0])
	},
}

var docsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the bundled guides",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return searchDocs(strings.TrimSpace(strings.Join(args, " ")))
	},
}

func showDocsTopic(id string) error {
	topic, err := builtindocs.Find(id)
	switch {
	case errors.Is(err, builtindocs.ErrUnknownTopic):
		return handleError(ErrTopicNotFound, err, "Run 'mtpoi docs' to list topics")
	case err != nil:
		return handleError(ErrInternal, err, "")
	}
	content, err := builtindocs.Read(topic)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(docsPage{Topic: topic.ID, Title: topic.Title, Content: string(content)}, nil)
		return nil
	}

	text := string(content)
	if term := docsTerminal(); term.Interactive {
		if rendered, err := docsMarkdownRender(text, term.Width); err == nil {
			text = rendered
		}
	}
	fmt.Print(strings.TrimRight(text, "\n") + "\n")
	return nil
}

func searchDocs(query string) error {
	switch {
	case query == "":
		return handleErrorMsg(ErrMissingArgument, "specify a search query", "Usage: mtpoi docs search <query>")
	case docsSearchLimit < 1:
		return handleErrorMsg(ErrInvalidInput, "--limit must be >= 1", "")
	}

	matches, err := builtindocs.Search(query, docsSearchLimit)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	if isJSONOutput() {
		outputSuccess(docsSearchResult{Query: query, Matches: matches}, &Meta{Count: len(matches)})
		return nil
	}

	if len(matches) == 0 {
		fmt.Printf("No docs matched %q.\n", query)
		return nil
	}
	fmt.Println(ui.Header(fmt.Sprintf("Matches for %q", query)) + " " + ui.Count(len(matches), "match", "matches"))
	for _, m := range matches {
		fmt.Printf("  %s %s\n", ui.Accent.Render(fmt.Sprintf("%s:%d", m.Topic, m.Line)), m.Snippet)
	}
	return nil
}

func listDocsTopics() error {
	topics, err := builtindocs.Topics()
	if err != nil {
		return handleError(ErrInternal, err, "Rebuild mtpoi so bundled docs are available")
	}
	if isJSONOutput() {
		outputSuccess(map[string][]builtindocs.Topic{"topics": topics}, &Meta{Count: len(topics)})
		return nil
	}

	fmt.Println(ui.Header("Documentation topics"))
	for _, t := range topics {
		fmt.Printf("  %-32s %s\n", "mtpoi docs "+t.ID, t.Title)
	}
	fmt.Println()
	fmt.Println(ui.Hint("  mtpoi docs search <query>        Search the guides"))
	fmt.Println(ui.Hint("  mtpoi help <command>             Command docs"))
	return nil
}

func init() {
	docsSearchCmd.Flags().IntVar(&docsSearchLimit, "limit", 20, "Maximum matches")
	docsCmd.AddCommand(docsSearchCmd)
	rootCmd.AddCommand(docsCmd)
}
