package ui

import (
	"strings"

	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
)

// MarkdownRenderMargin is the left margin of rendered documents and code
// blocks.
const MarkdownRenderMargin = 2

const defaultCodeTheme = "monokai"

var markdownCodeTheme = defaultCodeTheme

// ConfigureMarkdownCodeTheme selects the chroma theme for code blocks in
// `mtpoi docs`. Unknown names fall back to monokai.
func ConfigureMarkdownCodeTheme(theme string) {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if _, ok := chromastyles.Registry[theme]; !ok {
		theme = defaultCodeTheme
	}
	markdownCodeTheme = theme
}

// RenderMarkdown renders a guide for the terminal, wrapped at width
// (the fallback width when width <= 0), ending in exactly one newline.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = fallbackWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

// markdownStyle is glamour's dark style with flatter headings, the accent
// color on titles and a chroma theme for code blocks.
func markdownStyle() ansi.StyleConfig {
	s := glamourstyles.DarkStyleConfig

	s.Document.Color = nil
	s.Document.Margin = ptr(uint(MarkdownRenderMargin))

	s.Heading.Color = nil
	if color, ok := AccentColor(); ok {
		s.Heading.Color = ptr(color)
	}
	s.H1.StylePrimitive = ansi.StylePrimitive{Prefix: "# ", Underline: ptr(true)}
	s.H2.StylePrimitive = ansi.StylePrimitive{Prefix: "## ", Underline: ptr(true)}
	s.H6.Color = nil

	s.Code.StylePrimitive = ansi.StylePrimitive{Prefix: "`", Suffix: "`", Color: ptr("203")}
	s.CodeBlock.Chroma = nil
	s.CodeBlock.Theme = markdownCodeTheme
	s.CodeBlock.Margin = ptr(uint(MarkdownRenderMargin))

	s.Table.CenterSeparator = ptr("│")
	s.Table.ColumnSeparator = ptr("│")
	s.Table.RowSeparator = ptr("─")
	return s
}

func ptr[T any](v T) *T { return &v }
