package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	for _, width := range []int{80, 0, -5} {
		out, err := RenderMarkdown("## Outputs\n\nEach category writes `delivery_points.json`.\n\n", width)
		require.NoError(t, err)
		assert.Contains(t, out, "Outputs")
		assert.True(t, strings.HasSuffix(out, "\n"))
		assert.False(t, strings.HasSuffix(out, "\n\n"), "width %d left extra newlines", width)
	}
}

func TestMarkdownStyle(t *testing.T) {
	style := markdownStyle()

	require.NotNil(t, style.H1.Underline)
	assert.True(t, *style.H1.Underline)
	require.NotNil(t, style.H2.Underline)
	assert.True(t, *style.H2.Underline)
	assert.Nil(t, style.H3.Underline)
	assert.NotNil(t, style.Code.Color)
	require.NotNil(t, style.Document.Margin)
	assert.Equal(t, uint(MarkdownRenderMargin), *style.Document.Margin)
}

func TestConfigureMarkdownCodeTheme(t *testing.T) {
	prev := markdownCodeTheme
	t.Cleanup(func() { markdownCodeTheme = prev })

	tests := []struct {
		in   string
		want string
	}{
		{"dracula", "dracula"},
		{"  GitHub ", "github"},
		{"no-such-theme", defaultCodeTheme},
		{"", defaultCodeTheme},
	}
	for _, tc := range tests {
		ConfigureMarkdownCodeTheme(tc.in)
		assert.Equal(t, tc.want, markdownCodeTheme, tc.in)
		assert.Equal(t, tc.want, markdownStyle().CodeBlock.Theme, tc.in)
	}
}
