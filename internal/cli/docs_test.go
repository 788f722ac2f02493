package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/mtpoi/internal/ui"
)

func stubDocsDisplay(t *testing.T, width int, render func(string, int) (string, error)) {
	t.Helper()
	prevDisplay, prevRender, prevJSON := docsTerminal, docsMarkdownRender, jsonOutput
	t.Cleanup(func() {
		docsTerminal, docsMarkdownRender, jsonOutput = prevDisplay, prevRender, prevJSON
	})
	docsTerminal = func() ui.Terminal { return ui.FixedTerminal(width) }
	docsMarkdownRender = render
	jsonOutput = false
}

func TestDocsTopicRendersOnTerminal(t *testing.T) {
	var gotWidth int
	stubDocsDisplay(t, 72, func(md string, width int) (string, error) {
		gotWidth = width
		return "RENDERED " + strings.SplitN(md, "\n", 2)[0], nil
	})

	out := captureStdout(t, func() {
		require.NoError(t, docsCmd.RunE(docsCmd, []string{"configuration"}))
	})
	assert.Equal(t, 72, gotWidth)
	assert.True(t, strings.HasPrefix(out, "RENDERED #"), "output: %q", out)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestDocsUnknownTopic(t *testing.T) {
	stubDocsDisplay(t, 80, ui.RenderMarkdown)
	jsonOutput = true

	var runErr error
	out := captureStdout(t, func() { runErr = docsCmd.RunE(docsCmd, []string{"nope"}) })
	require.Error(t, runErr)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrTopicNotFound, resp.Error.Code)
}

func TestDocsListsTopics(t *testing.T) {
	stubDocsDisplay(t, 80, ui.RenderMarkdown)

	out := captureStdout(t, func() {
		require.NoError(t, docsCmd.RunE(docsCmd, nil))
	})
	for _, id := range []string{"overview", "configuration", "cargo-rules", "outputs", "troubleshooting"} {
		assert.Contains(t, out, "mtpoi docs "+id)
	}
}

func TestDocsSearchLimit(t *testing.T) {
	stubDocsDisplay(t, 80, ui.RenderMarkdown)
	prevLimit := docsSearchLimit
	t.Cleanup(func() { docsSearchLimit = prevLimit })
	docsSearchLimit = 0

	err := docsSearchCmd.RunE(docsSearchCmd, []string{"drop"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--limit")
}
