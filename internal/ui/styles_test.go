package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAccentColor(t *testing.T) {
	valid := map[string]string{
		"39":      "39",
		"  244 ":  "244",
		"0":       "0",
		"#7AA2F7": "#7aa2f7",
		"#abc":    "#aabbcc",
	}
	for in, want := range valid {
		got, ok := normalizeAccentColor(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "none", "OFF", "default", "256", "-1", "#zzzzzz", "#abcd", "purple"} {
		got, ok := normalizeAccentColor(in)
		assert.False(t, ok, in)
		assert.Empty(t, got, in)
	}
}

func TestConfigureThemeTogglesAccent(t *testing.T) {
	prevAccent, prevBold, prevColor := Accent, AccentBold, accentColor
	t.Cleanup(func() { Accent, AccentBold, accentColor = prevAccent, prevBold, prevColor })

	ConfigureTheme("#fff")
	color, ok := AccentColor()
	require.True(t, ok)
	assert.Equal(t, "#ffffff", color)
	assert.True(t, AccentBold.GetBold())

	ConfigureTheme("off")
	_, ok = AccentColor()
	assert.False(t, ok)
	assert.True(t, AccentBold.GetBold())
}

func TestStatusLines(t *testing.T) {
	assert.Equal(t, "✓ done", Success("done"))
	assert.Equal(t, "✗ broken", Error("broken"))
	assert.Equal(t, "⚠ 3 skipped", Warningf("%d skipped", 3))
	assert.Equal(t, "ℹ index at out", Infof("index at %s", "out"))
}

func TestCounts(t *testing.T) {
	assert.Equal(t, "(1 record)", Count(1, "record", "records"))
	assert.Equal(t, "(0 records)", Count(0, "record", "records"))

	assert.Equal(t, "(2 errors, 1 warning)", ErrorWarningCounts(2, 1))
	assert.Equal(t, "(1 error)", ErrorWarningCounts(1, 0))
	assert.Equal(t, "(4 warnings)", ErrorWarningCounts(0, 4))
	assert.Equal(t, "(0 warnings)", ErrorWarningCounts(0, 0))
}

func TestTerminalFit(t *testing.T) {
	term := FixedTerminal(100)
	assert.True(t, term.Interactive)
	assert.Equal(t, 96, term.Fit(4))
	assert.Equal(t, 20, FixedTerminal(10).Fit(0))
}
