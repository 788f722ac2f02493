package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// fallbackWidth is used when stdout is not a terminal or its size is unknown.
const fallbackWidth = 120

// Terminal describes where human output is going.
type Terminal struct {
	Width       int
	Interactive bool
}

// DetectTerminal inspects stdout.
func DetectTerminal() Terminal {
	fd := os.Stdout.Fd()
	t := Terminal{Width: fallbackWidth, Interactive: term.IsTerminal(fd)}
	if !t.Interactive {
		return t
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		t.Width = w
	}
	return t
}

// FixedTerminal is an interactive terminal of the given width.
func FixedTerminal(width int) Terminal {
	return Terminal{Width: width, Interactive: true}
}

// Fit returns the width left after a margin, never less than 20 columns.
func (t Terminal) Fit(margin int) int {
	if w := t.Width - margin; w > 20 {
		return w
	}
	return 20
}
