package cli

import "github.com/aidanlsb/mtpoi/internal/ui"

// newTable returns a table limited to the terminal width when stdout is a
// terminal.
func newTable(headers ...string) *ui.Table {
	t := ui.NewTable(headers...)
	if term := ui.DetectTerminal(); term.Interactive {
		t.SetWidth(term.Fit(0))
	}
	return t
}
