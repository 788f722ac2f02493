package ui

import (
	"fmt"
	"strings"
)

// Status markers prefixed to one-line messages.
const (
	markOK   = "✓"
	markFail = "✗"
	markWarn = "⚠"
	markNote = "ℹ"
)

func mark(symbol, msg string) string { return symbol + " " + msg }

func Success(msg string) string { return mark(markOK, msg) }
func Error(msg string) string   { return mark(markFail, msg) }
func Warning(msg string) string { return mark(markWarn, msg) }

func Successf(format string, args ...any) string { return Success(fmt.Sprintf(format, args...)) }
func Warningf(format string, args ...any) string { return Warning(fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any) string    { return mark(markNote, fmt.Sprintf(format, args...)) }

// Header renders a section title.
func Header(msg string) string { return Bold.Render(msg) }

// FilePath highlights a path.
func FilePath(path string) string { return Accent.Render(path) }

// Hint renders secondary text.
func Hint(msg string) string { return Muted.Render(msg) }

// Count renders "(n noun)" picking singular or plural.
func Count(n int, singular, plural string) string {
	return "(" + quantity(n, singular, plural) + ")"
}

// ErrorWarningCounts renders "(2 errors, 1 warning)", omitting a zero
// error count. With nothing to report it renders "(0 warnings)".
func ErrorWarningCounts(errors, warnings int) string {
	var parts []string
	if errors > 0 {
		parts = append(parts, quantity(errors, "error", "errors"))
	}
	if warnings > 0 || errors == 0 {
		parts = append(parts, quantity(warnings, "warning", "warnings"))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func quantity(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
