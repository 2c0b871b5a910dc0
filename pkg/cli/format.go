// Package cli provides shared terminal output helpers for the confgen
// tools: column-aligned tables, ANSI colors, and dot-padded status
// lines.
package cli

import (
	"os"
	"strings"
)

// Colors are suppressed when NO_COLOR is set (per no-color.org).
var colorEnabled = os.Getenv("NO_COLOR") == ""

func colorize(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + "\033[0m"
}

// Green marks success ("deployed", "ok").
func Green(s string) string { return colorize("\033[32m", s) }

// Yellow marks warnings and dry-run status.
func Yellow(s string) string { return colorize("\033[33m", s) }

// Red marks failures.
func Red(s string) string { return colorize("\033[31m", s) }

// Bold highlights site names in multi-site output.
func Bold(s string) string { return colorize("\033[1m", s) }

// Dim de-emphasizes supplementary detail.
func Dim(s string) string { return colorize("\033[2m", s) }

// DotPad pads name with dots to the given width, for aligned status
// lines. Example: DotPad("branch-nyc", 30) → "branch-nyc ..................."
func DotPad(name string, width int) string {
	if width <= 0 || len(name) >= width-1 {
		return name
	}
	dots := width - len(name) - 1
	return name + " " + strings.Repeat(".", dots)
}
