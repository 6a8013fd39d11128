package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI escape codes for terminal coloring.
const (
	ansiReset     = "\033[0m"
	ansiRed       = "\033[31m"
	ansiGreen     = "\033[32m"
	ansiYellow    = "\033[33m"
	ansiDarkGray  = "\033[90m"
	ansiLightBlue = "\033[94m"
)

// colorsEnabled gates ANSI output so piped and redirected output stays plain.
var colorsEnabled = isatty.IsTerminal(os.Stdout.Fd())

// colorize wraps s in the given ANSI color code when stdout is a terminal.
func colorize(color string, s string) string {
	if !colorsEnabled {
		return s
	}
	return color + s + ansiReset
}
