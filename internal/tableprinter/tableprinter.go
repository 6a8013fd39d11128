package tableprinter

import (
	"fmt"
	"regexp"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/rodaine/table"
)

// ansiPattern matches ANSI SGR escape sequences (e.g. \033[32m).
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// VisibleWidth returns the display width of s in terminal columns, excluding
// any ANSI SGR escape sequences. This correctly accounts for wide characters
// such as East Asian characters and emoji, which occupy two columns despite
// being a single glyph.
func VisibleWidth(s string) int {
	stripped := ansiPattern.ReplaceAllString(s, "")
	return runewidth.StringWidth(stripped)
}

// NewTable creates a new table with the given column headers, pre-configured
// with an ANSI-aware width function so that colored cell values don't break
// column alignment.
func NewTable(headers ...interface{}) table.Table {
	return table.New(headers...).WithWidthFunc(VisibleWidth)
}

// FormatCount renders an integer with thousands separators: 12847 -> "12,847".
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatPercent renders a value already scaled to 0-100 with one decimal
// place: 42.53 -> "42.5%".
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatUSD renders a dollar amount with thousands separators and cents:
// 12847.5 -> "$12,847.50".
func FormatUSD(amount float64) string {
	return "$" + humanize.FormatFloat("#,###.##", amount)
}
