package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/tabconv/internal/types"
)

// field is one aligned "key : value" line.
type field struct {
	key   string
	value string
}

// printHeader prints a formatted header
func printHeader(w io.Writer, format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	width := visualWidth(title) + 4
	fmt.Fprintln(w, strings.Repeat("=", width))
	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", width))
}

// printSection prints a section header
func printSection(w io.Writer, title string) {
	fmt.Fprintf(w, "[%s]\n", title)
	fmt.Fprintln(w, strings.Repeat("-", visualWidth(title)+2))
}

// printFields prints fields with their keys padded to a common visual width.
func printFields(w io.Writer, indent int, fields []field) {
	keyWidth := 0
	for _, f := range fields {
		if kw := visualWidth(f.key); kw > keyWidth {
			keyWidth = kw
		}
	}

	pad := strings.Repeat(" ", indent)
	for _, f := range fields {
		fmt.Fprintf(w, "%s%s : %s\n", pad, runewidth.FillRight(f.key, keyWidth), f.value)
	}
}

// rowFields lists a row's values in column order, then any keys outside the
// columns sorted.
func rowFields(columns []string, row types.Row) []field {
	fields := make([]field, 0, len(row))
	known := make(map[string]bool, len(columns))
	for _, col := range columns {
		known[col] = true
		if v, ok := row[col]; ok {
			fields = append(fields, field{col, types.ToString(v)})
		}
	}

	var extra []string
	for k := range row {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		fields = append(fields, field{k, types.ToString(row[k])})
	}
	return fields
}

// visualWidth returns the terminal width of s, counting East Asian wide
// characters as two cells.
func visualWidth(s string) int {
	return runewidth.StringWidth(s)
}

func okMark() string   { return color.Green.Sprint("✓") }
func failMark() string { return color.Red.Sprint("✗") }
func warnMark() string { return color.Yellow.Sprint("!") }
