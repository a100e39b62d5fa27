package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/tabconv/internal/types"
)

var parseShowAll bool

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a file and show its contents",
	Long: `Parse reads a CSV, JSON or XML file into a record table and prints a
summary followed by a preview of the first rows.

The number of preview rows comes from preview.rows in the configuration
(default 5); --show-all prints every row.

Example:
  tabconv parse people.csv
  tabconv parse feed.xml --item-tag item --show-all`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseShowAll, "show-all", false,
		"Show every row instead of a preview")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.log.Sync()

	path := args[0]
	env.log.Infow("Starting parse", "file", path)

	tbl, err := env.parseFile(path)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	format, _ := tbl.Meta(types.MetaFormat)

	fmt.Fprintf(w, "%s Parsed %s\n", okMark(), path)
	printFields(w, 2, []field{
		{"File", path},
		{"Format", types.ToString(format)},
		{"Columns", strings.Join(tbl.Columns(), ", ")},
		{"Rows", fmt.Sprintf("%d", tbl.Len())},
	})

	limit := env.cfg.Preview.Rows
	if parseShowAll {
		limit = tbl.Len()
	}
	printPreview(cmd, tbl, limit)
	return nil
}

// printPreview prints the first limit rows.
func printPreview(cmd *cobra.Command, tbl *types.Table, limit int) {
	w := cmd.OutOrStdout()
	if tbl.Len() == 0 {
		fmt.Fprintln(w, "\n(no rows)")
		return
	}

	fmt.Fprintln(w)
	if limit >= tbl.Len() {
		printSection(w, "All rows")
	} else {
		printSection(w, fmt.Sprintf("First %d rows", limit))
	}

	columns := tbl.Columns()
	for i, row := range tbl.Slice(0, limit) {
		fmt.Fprintf(w, "  Row %d\n", i+1)
		printFields(w, 4, rowFields(columns, row))
	}

	if rest := tbl.Len() - limit; rest > 0 {
		fmt.Fprintf(w, "\n  ... and %d more rows (use --show-all to display everything)\n", rest)
	}
}
